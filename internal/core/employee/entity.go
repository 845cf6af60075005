package employee

import "time"

// Employee は従業員エンティティです。
type Employee struct {
	ID                string
	Name              string
	Location          *string
	DefaultHourlyRate float64
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

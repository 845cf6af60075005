package workrecord

import (
	"time"

	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
)

// WorkRecord は従業員 1 名・1 日分の勤務記録です。
// 従業員と日付の組で一意であり、保存は常に上書き (upsert) になります。
type WorkRecord struct {
	ID         string
	EmployeeID string
	Date       calendar.Date
	Hours      float64
	// HourlyRate は保存時点の時給で、従業員の既定時給が後から変わっても維持されます。
	HourlyRate float64
	StartTime  *string
	EndTime    *string
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Salary は勤務時間と時給から給与額を返します。
func (r *WorkRecord) Salary() float64 {
	return r.Hours * r.HourlyRate
}

// HoursByDate は日付文字列をキーにした勤務時間の対応表を作ります。
func HoursByDate(records []*WorkRecord) map[string]float64 {
	result := make(map[string]float64, len(records))
	for _, r := range records {
		result[r.Date.String()] = r.Hours
	}
	return result
}

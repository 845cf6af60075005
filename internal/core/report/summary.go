package report

import (
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/employee"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/workrecord"
)

// EmployeeSummary は期間内の従業員 1 名分の合計です。
type EmployeeSummary struct {
	EmployeeID  string  `json:"employee_id"`
	Name        string  `json:"name"`
	Location    *string `json:"location,omitempty"`
	DefaultRate float64 `json:"default_rate"`
	TotalHours  float64 `json:"total_hours"`
	TotalSalary float64 `json:"total_salary"`
	WorkDays    int     `json:"work_days"`
}

// Summary は期間内の全従業員の集計です。Employees は入力の従業員順を保ちます。
type Summary struct {
	Start                  calendar.Date     `json:"start"`
	End                    calendar.Date     `json:"end"`
	Employees              []EmployeeSummary `json:"employees"`
	EmployeeCountWithHours int               `json:"employee_count_with_hours"`
	TotalHours             float64           `json:"total_hours"`
	TotalSalary            float64           `json:"total_salary"`
	TotalDays              int               `json:"total_days"`
}

// Summarize は従業員ごとに記録を畳み込みます。
// 給与は記録の時給を優先し、0 の場合のみ従業員の既定時給を使います。
// 総時間・総給与は時間が 0 より大きい従業員だけを合算し、総日数は全従業員分を合算します。
// 一覧にない従業員の記録は無視します。
func Summarize(employees []*employee.Employee, records []*workrecord.WorkRecord) Summary {
	rows := make([]EmployeeSummary, 0, len(employees))
	index := make(map[string]int, len(employees))
	for _, emp := range employees {
		if emp == nil {
			continue
		}
		if _, dup := index[emp.ID]; dup {
			continue
		}
		index[emp.ID] = len(rows)
		rows = append(rows, EmployeeSummary{
			EmployeeID:  emp.ID,
			Name:        emp.Name,
			Location:    emp.Location,
			DefaultRate: emp.DefaultHourlyRate,
		})
	}

	for _, r := range records {
		if r == nil {
			continue
		}
		i, ok := index[r.EmployeeID]
		if !ok {
			continue
		}
		rate := r.HourlyRate
		if rate == 0 {
			rate = rows[i].DefaultRate
		}
		rows[i].TotalHours += r.Hours
		rows[i].TotalSalary += r.Hours * rate
		rows[i].WorkDays++
	}

	summary := Summary{Employees: rows}
	for _, row := range rows {
		if row.TotalHours > 0 {
			summary.EmployeeCountWithHours++
			summary.TotalHours += row.TotalHours
			summary.TotalSalary += row.TotalSalary
		}
		summary.TotalDays += row.WorkDays
	}
	return summary
}

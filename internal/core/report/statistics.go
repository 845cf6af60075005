package report

import (
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/workrecord"
)

// Statistics は選択日付に対する勤務集計です。
type Statistics struct {
	TotalHours        float64 `json:"total_hours"`
	AverageHours      float64 `json:"average_hours"`
	AverageRate       float64 `json:"avg_rate"`
	TotalSalary       float64 `json:"total_salary"`
	TotalDaysSelected int     `json:"total_days"`
	ValidDays         int     `json:"valid_days"`
}

// ComputeStatistics は 1 名分の記録を選択日付に限定して集計します。
// 選択日付は重複を除いて数え、記録のない日付は合計に寄与しません。
// 平均時給は時間で重み付けしない単純平均です。
func ComputeStatistics(dates []calendar.Date, records []*workrecord.WorkRecord) Statistics {
	byDate := make(map[calendar.Date]*workrecord.WorkRecord, len(records))
	for _, r := range records {
		if r != nil {
			byDate[r.Date] = r
		}
	}

	selected := make(map[calendar.Date]struct{}, len(dates))
	var (
		stats   Statistics
		rateSum float64
	)
	for _, d := range dates {
		if _, dup := selected[d]; dup {
			continue
		}
		selected[d] = struct{}{}

		r, ok := byDate[d]
		if !ok {
			continue
		}
		stats.ValidDays++
		stats.TotalHours += r.Hours
		stats.TotalSalary += r.Salary()
		rateSum += r.HourlyRate
	}

	stats.TotalDaysSelected = len(selected)
	if stats.ValidDays > 0 {
		stats.AverageHours = stats.TotalHours / float64(stats.ValidDays)
		stats.AverageRate = rateSum / float64(stats.ValidDays)
	}
	return stats
}

package calendar

import "time"

const daysPerWeek = 7

// Cell はカレンダー表示の 1 マスです。
type Cell struct {
	Date       Date     `json:"date"`
	OtherMonth bool     `json:"other_month"`
	Holiday    *Holiday `json:"holiday,omitempty"`
	HasRecord  bool     `json:"has_record"`
	Hours      float64  `json:"hours,omitempty"`
}

// BuildMonthGrid は日曜始まりの月表示を構築します。
// 前月・翌月の埋め草セルには祝日と記録の注記を付けません。
// hoursByDate は "YYYY-MM-DD" をキーとした当該従業員の勤務時間です。
// 戻り値の長さは常に 7 の倍数です。
func BuildMonthGrid(year int, month time.Month, hoursByDate map[string]float64) ([]Cell, error) {
	if month < time.January || month > time.December {
		return nil, ErrInvalidMonth
	}

	first := Date{Year: year, Month: month, Day: 1}
	firstWeekday := int(first.Weekday())
	days := DaysInMonth(year, month)

	total := firstWeekday + days
	if rem := total % daysPerWeek; rem != 0 {
		total += daysPerWeek - rem
	}

	cells := make([]Cell, 0, total)

	for i := firstWeekday; i > 0; i-- {
		cells = append(cells, Cell{Date: first.AddDays(-i), OtherMonth: true})
	}

	holidays := HolidaysForYear(year)
	for day := 1; day <= days; day++ {
		d := Date{Year: year, Month: month, Day: day}
		key := d.String()
		cell := Cell{Date: d}
		if h, ok := holidays[key]; ok {
			holiday := h
			cell.Holiday = &holiday
		}
		if hours, ok := hoursByDate[key]; ok {
			cell.HasRecord = true
			cell.Hours = hours
		}
		cells = append(cells, cell)
	}

	last := Date{Year: year, Month: month, Day: days}
	for i := 1; len(cells) < total; i++ {
		cells = append(cells, Cell{Date: last.AddDays(i), OtherMonth: true})
	}

	return cells, nil
}

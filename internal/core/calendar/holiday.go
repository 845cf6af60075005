package calendar

import (
	"sort"
	"time"
)

// Holiday は祝日 1 件分の表示情報です。
type Holiday struct {
	Date  Date   `json:"date"`
	Short string `json:"short"`
	Full  string `json:"full"`
}

type holidayRule struct {
	short string
	full  string
	date  func(year int) Date
}

func fixedDay(month time.Month, day int) func(int) Date {
	return func(year int) Date {
		return Date{Year: year, Month: month, Day: day}
	}
}

func nthWeekday(month time.Month, weekday time.Weekday, n int) func(int) Date {
	return func(year int) Date {
		// 規則に含まれる n はいずれも全ての月に存在する。
		d, _ := NthWeekdayOfMonth(year, month, weekday, n)
		return d
	}
}

func lastWeekday(month time.Month, weekday time.Weekday) func(int) Date {
	return func(year int) Date {
		return LastWeekdayOfMonth(year, month, weekday)
	}
}

var usHolidayRules = []holidayRule{
	{short: "元旦", full: "New Year's Day — 元旦", date: fixedDay(time.January, 1)},
	{short: "马丁·路德·金", full: "Martin Luther King Jr. Day — 马丁·路德·金纪念日", date: nthWeekday(time.January, time.Monday, 3)},
	{short: "总统日", full: "Washington's Birthday / Presidents' Day — 总统日", date: nthWeekday(time.February, time.Monday, 3)},
	{short: "阵亡将士", full: "Memorial Day — 阵亡将士纪念日", date: lastWeekday(time.May, time.Monday)},
	{short: "解放日", full: "Juneteenth National Independence Day — 解放日", date: fixedDay(time.June, 19)},
	{short: "独立日", full: "Independence Day — 美国独立日", date: fixedDay(time.July, 4)},
	{short: "劳动节", full: "Labor Day — 劳动节", date: nthWeekday(time.September, time.Monday, 1)},
	{short: "哥伦布日", full: "Columbus Day — 哥伦布日", date: nthWeekday(time.October, time.Monday, 2)},
	{short: "退伍军人", full: "Veterans Day — 退伍军人节", date: fixedDay(time.November, 11)},
	{short: "感恩节", full: "Thanksgiving Day — 感恩节", date: nthWeekday(time.November, time.Thursday, 4)},
	{short: "圣诞节", full: "Christmas Day — 圣诞节", date: fixedDay(time.December, 25)},
}

// HolidaysForYear は指定年の米国祝日表を日付文字列をキーとして返します。
// 呼び出しごとに再計算します。
func HolidaysForYear(year int) map[string]Holiday {
	out := make(map[string]Holiday, len(usHolidayRules))
	for _, rule := range usHolidayRules {
		d := rule.date(year)
		out[d.String()] = Holiday{Date: d, Short: rule.short, Full: rule.full}
	}
	return out
}

// HolidayList は指定年の祝日を日付順に返します。
func HolidayList(year int) []Holiday {
	table := HolidaysForYear(year)
	out := make([]Holiday, 0, len(table))
	for _, h := range table {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// LookupHoliday は d が祝日であればその情報を返します。
func LookupHoliday(d Date) (Holiday, bool) {
	h, ok := HolidaysForYear(d.Year)[d.String()]
	return h, ok
}

// HolidayInfo は日付文字列から年を取り出し、祝日であればその情報を返します。
func HolidayInfo(s string) (Holiday, bool) {
	d, err := ParseDate(s)
	if err != nil {
		return Holiday{}, false
	}
	return LookupHoliday(d)
}

package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout は境界で扱う日付文字列の書式です。
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate       = errors.New("calendar: invalid date")
	ErrWeekdayOutOfRange = errors.New("calendar: weekday occurrence out of range")
	ErrInvalidClock      = errors.New("calendar: invalid clock time")
	ErrInvalidMonth      = errors.New("calendar: invalid month")
)

var weekdayLabels = [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// Date はタイムゾーンを持たない暦日です。
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate は正規化された Date を返します。範囲外の日は time.Date と同様に繰り上がります。
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf は t のローカルな年月日フィールドから Date を取り出します。
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate は "YYYY-MM-DD" を '-' で分割し整数として解釈します。
// タイムゾーンを伴う解析は行いません。
func ParseDate(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return Date{}, fmt.Errorf("%q: %w", s, ErrInvalidDate)
	}

	fields := [3]int{}
	for i, p := range parts {
		v, ok := parseDigits(p)
		if !ok {
			return Date{}, fmt.Errorf("%q: %w", s, ErrInvalidDate)
		}
		fields[i] = v
	}

	year, month, day := fields[0], time.Month(fields[1]), fields[2]
	if month < time.January || month > time.December {
		return Date{}, fmt.Errorf("%q: %w", s, ErrInvalidDate)
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("%q: %w", s, ErrInvalidDate)
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// parseDigits は ASCII 数字のみからなる文字列を整数にします。符号や空白は受け付けません。
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	return v, err == nil
}

// FormatDate は t の暦日を "YYYY-MM-DD" で返します。タイムゾーン変換は行いません。
func FormatDate(t time.Time) string {
	return DateOf(t).String()
}

// String は "YYYY-MM-DD" 形式の文字列を返します。
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Chinese は "2024年3月1日" 形式の表示用文字列を返します。
func (d Date) Chinese() string {
	return fmt.Sprintf("%d年%d月%d日", d.Year, int(d.Month), d.Day)
}

// MarshalText は "YYYY-MM-DD" を返します。
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText は "YYYY-MM-DD" を解析します。
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsZero は未設定の Date かどうかを返します。
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time は UTC 0 時の time.Time を返します。
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday は曜日を返します。
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// AddDays は n 日後の Date を返します。
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Compare は d が other より前なら -1、同日なら 0、後なら 1 を返します。
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

// Before は d が other より前かどうかを返します。
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// After は d が other より後かどうかを返します。
func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// WeekdayOf は日付文字列の曜日を返します。
func WeekdayOf(s string) (time.Weekday, error) {
	d, err := ParseDate(s)
	if err != nil {
		return 0, err
	}
	return d.Weekday(), nil
}

// WeekdayLabel は曜日の中国語表記 (周日..周六) を返します。
func WeekdayLabel(w time.Weekday) string {
	return weekdayLabels[int(w)%7]
}

// WeekStart は d を含む週の月曜日を返します。日曜日は週の最終日として扱います。
func WeekStart(d Date) Date {
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return d.AddDays(-(weekday - 1))
}

// MonthStart は d の月の初日を返します。
func MonthStart(d Date) Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// MonthEnd は d の月の末日を返します。
func MonthEnd(d Date) Date {
	return Date{Year: d.Year, Month: d.Month, Day: DaysInMonth(d.Year, d.Month)}
}

// DaysInMonth は指定月の日数を返します。
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NthWeekdayOfMonth は指定月における n 回目の weekday の日付を返します。
// n が 1 未満、または月内の出現回数を超える場合は ErrWeekdayOutOfRange を返します。
func NthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) (Date, error) {
	if n < 1 {
		return Date{}, ErrWeekdayOutOfRange
	}

	first := Date{Year: year, Month: month, Day: 1}.Weekday()
	firstOccurrence := 1 + (int(weekday)-int(first)+7)%7
	day := firstOccurrence + (n-1)*7
	if day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("%d-%02d weekday %s #%d: %w", year, int(month), weekday, n, ErrWeekdayOutOfRange)
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// LastWeekdayOfMonth は指定月の最後の weekday の日付を返します。月末から遡って求めます。
func LastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) Date {
	last := Date{Year: year, Month: month, Day: DaysInMonth(year, month)}
	back := (int(last.Weekday()) - int(weekday) + 7) % 7
	return Date{Year: year, Month: month, Day: last.Day - back}
}

// MonthTitle は月カレンダーの見出し ("2024年3月") を返します。
func MonthTitle(year int, month time.Month) string {
	return fmt.Sprintf("%d年%d月", year, int(month))
}

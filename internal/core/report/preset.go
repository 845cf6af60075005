package report

import (
	"fmt"
	"time"

	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
)

// RangePreset は集計画面で選べる半月単位の期間です。
type RangePreset string

const (
	PresetThisMonthFirstHalf  RangePreset = "thisMonth1"
	PresetThisMonthSecondHalf RangePreset = "thisMonth2"
	PresetLastMonthFirstHalf  RangePreset = "lastMonth1"
	PresetLastMonthSecondHalf RangePreset = "lastMonth2"
)

const halfMonthDay = 15

// DefaultRangePreset は期間未指定時に使う値です。
const DefaultRangePreset = PresetThisMonthFirstHalf

// Resolve は today を基準に期間の開始日と終了日 (両端含む) を返します。
// 前半は 1 日から 15 日、後半は 16 日から月末です。
func (p RangePreset) Resolve(today calendar.Date) (calendar.Date, calendar.Date, error) {
	thisMonth := calendar.MonthStart(today)
	lastMonth := calendar.MonthStart(thisMonth.AddDays(-1))

	switch p {
	case PresetThisMonthFirstHalf:
		return firstHalf(thisMonth)
	case PresetThisMonthSecondHalf:
		return secondHalf(thisMonth)
	case PresetLastMonthFirstHalf:
		return firstHalf(lastMonth)
	case PresetLastMonthSecondHalf:
		return secondHalf(lastMonth)
	default:
		return calendar.Date{}, calendar.Date{}, fmt.Errorf("%q: %w", string(p), ErrInvalidRangePreset)
	}
}

// ParseRangePreset は空文字を既定値として扱います。
func ParseRangePreset(s string) (RangePreset, error) {
	if s == "" {
		return DefaultRangePreset, nil
	}
	p := RangePreset(s)
	switch p {
	case PresetThisMonthFirstHalf, PresetThisMonthSecondHalf, PresetLastMonthFirstHalf, PresetLastMonthSecondHalf:
		return p, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidRangePreset)
}

func firstHalf(monthStart calendar.Date) (calendar.Date, calendar.Date, error) {
	return monthStart, calendar.NewDate(monthStart.Year, monthStart.Month, halfMonthDay), nil
}

func secondHalf(monthStart calendar.Date) (calendar.Date, calendar.Date, error) {
	return calendar.NewDate(monthStart.Year, monthStart.Month, halfMonthDay+1), calendar.MonthEnd(monthStart), nil
}

// today は clock の現在時刻を UTC の暦日にします。保存される監査時刻と同じ日付境界を使います。
func today(now time.Time) calendar.Date {
	return calendar.DateOf(now.UTC())
}

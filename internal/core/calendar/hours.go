package calendar

import (
	"fmt"
	"math"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock は "HH:MM" (24 時間制) を 0 時からの経過分に変換します。
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidClock)
	}

	hour, ok := parseDigits(hh)
	if !ok || hour > 23 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidClock)
	}
	minute, ok := parseDigits(mm)
	if !ok || minute > 59 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidClock)
	}

	return hour*60 + minute, nil
}

// ComputeHours は開始・終了時刻から勤務時間を小数第 1 位に丸めて返します。
// 終了が開始より前の場合は日付を 1 回だけ跨いだものとして扱います。
// どちらかが空の場合は 0 を返し、書式不正は ErrInvalidClock を返します。
func ComputeHours(start, end string) (float64, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return 0, nil
	}

	startMinutes, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMinutes, err := ParseClock(end)
	if err != nil {
		return 0, err
	}

	if endMinutes < startMinutes {
		endMinutes += minutesPerDay
	}

	return RoundHours(float64(endMinutes-startMinutes) / 60), nil
}

// RoundHours は時間数を小数第 1 位に丸めます。
func RoundHours(h float64) float64 {
	return math.Round(h*10) / 10
}

// NormalizeClock は時刻文字列を検証し、ゼロ埋めした "HH:MM" に揃えます。
func NormalizeClock(s string) (string, error) {
	minutes, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

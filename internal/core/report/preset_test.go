package report

import (
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
)

func TestRangePreset_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		preset RangePreset
		today  calendar.Date
		start  string
		end    string
	}{
		{"this month first half", PresetThisMonthFirstHalf, calendar.NewDate(2024, time.March, 20), "2024-03-01", "2024-03-15"},
		{"this month second half", PresetThisMonthSecondHalf, calendar.NewDate(2024, time.February, 3), "2024-02-16", "2024-02-29"},
		{"last month first half", PresetLastMonthFirstHalf, calendar.NewDate(2024, time.March, 31), "2024-02-01", "2024-02-15"},
		{"last month wraps year", PresetLastMonthSecondHalf, calendar.NewDate(2024, time.January, 10), "2023-12-16", "2023-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := tt.preset.Resolve(tt.today)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if start.String() != tt.start || end.String() != tt.end {
				t.Fatalf("Resolve = %s..%s, want %s..%s", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestParseRangePreset(t *testing.T) {
	t.Parallel()

	p, err := ParseRangePreset("")
	if err != nil || p != PresetThisMonthFirstHalf {
		t.Fatalf("expected default preset, got %q, %v", p, err)
	}
	if _, err := ParseRangePreset("nextYear"); !errors.Is(err, ErrInvalidRangePreset) {
		t.Fatalf("expected ErrInvalidRangePreset, got %v", err)
	}
	if _, _, err := RangePreset("bogus").Resolve(calendar.NewDate(2024, time.March, 1)); !errors.Is(err, ErrInvalidRangePreset) {
		t.Fatalf("expected ErrInvalidRangePreset from Resolve, got %v", err)
	}
}

func TestToday_UsesUTCDayBoundary(t *testing.T) {
	t.Parallel()

	// UTC+9 の 3/1 08:00 は UTC では 2/29 23:00。
	tokyo := time.FixedZone("UTC+9", 9*60*60)
	if got := today(time.Date(2024, time.March, 1, 8, 0, 0, 0, tokyo)); got.String() != "2024-02-29" {
		t.Fatalf("expected UTC day 2024-02-29, got %s", got)
	}

	if loc := (realClock{}).Now().Location(); loc != time.UTC {
		t.Fatalf("expected realClock in UTC, got %v", loc)
	}
}

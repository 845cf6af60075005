package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/employee"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/workrecord"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// EmployeeReader は集計に必要な従業員の参照操作です。
type EmployeeReader interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
	List(ctx context.Context) ([]*employee.Employee, error)
}

// RecordReader は集計に必要な勤務記録の参照操作です。
type RecordReader interface {
	ListByEmployee(ctx context.Context, employeeID string, from, to calendar.Date) ([]*workrecord.WorkRecord, error)
	ListRange(ctx context.Context, from, to calendar.Date) ([]*workrecord.WorkRecord, error)
	FindByDates(ctx context.Context, employeeID string, dates []calendar.Date) ([]*workrecord.WorkRecord, error)
}

// Service は勤務記録の表示・集計ユースケースをまとめます。
type Service struct {
	employees EmployeeReader
	records   RecordReader
	clock     Clock
	tx        TransactionManager
}

// UseCase は集計ユースケースの公開インターフェースです。
type UseCase interface {
	CalendarMonth(ctx context.Context, in CalendarMonthInput) (*CalendarMonth, error)
	Statistics(ctx context.Context, in StatisticsInput) (Statistics, error)
	Summary(ctx context.Context, in SummaryInput) (*Summary, error)
	Overview(ctx context.Context, in OverviewInput) ([]EmployeeOverview, error)
	Holidays(year int) []calendar.Holiday
}

// NewService は Service を生成します。
func NewService(employees EmployeeReader, records RecordReader, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{employees: employees, records: records, clock: clock, tx: tx}
}

// CalendarMonthInput は月カレンダー表示の入力です。Year が 0 の場合は今月を使います。
type CalendarMonthInput struct {
	EmployeeID string
	Year       int
	Month      time.Month
}

// CalendarMonth は従業員 1 名の月カレンダー表示です。
type CalendarMonth struct {
	Employee *employee.Employee
	Year     int
	Month    time.Month
	Records  []*workrecord.WorkRecord
	Cells    []calendar.Cell
	Totals   Statistics
}

// StatisticsInput は複数日付の集計入力です。
type StatisticsInput struct {
	EmployeeID string
	Dates      []string
}

// SummaryInput は全従業員集計の入力です。Start と End が空の場合は Preset から期間を決めます。
type SummaryInput struct {
	Start  string
	End    string
	Preset string
}

// OverviewInput は従業員一覧の入力です。
// Query は名前・勤務地・備考に対する大文字小文字を区別しない部分一致です。
type OverviewInput struct {
	Query string
}

// EmployeeOverview は一覧表示用の従業員と今週・今月の勤務時間です。
type EmployeeOverview struct {
	Employee     *employee.Employee
	WeeklyHours  float64
	MonthlyHours float64
}

// CalendarMonth は記録と祝日を注記した月カレンダーを組み立てます。
func (s *Service) CalendarMonth(ctx context.Context, in CalendarMonthInput) (*CalendarMonth, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}

	year, month := in.Year, in.Month
	if year == 0 {
		now := today(s.clock.Now())
		year, month = now.Year, now.Month
	}
	if month < time.January || month > time.December {
		return nil, calendar.ErrInvalidMonth
	}

	from := calendar.NewDate(year, month, 1)
	to := calendar.MonthEnd(from)

	var result *CalendarMonth
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		emp, err := s.findEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}

		records, err := s.records.ListByEmployee(txCtx, emp.ID, from, to)
		if err != nil {
			return err
		}

		cells, err := calendar.BuildMonthGrid(year, month, workrecord.HoursByDate(records))
		if err != nil {
			return err
		}

		dates := make([]calendar.Date, 0, len(records))
		for _, r := range records {
			dates = append(dates, r.Date)
		}

		result = &CalendarMonth{
			Employee: emp,
			Year:     year,
			Month:    month,
			Records:  records,
			Cells:    cells,
			Totals:   ComputeStatistics(dates, records),
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// Statistics は選択日付の集計を返します。日付が空の場合は全て 0 です。
func (s *Service) Statistics(ctx context.Context, in StatisticsInput) (Statistics, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return Statistics{}, ErrInvalidEmployeeID
	}

	dates := make([]calendar.Date, 0, len(in.Dates))
	for _, raw := range in.Dates {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			return Statistics{}, err
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return Statistics{}, nil
	}

	var stats Statistics
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.findEmployee(txCtx, employeeID); err != nil {
			return err
		}
		records, err := s.records.FindByDates(txCtx, employeeID, dates)
		if err != nil {
			return err
		}
		stats = ComputeStatistics(dates, records)
		return nil
	}); err != nil {
		return Statistics{}, err
	}

	return stats, nil
}

// Summary は期間内 (両端含む) の全従業員集計を返します。
func (s *Service) Summary(ctx context.Context, in SummaryInput) (*Summary, error) {
	from, to, err := s.resolveRange(in)
	if err != nil {
		return nil, err
	}

	var result Summary
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		employees, err := s.employees.List(txCtx)
		if err != nil {
			return err
		}
		records, err := s.records.ListRange(txCtx, from, to)
		if err != nil {
			return err
		}
		result = Summarize(employees, records)
		return nil
	}); err != nil {
		return nil, err
	}

	result.Start = from
	result.End = to
	return &result, nil
}

// Overview は全従業員の今週 (月曜始まり) と今月の勤務時間を今日までで集計します。
func (s *Service) Overview(ctx context.Context, in OverviewInput) ([]EmployeeOverview, error) {
	now := today(s.clock.Now())
	weekStart := calendar.WeekStart(now)
	monthStart := calendar.MonthStart(now)
	from := weekStart
	if monthStart.Before(from) {
		from = monthStart
	}

	var result []EmployeeOverview
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		employees, err := s.employees.List(txCtx)
		if err != nil {
			return err
		}
		records, err := s.records.ListRange(txCtx, from, now)
		if err != nil {
			return err
		}

		weekly := make(map[string]float64, len(employees))
		monthly := make(map[string]float64, len(employees))
		for _, r := range records {
			if !r.Date.Before(weekStart) {
				weekly[r.EmployeeID] += r.Hours
			}
			if !r.Date.Before(monthStart) {
				monthly[r.EmployeeID] += r.Hours
			}
		}

		result = make([]EmployeeOverview, 0, len(employees))
		for _, emp := range employees {
			if !matchesQuery(emp, in.Query) {
				continue
			}
			result = append(result, EmployeeOverview{
				Employee:     emp,
				WeeklyHours:  calendar.RoundHours(weekly[emp.ID]),
				MonthlyHours: calendar.RoundHours(monthly[emp.ID]),
			})
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// Holidays は指定年の祝日を日付順に返します。
func (s *Service) Holidays(year int) []calendar.Holiday {
	if year == 0 {
		year = today(s.clock.Now()).Year
	}
	return calendar.HolidayList(year)
}

func (s *Service) resolveRange(in SummaryInput) (calendar.Date, calendar.Date, error) {
	if in.Start != "" || in.End != "" {
		return workrecord.ParseRange(in.Start, in.End)
	}
	preset, err := ParseRangePreset(in.Preset)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	return preset.Resolve(today(s.clock.Now()))
}

func (s *Service) findEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	emp, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, fmt.Errorf("%s: %w", id, ErrEmployeeNotFound)
		}
		return nil, err
	}
	return emp, nil
}

func matchesQuery(emp *employee.Employee, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(emp.Name), q) {
		return true
	}
	if emp.Location != nil && strings.Contains(strings.ToLower(*emp.Location), q) {
		return true
	}
	return emp.Notes != nil && strings.Contains(strings.ToLower(*emp.Notes), q)
}

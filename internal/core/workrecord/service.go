package workrecord

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/employee"
)

const maxHoursPerDay = 24

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator は新しい勤務記録 ID を払い出します。
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// EmployeeFinder は勤務記録の保存前に従業員を引き当てます。
type EmployeeFinder interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

// Service は勤務記録に関するユースケースをまとめます。
type Service struct {
	repo      Repository
	employees EmployeeFinder
	clock     Clock
	ids       IDGenerator
	tx        TransactionManager
}

// UseCase は勤務記録ユースケースの公開インターフェースです。
type UseCase interface {
	SaveWorkRecord(ctx context.Context, in SaveWorkRecordInput) (*WorkRecord, error)
	BatchSaveWorkRecords(ctx context.Context, in BatchSaveWorkRecordsInput) ([]*WorkRecord, error)
	DeleteWorkRecord(ctx context.Context, in DeleteWorkRecordInput) error
	ListMonthRecords(ctx context.Context, in ListMonthRecordsInput) ([]*WorkRecord, error)
	ListRange(ctx context.Context, in ListRangeInput) ([]*WorkRecord, error)
	FindByDates(ctx context.Context, in FindByDatesInput) ([]*WorkRecord, error)
}

// Option は Service の依存を差し替えます。
type Option func(*Service)

// WithIDGenerator は ID 生成器を差し替えます。
func WithIDGenerator(ids IDGenerator) Option {
	return func(s *Service) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// NewService は Service を生成します。
func NewService(repo Repository, employees EmployeeFinder, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{repo: repo, employees: employees, clock: clock, ids: uuidGenerator{}, tx: tx}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveWorkRecordInput は単日保存時の入力です。
// StartTime と EndTime を両方指定した場合、Hours は時刻から算出され、
// 0 以外で算出値と異なる Hours は拒否されます。
// HourlyRate が 0 の場合は従業員の既定時給を用います。
type SaveWorkRecordInput struct {
	EmployeeID string
	Date       string
	Hours      float64
	HourlyRate float64
	StartTime  *string
	EndTime    *string
	Notes      *string
}

// BatchSaveWorkRecordsInput は複数日一括保存時の入力です。
type BatchSaveWorkRecordsInput struct {
	EmployeeID string
	Dates      []string
	Hours      float64
	HourlyRate float64
	Notes      *string
}

// DeleteWorkRecordInput は勤務記録削除時の入力です。
type DeleteWorkRecordInput struct {
	ID string
}

// ListMonthRecordsInput は月別一覧取得時の入力です。
type ListMonthRecordsInput struct {
	EmployeeID string
	Year       int
	Month      time.Month
}

// ListRangeInput は期間指定の全従業員一覧取得時の入力です。
type ListRangeInput struct {
	Start string
	End   string
}

// FindByDatesInput は日付集合指定の取得時の入力です。
type FindByDatesInput struct {
	EmployeeID string
	Dates      []string
}

// SaveWorkRecord は勤務記録を作成または上書きします。
func (s *Service) SaveWorkRecord(ctx context.Context, in SaveWorkRecordInput) (*WorkRecord, error) {
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}

	date, err := calendar.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}

	start, end, hours, err := resolveHours(in.StartTime, in.EndTime, in.Hours)
	if err != nil {
		return nil, err
	}

	if err := validateRate(in.HourlyRate); err != nil {
		return nil, err
	}

	var saved *WorkRecord
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.findEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		record := &WorkRecord{
			ID:         s.ids.NewID(),
			EmployeeID: emp.ID,
			Date:       date,
			Hours:      hours,
			HourlyRate: rateOrDefault(in.HourlyRate, emp),
			StartTime:  start,
			EndTime:    end,
			Notes:      normalizeOptional(in.Notes),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		result, err := s.repo.Upsert(txCtx, record)
		if err != nil {
			return err
		}
		saved = result
		return nil
	}); err != nil {
		return nil, err
	}

	return saved, nil
}

// BatchSaveWorkRecords は同じ時間数・時給で複数日の記録を 1 トランザクションで保存します。
// 一括保存では開始・終了時刻を持たないため、既存記録の時刻は消去されます。
func (s *Service) BatchSaveWorkRecords(ctx context.Context, in BatchSaveWorkRecordsInput) ([]*WorkRecord, error) {
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}

	dates, err := parseDistinctDates(in.Dates)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, ErrNoDates
	}

	hours, err := validateHours(in.Hours)
	if err != nil {
		return nil, err
	}

	if err := validateRate(in.HourlyRate); err != nil {
		return nil, err
	}

	notes := normalizeOptional(in.Notes)

	var saved []*WorkRecord
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		// 再試行時に前回の試行分を持ち越さない。
		saved = make([]*WorkRecord, 0, len(dates))

		emp, err := s.findEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}

		rate := rateOrDefault(in.HourlyRate, emp)
		now := s.clock.Now()
		for _, date := range dates {
			result, err := s.repo.Upsert(txCtx, &WorkRecord{
				ID:         s.ids.NewID(),
				EmployeeID: emp.ID,
				Date:       date,
				Hours:      hours,
				HourlyRate: rate,
				Notes:      notes,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", date, err)
			}
			saved = append(saved, result)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return saved, nil
}

// DeleteWorkRecord は勤務記録を削除します。
func (s *Service) DeleteWorkRecord(ctx context.Context, in DeleteWorkRecordInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, strings.TrimSpace(in.ID))
	})
}

// ListMonthRecords は従業員の指定月の記録を日付昇順で返します。
func (s *Service) ListMonthRecords(ctx context.Context, in ListMonthRecordsInput) ([]*WorkRecord, error) {
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if in.Month < time.January || in.Month > time.December {
		return nil, calendar.ErrInvalidMonth
	}

	from := calendar.NewDate(in.Year, in.Month, 1)
	to := calendar.MonthEnd(from)

	var records []*WorkRecord
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.findEmployee(txCtx, employeeID); err != nil {
			return err
		}
		found, err := s.repo.ListByEmployee(txCtx, employeeID, from, to)
		if err != nil {
			return err
		}
		records = found
		return nil
	}); err != nil {
		return nil, err
	}

	return records, nil
}

// ListRange は全従業員の期間内 (両端含む) の記録を返します。
func (s *Service) ListRange(ctx context.Context, in ListRangeInput) ([]*WorkRecord, error) {
	from, to, err := ParseRange(in.Start, in.End)
	if err != nil {
		return nil, err
	}

	var records []*WorkRecord
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.ListRange(txCtx, from, to)
		if err != nil {
			return err
		}
		records = found
		return nil
	}); err != nil {
		return nil, err
	}

	return records, nil
}

// FindByDates は指定日付に存在する記録のみを返します。記録のない日付は結果に含まれません。
func (s *Service) FindByDates(ctx context.Context, in FindByDatesInput) ([]*WorkRecord, error) {
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}

	dates, err := parseDistinctDates(in.Dates)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return []*WorkRecord{}, nil
	}

	var records []*WorkRecord
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.findEmployee(txCtx, employeeID); err != nil {
			return err
		}
		found, err := s.repo.FindByDates(txCtx, employeeID, dates)
		if err != nil {
			return err
		}
		records = found
		return nil
	}); err != nil {
		return nil, err
	}

	return records, nil
}

// ParseRange は "YYYY-MM-DD" の開始・終了日を検証して返します。
func ParseRange(start, end string) (calendar.Date, calendar.Date, error) {
	from, err := calendar.ParseDate(start)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, fmt.Errorf("start: %w", err)
	}
	to, err := calendar.ParseDate(end)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, fmt.Errorf("end: %w", err)
	}
	if from.After(to) {
		return calendar.Date{}, calendar.Date{}, ErrInvalidRange
	}
	return from, to, nil
}

func (s *Service) findEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	emp, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return emp, nil
}

func resolveHours(startRaw, endRaw *string, supplied float64) (*string, *string, float64, error) {
	start := normalizeOptional(startRaw)
	end := normalizeOptional(endRaw)

	if (start == nil) != (end == nil) {
		return nil, nil, 0, ErrIncompleteTimeRange
	}

	if start == nil {
		hours, err := validateHours(supplied)
		return nil, nil, hours, err
	}

	startClock, err := calendar.NormalizeClock(*start)
	if err != nil {
		return nil, nil, 0, err
	}
	endClock, err := calendar.NormalizeClock(*end)
	if err != nil {
		return nil, nil, 0, err
	}

	computed, err := calendar.ComputeHours(startClock, endClock)
	if err != nil {
		return nil, nil, 0, err
	}
	if supplied != 0 && calendar.RoundHours(supplied) != computed {
		return nil, nil, 0, fmt.Errorf("%s-%s is %.1fh, got %.1fh: %w", startClock, endClock, computed, supplied, ErrHoursMismatch)
	}

	hours, err := validateHours(computed)
	if err != nil {
		return nil, nil, 0, err
	}
	return &startClock, &endClock, hours, nil
}

func validateHours(h float64) (float64, error) {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, ErrInvalidHours
	}
	rounded := calendar.RoundHours(h)
	if rounded <= 0 || rounded > maxHoursPerDay {
		return 0, ErrInvalidHours
	}
	return rounded, nil
}

func validateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return ErrInvalidHourlyRate
	}
	return nil
}

func rateOrDefault(rate float64, emp *employee.Employee) float64 {
	if rate > 0 {
		return rate
	}
	return emp.DefaultHourlyRate
}

func parseDistinctDates(raw []string) ([]calendar.Date, error) {
	seen := make(map[calendar.Date]struct{}, len(raw))
	dates := make([]calendar.Date, 0, len(raw))
	for _, s := range raw {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	return dates, nil
}

func normalizeEmployeeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmployeeID
	}
	return trimmed, nil
}

func normalizeOptional(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

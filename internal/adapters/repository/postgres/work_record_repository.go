package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
	"github.com/ogurasousui/timesheet-clean-arch/internal/core/workrecord"
	pgdb "github.com/ogurasousui/timesheet-clean-arch/internal/platform/db/postgres"
)

const (
	workRecordColumns         = `id, employee_id, date, hours, hourly_rate, start_time, end_time, notes, created_at, updated_at`
	workRecordHoursConstraint = "work_records_hours_range"
	workRecordRateConstraint  = "work_records_hourly_rate_positive"
)

// WorkRecordRepository は PostgreSQL を利用した勤務記録永続化の実装です。
type WorkRecordRepository struct {
	pool pgdb.Queryer
}

// NewWorkRecordRepository は WorkRecordRepository を生成します。
func NewWorkRecordRepository(pool pgdb.Queryer) *WorkRecordRepository {
	return &WorkRecordRepository{pool: pool}
}

// Upsert は (employee_id, date) の一意制約で記録を作成または上書きします。
func (r *WorkRecordRepository) Upsert(ctx context.Context, rec *workrecord.WorkRecord) (*workrecord.WorkRecord, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO work_records (id, employee_id, date, hours, hourly_rate, start_time, end_time, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (employee_id, date) DO UPDATE
           SET hours = EXCLUDED.hours,
               hourly_rate = EXCLUDED.hourly_rate,
               start_time = EXCLUDED.start_time,
               end_time = EXCLUDED.end_time,
               notes = EXCLUDED.notes,
               updated_at = EXCLUDED.updated_at
        RETURNING `+workRecordColumns,
		rec.ID,
		rec.EmployeeID,
		rec.Date.Time(),
		rec.Hours,
		rec.HourlyRate,
		rec.StartTime,
		rec.EndTime,
		rec.Notes,
		rec.CreatedAt,
		rec.UpdatedAt,
	)

	saved, err := scanWorkRecord(row)
	if err != nil {
		return nil, translateWorkRecordPgError(err)
	}
	return saved, nil
}

// Delete は勤務記録を削除します。
func (r *WorkRecordRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM work_records WHERE id = $1`, id)
	if err != nil {
		return translateWorkRecordPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return workrecord.ErrWorkRecordNotFound
	}
	return nil
}

// FindByID は ID で勤務記録を取得します。
func (r *WorkRecordRepository) FindByID(ctx context.Context, id string) (*workrecord.WorkRecord, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+workRecordColumns+`
          FROM work_records
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanWorkRecord(row)
	if err != nil {
		return nil, translateWorkRecordPgError(err)
	}
	return found, nil
}

// ListByEmployee は従業員の期間内の記録を日付昇順で返します。
func (r *WorkRecordRepository) ListByEmployee(ctx context.Context, employeeID string, from, to calendar.Date) ([]*workrecord.WorkRecord, error) {
	return r.list(ctx, `
        SELECT `+workRecordColumns+`
          FROM work_records
         WHERE employee_id = $1 AND date >= $2 AND date <= $3
         ORDER BY date ASC
    `, employeeID, from.Time(), to.Time())
}

// ListRange は全従業員の期間内の記録を日付昇順で返します。
func (r *WorkRecordRepository) ListRange(ctx context.Context, from, to calendar.Date) ([]*workrecord.WorkRecord, error) {
	return r.list(ctx, `
        SELECT `+workRecordColumns+`
          FROM work_records
         WHERE date >= $1 AND date <= $2
         ORDER BY date ASC, employee_id ASC
    `, from.Time(), to.Time())
}

// FindByDates は従業員の指定日付に存在する記録を日付昇順で返します。
func (r *WorkRecordRepository) FindByDates(ctx context.Context, employeeID string, dates []calendar.Date) ([]*workrecord.WorkRecord, error) {
	if len(dates) == 0 {
		return []*workrecord.WorkRecord{}, nil
	}

	params := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		params = append(params, d.Time())
	}

	return r.list(ctx, `
        SELECT `+workRecordColumns+`
          FROM work_records
         WHERE employee_id = $1 AND date = ANY($2::date[])
         ORDER BY date ASC
    `, employeeID, params)
}

func (r *WorkRecordRepository) list(ctx context.Context, query string, args ...any) ([]*workrecord.WorkRecord, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateWorkRecordPgError(err)
	}
	defer rows.Close()

	records := make([]*workrecord.WorkRecord, 0)
	for rows.Next() {
		rec, err := scanWorkRecord(rows)
		if err != nil {
			return nil, translateWorkRecordPgError(err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, translateWorkRecordPgError(err)
	}

	return records, nil
}

func scanWorkRecord(row pgx.Row) (*workrecord.WorkRecord, error) {
	var (
		id         string
		employeeID string
		date       time.Time
		hours      float64
		rate       float64
		startTime  sql.NullString
		endTime    sql.NullString
		notes      sql.NullString
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(&id, &employeeID, &date, &hours, &rate, &startTime, &endTime, &notes, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workrecord.ErrWorkRecordNotFound
		}
		return nil, err
	}

	return &workrecord.WorkRecord{
		ID:         id,
		EmployeeID: employeeID,
		Date:       calendar.DateOf(date.UTC()),
		Hours:      hours,
		HourlyRate: rate,
		StartTime:  nullableString(startTime),
		EndTime:    nullableString(endTime),
		Notes:      nullableString(notes),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

func translateWorkRecordPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return workrecord.ErrWorkRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return workrecord.ErrWorkRecordIDConflict
		case foreignKeyViolationCode:
			return workrecord.ErrEmployeeNotFound
		case invalidTextRepresentationCode:
			return workrecord.ErrWorkRecordNotFound
		case checkViolationCode:
			switch pgErr.ConstraintName {
			case workRecordHoursConstraint:
				return workrecord.ErrInvalidHours
			case workRecordRateConstraint:
				return workrecord.ErrInvalidHourlyRate
			default:
				return workrecord.ErrIncompleteTimeRange
			}
		}
	}

	return err
}

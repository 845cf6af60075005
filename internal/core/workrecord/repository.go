package workrecord

import (
	"context"

	"github.com/ogurasousui/timesheet-clean-arch/internal/core/calendar"
)

// Repository は勤務記録永続化の抽象です。
type Repository interface {
	// Upsert は (従業員, 日付) をキーに記録を作成または置き換えます。
	// 既存行がある場合は既存の ID と作成日時を保持した結果を返します。
	Upsert(ctx context.Context, record *WorkRecord) (*WorkRecord, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*WorkRecord, error)
	// ListByEmployee は from..to (両端含む) の記録を日付昇順で返します。
	ListByEmployee(ctx context.Context, employeeID string, from, to calendar.Date) ([]*WorkRecord, error)
	// ListRange は全従業員の from..to (両端含む) の記録を日付昇順で返します。
	ListRange(ctx context.Context, from, to calendar.Date) ([]*WorkRecord, error)
	FindByDates(ctx context.Context, employeeID string, dates []calendar.Date) ([]*WorkRecord, error)
}

package technician

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RepairBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RepairBookingService/pkg/psqlbuilder"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("technician.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("technician.repository: failed to execute query")
)

// Repository читает справочник техников. Сервис бронирований использует только факт существования.
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Exists проверяет, что активный техник с таким ID существует
func (r *Repository) Exists(ctx context.Context, technicianID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	subQuery, args, err := psqlbuilder.Select("1").
		From("technicians").
		Where(squirrel.Eq{"id": technicianID, "is_active": true}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %w", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, "SELECT EXISTS ("+subQuery+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: Exists - execute query: %w", ErrExecQuery, err)
	}

	return exists, nil
}

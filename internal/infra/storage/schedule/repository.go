package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	"github.com/m04kA/SMC-RepairBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RepairBookingService/pkg/psqlbuilder"
)

const tableSchedules = "technician_weekly_schedules"

var scheduleColumns = []string{
	"id",
	"technician_id",
	"day_of_week",
	"is_available",
	"start_time",
	"end_time",
	"created_at",
	"updated_at",
}

// Repository репозиторий недельного расписания техников
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTechnicianAndDay получает строку расписания техника на день недели.
// Если строки нет, возвращает ErrScheduleNotFound.
func (r *Repository) GetByTechnicianAndDay(ctx context.Context, technicianID int64, day time.Weekday) (*domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From(tableSchedules).
		Where(squirrel.Eq{
			"technician_id": technicianID,
			"day_of_week":   int(day),
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTechnicianAndDay - build select query: %w", ErrBuildQuery, err)
	}

	schedule, err := scanSchedule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTechnicianAndDay - scan schedule: %w", ErrScanRow, err)
	}

	return schedule, nil
}

// GetAllByTechnician получает все настроенные дни техника (от 0 до 7 строк)
func (r *Repository) GetAllByTechnician(ctx context.Context, technicianID int64) ([]*domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From(tableSchedules).
		Where(squirrel.Eq{"technician_id": technicianID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByTechnician - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByTechnician - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.WeeklySchedule, 0, 7)
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByTechnician - scan row: %w", ErrScanRow, err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByTechnician - rows error: %w", ErrScanRow, err)
	}

	return schedules, nil
}

// Upsert создает или обновляет строку расписания на день недели.
// Уникальность (technician_id, day_of_week) обеспечивается ограничением таблицы.
func (r *Repository) Upsert(ctx context.Context, schedule *domain.WeeklySchedule) (*domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableSchedules).
		Columns(
			"technician_id",
			"day_of_week",
			"is_available",
			"start_time",
			"end_time",
		).
		Values(
			schedule.TechnicianID,
			int(schedule.DayOfWeek),
			schedule.IsAvailable,
			schedule.StartTime,
			schedule.EndTime,
		).
		Suffix(`ON CONFLICT (technician_id, day_of_week) DO UPDATE SET
			is_available = EXCLUDED.is_available,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&schedule.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return schedule, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSchedule(row rowScanner) (*domain.WeeklySchedule, error) {
	var schedule domain.WeeklySchedule
	var day int
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&schedule.ID,
		&schedule.TechnicianID,
		&day,
		&schedule.IsAvailable,
		&schedule.StartTime,
		&schedule.EndTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	schedule.DayOfWeek = time.Weekday(day)
	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return &schedule, nil
}

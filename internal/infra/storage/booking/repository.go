package booking

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

const tableBookings = "bookings"

var bookingColumns = []string{
	"id",
	"technician_id",
	"customer_id",
	"service_id",
	"scheduled_start",
	"booking_date",
	"duration_hours",
	"status",
	"address",
	"total_amount",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"technician_id",
			"customer_id",
			"service_id",
			"scheduled_start",
			"booking_date",
			"duration_hours",
			"status",
			"address",
			"total_amount",
			"notes",
		).
		Values(
			booking.TechnicianID,
			booking.CustomerID,
			booking.ServiceID,
			booking.ScheduledStart,
			booking.BookingDate.Format(domain.DateFormat),
			booking.DurationHours,
			booking.Status,
			booking.Address,
			booking.TotalAmount,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE) для последующей смены статуса.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByCustomerID получает список бронирований клиента.
// Опционально фильтрует по статусу.
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("scheduled_start DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByTechnicianWithFilter получает бронирования техника с фильтрацией по периоду и статусу.
//
// Примеры:
//
//	// Активные бронирования на конкретную дату
//	filter := domain.TechnicianBookingsFilter{TechnicianID: 7, StartDate: &date, EndDate: &date}
//
//	// Все бронирования включая отменённые
//	filter := domain.TechnicianBookingsFilter{TechnicianID: 7, IncludeCancelled: true}
func (r *Repository) GetByTechnicianWithFilter(ctx context.Context, filter domain.TechnicianBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"technician_id": filter.TechnicianID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.EndDate.Format(domain.DateFormat)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatuses()})
	}

	if filter.IsSingleDay() {
		selectBuilder = selectBuilder.OrderBy("scheduled_start ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("scheduled_start DESC")
	}

	// Блокировка строк нужна только при проверке одного дня внутри транзакции
	if dbmetrics.IsInTransaction(ctx) && filter.IsSingleDay() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTechnicianWithFilter - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTechnicianWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveByTechnicianAndDate возвращает неотменённые бронирования техника на календарную дату
func (r *Repository) GetActiveByTechnicianAndDate(ctx context.Context, technicianID int64, date time.Time) ([]*domain.Booking, error) {
	day := domain.DateOnly(date)
	return r.GetByTechnicianWithFilter(ctx, domain.TechnicianBookingsFilter{
		TechnicianID: technicianID,
		StartDate:    &day,
		EndDate:      &day,
	})
}

// LockTechnicianDay берёт транзакционную advisory-блокировку на пару (техник, дата).
// Блокировка снимается при commit/rollback. Вне транзакции возвращает ErrTransactionRequired.
func (r *Repository) LockTechnicianDay(ctx context.Context, technicianID int64, date time.Time) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrTransactionRequired
	}

	technicianKey, dayKey := advisoryLockKeys(technicianID, date)
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1::int, $2::int)", technicianKey, dayKey); err != nil {
		return fmt.Errorf("%w: LockTechnicianDay - acquire lock: %w", ErrExecQuery, err)
	}
	return nil
}

// advisoryLockKeys отображает (техник, дата) в пару int4 ключей.
// Коллизии ключей лишь сериализуют лишние транзакции, но не ломают корректность.
func advisoryLockKeys(technicianID int64, date time.Time) (int32, int32) {
	y, m, d := date.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	return int32(technicianID), int32(days)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Cancel переводит бронирование в cancelled с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %w", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, "Cancel", query, args)
}

func execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func inactiveStatuses() []string {
	statuses := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.TechnicianID,
		&booking.CustomerID,
		&booking.ServiceID,
		&booking.ScheduledStart,
		&booking.BookingDate,
		&booking.DurationHours,
		&booking.Status,
		&booking.Address,
		&booking.TotalAmount,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

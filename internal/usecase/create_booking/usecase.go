package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	checkAvailability "github.com/m04kA/SMC-RepairBookingService/internal/usecase/check_availability"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	availability AvailabilityChecker
	txManager    TransactionManager
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availability AvailabilityChecker,
	txManager TransactionManager,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		availability: availability,
		txManager:    txManager,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
//
// Проверка доступности и вставка выполняются в одной SERIALIZABLE транзакции:
// advisory-блокировка на (техник, дата) -> повторная проверка слота -> INSERT.
// Конкурирующий запрос на тот же день ждёт блокировку, но его снимок взят до неё
// и не содержит чужой вставки. Пересечение с ней PostgreSQL обнаруживает как ошибку
// сериализации (40001), txmanager повторяет функцию, и повтор уже видит запись.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: customer=%d, technician=%d, service=%d, start=%s",
		req.CustomerID, req.TechnicianID, req.ServiceID, req.Start.Format(time.RFC3339))

	// 2. Начало работ не может быть в прошлом
	if err := validateStart(req.Start, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	if uc.settings.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.settings.RequestTimeout)
		defer cancel()
	}

	durationHours := uc.settings.DefaultDurationHours
	if req.DurationHours != nil {
		durationHours = *req.DurationHours
	}
	start := req.Start.In(uc.settings.Location)
	bookingDate := domain.DateOnly(start)

	var created *domain.Booking

	// 3. Блокировка, проверка и вставка в одной транзакции.
	// При ошибке сериализации менеджер повторяет функцию целиком.
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created = nil

		if err := uc.bookingRepo.LockTechnicianDay(txCtx, req.TechnicianID, bookingDate); err != nil {
			uc.logger.Error("CreateBooking: failed to lock technician=%d date=%s: %v",
				req.TechnicianID, bookingDate.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: lock technician day: %w", ErrInternal, err)
		}

		decision, err := uc.availability.Check(txCtx, &checkAvailability.Request{
			TechnicianID:  req.TechnicianID,
			Start:         start,
			DurationHours: &durationHours,
		})
		if err != nil {
			return mapAvailabilityError(err)
		}

		if !decision.Bookable {
			uc.logger.Warn("CreateBooking: slot not available technician=%d start=%s: %s",
				req.TechnicianID, start.Format(time.RFC3339), decision.Reason)
			return fmt.Errorf("%w: %s", ErrSlotNotAvailable, decision.Reason)
		}

		booking := &domain.Booking{
			TechnicianID:   req.TechnicianID,
			CustomerID:     req.CustomerID,
			ServiceID:      req.ServiceID,
			ScheduledStart: start,
			BookingDate:    bookingDate,
			DurationHours:  &durationHours,
			Status:         domain.StatusConfirmed,
			Address:        req.Address,
			TotalAmount:    req.TotalAmount,
			Notes:          req.Notes,
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to insert booking: %v", err)
			return fmt.Errorf("%w: create booking: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotAvailable),
			errors.Is(err, ErrTechnicianNotFound),
			errors.Is(err, ErrInvalidInput),
			errors.Is(err, ErrInternal):
			return nil, err
		default:
			// Ошибки транзакции (begin/commit/исчерпаны повторы, таймаут)
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction: %w", ErrInternal, err)
		}
	}

	uc.logger.Info("CreateBooking: booking id=%d created for technician=%d at %s",
		created.ID, created.TechnicianID, created.ScheduledStart.Format(time.RFC3339))

	return toResponse(created, durationHours), nil
}

// mapAvailabilityError переводит ошибки проверки в ошибки use case, сохраняя причину
// (в том числе ошибки БД, по которым менеджер транзакций решает о повторе)
func mapAvailabilityError(err error) error {
	switch {
	case errors.Is(err, checkAvailability.ErrTechnicianNotFound):
		return ErrTechnicianNotFound
	case errors.Is(err, checkAvailability.ErrInvalidInput):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: check availability: %w", ErrInternal, err)
	}
}

func toResponse(b *domain.Booking, durationHours float64) *Response {
	return &Response{
		ID:             b.ID,
		TechnicianID:   b.TechnicianID,
		CustomerID:     b.CustomerID,
		ServiceID:      b.ServiceID,
		ScheduledStart: b.ScheduledStart,
		ScheduledEnd:   b.Slot(durationHours).End,
		BookingDate:    b.BookingDate,
		DurationHours:  durationHours,
		Status:         b.Status,
		Address:        b.Address,
		TotalAmount:    b.TotalAmount,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

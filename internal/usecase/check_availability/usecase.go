package check_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-RepairBookingService/internal/infra/storage/schedule"
)

// UseCase проверка доступности техника на предлагаемый интервал.
// Сам по себе ничего не блокирует: защиту от гонки check-then-act обеспечивает
// вызывающая транзакция (см. create_booking).
type UseCase struct {
	scheduleRepo   ScheduleRepository
	bookingRepo    BookingRepository
	technicianRepo TechnicianRepository
	observer       DecisionObserver
	policy         Policy
	logger         Logger
}

type Option func(*UseCase)

func WithDecisionObserver(o DecisionObserver) Option {
	return func(uc *UseCase) {
		if o != nil {
			uc.observer = o
		}
	}
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	technicianRepo TechnicianRepository,
	policy Policy,
	logger Logger,
	opts ...Option,
) *UseCase {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	uc := &UseCase{
		scheduleRepo:   scheduleRepo,
		bookingRepo:    bookingRepo,
		technicianRepo: technicianRepo,
		observer:       noopObserver{},
		policy:         policy,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// IsBookable отвечает, можно ли забронировать техника на [start, start+durationHours).
// При ошибке результат всегда false.
func (uc *UseCase) IsBookable(ctx context.Context, technicianID int64, start time.Time, durationHours float64) (bool, error) {
	resp, err := uc.Check(ctx, &Request{
		TechnicianID:  technicianID,
		Start:         start,
		DurationHours: &durationHours,
	})
	if err != nil {
		return false, err
	}
	return resp.Bookable, nil
}

// Check возвращает решение вместе с причиной отказа
func (uc *UseCase) Check(ctx context.Context, req *Request) (*Response, error) {
	durationHours, err := uc.validateRequest(req)
	if err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 1. Техник должен существовать
	exists, err := uc.technicianRepo.Exists(ctx, req.TechnicianID)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to check technician id=%d: %v", req.TechnicianID, err)
		return nil, fmt.Errorf("%w: check technician: %w", ErrInfrastructure, err)
	}
	if !exists {
		uc.logger.Warn("CheckAvailability: technician id=%d not found", req.TechnicianID)
		return nil, ErrTechnicianNotFound
	}

	// 2. День недели и дата определяются в часовом поясе сервиса
	start := req.Start.In(uc.policy.Location)
	proposed := domain.NewSlot(start, durationHours)

	schedule, err := uc.scheduleRepo.GetByTechnicianAndDay(ctx, req.TechnicianID, start.Weekday())
	if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
		uc.logger.Error("CheckAvailability: failed to get schedule technician=%d day=%s: %v",
			req.TechnicianID, start.Weekday(), err)
		return nil, fmt.Errorf("%w: get schedule: %w", ErrInfrastructure, err)
	}

	// 3. Бронирования читаем только для рабочего дня
	var existing []*domain.Booking
	if schedule != nil && schedule.IsAvailable {
		existing, err = uc.bookingRepo.GetActiveByTechnicianAndDate(ctx, req.TechnicianID, start)
		if err != nil {
			uc.logger.Error("CheckAvailability: failed to get bookings technician=%d date=%s: %v",
				req.TechnicianID, start.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: get bookings: %w", ErrInfrastructure, err)
		}
	}

	decision, err := domain.CheckAvailability(schedule, existing, proposed, uc.policy.DefaultDurationHours)
	if err != nil {
		if errors.Is(err, domain.ErrNonPositiveDuration) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		// Некорректная строка расписания в БД: отказ, а не "свободно"
		uc.logger.Error("CheckAvailability: corrupt schedule technician=%d day=%s: %v",
			req.TechnicianID, start.Weekday(), err)
		return nil, fmt.Errorf("%w: %w", ErrInfrastructure, err)
	}

	uc.observer.ObserveAvailabilityDecision(string(decision.Reason))

	if decision.Bookable {
		uc.logger.Info("CheckAvailability: technician=%d start=%s duration=%.2fh is bookable",
			req.TechnicianID, start.Format(time.RFC3339), durationHours)
	} else {
		uc.logger.Info("CheckAvailability: technician=%d start=%s duration=%.2fh not bookable: %s (conflicts=%d)",
			req.TechnicianID, start.Format(time.RFC3339), durationHours, decision.Reason, len(decision.Conflicts))
	}

	return &Response{
		TechnicianID:  req.TechnicianID,
		Start:         proposed.Start,
		End:           proposed.End,
		DurationHours: durationHours,
		Bookable:      decision.Bookable,
		Reason:        decision.Reason,
		WorkingWindow: decision.Window,
		Conflicts:     decision.Conflicts,
	}, nil
}

// Policy возвращает параметры, с которыми работает use case
func (uc *UseCase) Policy() Policy {
	return uc.policy
}

func (uc *UseCase) validateRequest(req *Request) (float64, error) {
	if req == nil {
		return 0, fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}
	if req.TechnicianID <= 0 {
		return 0, fmt.Errorf("%w: technicianID must be positive", ErrInvalidInput)
	}
	if req.Start.IsZero() {
		return 0, fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	durationHours := uc.policy.DefaultDurationHours
	if req.DurationHours != nil {
		durationHours = *req.DurationHours
	}
	if err := domain.ValidateDurationHours(durationHours); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return durationHours, nil
}

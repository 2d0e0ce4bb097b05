package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-RepairBookingService/internal/infra/storage/schedule"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	scheduleRepo   ScheduleRepository
	bookingRepo    BookingRepository
	technicianRepo TechnicianRepository
	settings       Settings
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	technicianRepo TechnicianRepository,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.StepMinutes < domain.MinSlotStepMinutes {
		settings.StepMinutes = domain.MinSlotStepMinutes
	}
	if settings.StepMinutes > domain.MaxSlotStepMinutes {
		settings.StepMinutes = domain.MaxSlotStepMinutes
	}
	return &UseCase{
		scheduleRepo:   scheduleRepo,
		bookingRepo:    bookingRepo,
		technicianRepo: technicianRepo,
		settings:       settings,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	y, m, d := req.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, uc.settings.Location)
	now := uc.timeProvider.Now().In(uc.settings.Location)

	durationHours := uc.settings.DefaultDurationHours
	if req.DurationHours != nil {
		durationHours = *req.DurationHours
	}

	uc.logger.Info("GetAvailableSlots: technician=%d, date=%s, duration=%.2fh",
		req.TechnicianID, date.Format(domain.DateFormat), durationHours)

	// 2. Дата не в прошлом
	if isDateInPast(date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Техник существует
	exists, err := uc.technicianRepo.Exists(ctx, req.TechnicianID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to check technician id=%d: %v", req.TechnicianID, err)
		return nil, fmt.Errorf("%w: failed to check technician: %w", ErrInternal, err)
	}
	if !exists {
		uc.logger.Warn("GetAvailableSlots: technician id=%d not found", req.TechnicianID)
		return nil, ErrTechnicianNotFound
	}

	response := &Response{
		TechnicianID:  req.TechnicianID,
		Date:          date,
		DurationHours: durationHours,
		StepMinutes:   uc.settings.StepMinutes,
		Slots:         []domain.Slot{},
	}

	// 4. Расписание на день недели
	schedule, err := uc.scheduleRepo.GetByTechnicianAndDay(ctx, req.TechnicianID, date.Weekday())
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Info("GetAvailableSlots: technician=%d has no schedule for %s", req.TechnicianID, date.Weekday())
			response.Reason = domain.ReasonScheduleNotConfigured
			return response, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %w", ErrInternal, err)
	}

	if !schedule.IsAvailable {
		uc.logger.Info("GetAvailableSlots: technician=%d is off on %s", req.TechnicianID, date.Weekday())
		response.Reason = domain.ReasonDayUnavailable
		return response, nil
	}

	window, err := schedule.WindowOn(date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: corrupt schedule id=%d: %v", schedule.ID, err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	response.WorkingWindow = &window

	// 5. Все активные бронирования дня читаются один раз
	bookings, err := uc.bookingRepo.GetActiveByTechnicianAndDate(ctx, req.TechnicianID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	// 6. Перебор кандидатов с шагом и фильтрация
	candidates := generateCandidates(window, time.Duration(uc.settings.StepMinutes)*time.Minute, durationHours)
	slots, err := selectAvailable(schedule, candidates, bookings, now, uc.settings.DefaultDurationHours)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to evaluate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to evaluate slots: %w", ErrInternal, err)
	}

	response.Slots = slots
	switch {
	case len(slots) > 0:
		response.Reason = domain.ReasonAvailable
	case len(candidates) == 0:
		// длительность не помещается в рабочее окно
		response.Reason = domain.ReasonOutsideWorkingHours
	default:
		response.Reason = domain.ReasonOverlap
	}

	uc.logger.Info("GetAvailableSlots: %d of %d slots available for technician=%d, date=%s",
		len(slots), len(candidates), req.TechnicianID, date.Format(domain.DateFormat))

	return response, nil
}

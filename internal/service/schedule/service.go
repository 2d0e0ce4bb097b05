package schedule

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-RepairBookingService/internal/service/schedule/models"
)

// Service сервис для работы с недельным расписанием техников
type Service struct {
	scheduleRepo   ScheduleRepository
	technicianRepo TechnicianRepository
	logger         Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	technicianRepo TechnicianRepository,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:   scheduleRepo,
		technicianRepo: technicianRepo,
		logger:         logger,
	}
}

// GetWeeklySchedule получает расписание техника на все семь дней.
// Публичный метод - клиенты смотрят рабочие часы перед бронированием.
func (s *Service) GetWeeklySchedule(ctx context.Context, technicianID int64) (*models.WeeklyScheduleResponse, error) {
	s.logger.Info("GetWeeklySchedule: fetching schedule for technician=%d", technicianID)

	if technicianID <= 0 {
		return nil, fmt.Errorf("%w: technician id must be positive", ErrInvalidInput)
	}

	if err := s.ensureTechnician(ctx, "GetWeeklySchedule", technicianID); err != nil {
		return nil, err
	}

	schedules, err := s.scheduleRepo.GetAllByTechnician(ctx, technicianID)
	if err != nil {
		s.logger.Error("GetWeeklySchedule: repository error for technician=%d: %v", technicianID, err)
		return nil, fmt.Errorf("%w: GetWeeklySchedule - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetWeeklySchedule: technician=%d has %d configured days", technicianID, len(schedules))
	return models.FromDomainWeek(technicianID, schedules), nil
}

// UpsertDay устанавливает рабочие часы техника на день недели.
// Доступно только самому технику.
func (s *Service) UpsertDay(ctx context.Context, req *models.UpsertDayRequest) (*models.DayResponse, error) {
	s.logger.Info("UpsertDay: technician=%d, day=%s, available=%t by user=%d",
		req.TechnicianID, req.DayOfWeek, req.IsAvailable, req.UserID)

	if req.UserID != req.TechnicianID {
		s.logger.Warn("UpsertDay: user=%d cannot edit schedule of technician=%d", req.UserID, req.TechnicianID)
		return nil, ErrAccessDenied
	}

	schedule := req.ToDomainSchedule()
	if !schedule.IsAvailable {
		// Для выходного часы не хранятся
		schedule.StartTime = ""
		schedule.EndTime = ""
	}
	if err := schedule.Validate(); err != nil {
		s.logger.Warn("UpsertDay: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.ensureTechnician(ctx, "UpsertDay", req.TechnicianID); err != nil {
		return nil, err
	}

	saved, err := s.scheduleRepo.Upsert(ctx, schedule)
	if err != nil {
		s.logger.Error("UpsertDay: repository error for technician=%d: %v", req.TechnicianID, err)
		return nil, fmt.Errorf("%w: UpsertDay - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("UpsertDay: saved schedule id=%d for technician=%d", saved.ID, req.TechnicianID)
	resp := models.FromDomainSchedule(saved)
	return &resp, nil
}

func (s *Service) ensureTechnician(ctx context.Context, op string, technicianID int64) error {
	exists, err := s.technicianRepo.Exists(ctx, technicianID)
	if err != nil {
		s.logger.Error("%s: failed to check technician id=%d: %v", op, technicianID, err)
		return fmt.Errorf("%w: %s - check technician: %w", ErrInternal, op, err)
	}
	if !exists {
		s.logger.Warn("%s: technician id=%d not found", op, technicianID)
		return ErrTechnicianNotFound
	}
	return nil
}


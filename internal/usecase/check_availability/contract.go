package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
)

// ScheduleRepository источник недельного расписания техника
type ScheduleRepository interface {
	// GetByTechnicianAndDay возвращает schedule.ErrScheduleNotFound, если день не настроен
	GetByTechnicianAndDay(ctx context.Context, technicianID int64, day time.Weekday) (*domain.WeeklySchedule, error)
}

// BookingRepository источник занятости техника
type BookingRepository interface {
	// GetActiveByTechnicianAndDate возвращает неотменённые бронирования на календарную дату.
	// Внутри транзакции строки блокируются FOR UPDATE.
	GetActiveByTechnicianAndDate(ctx context.Context, technicianID int64, date time.Time) ([]*domain.Booking, error)
}

// TechnicianRepository справочник техников
type TechnicianRepository interface {
	Exists(ctx context.Context, technicianID int64) (bool, error)
}

// DecisionObserver получает причину каждого решения (метрики)
type DecisionObserver interface {
	ObserveAvailabilityDecision(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type noopObserver struct{}

func (noopObserver) ObserveAvailabilityDecision(string) {}

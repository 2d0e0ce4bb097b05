package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetByTechnicianAndDay(ctx context.Context, technicianID int64, day time.Weekday) (*domain.WeeklySchedule, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByTechnicianAndDate(ctx context.Context, technicianID int64, date time.Time) ([]*domain.Booking, error)
}

// TechnicianRepository справочник техников
type TechnicianRepository interface {
	Exists(ctx context.Context, technicianID int64) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

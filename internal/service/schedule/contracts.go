package schedule

import (
	"context"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория недельного расписания
type ScheduleRepository interface {
	GetAllByTechnician(ctx context.Context, technicianID int64) ([]*domain.WeeklySchedule, error)
	Upsert(ctx context.Context, schedule *domain.WeeklySchedule) (*domain.WeeklySchedule, error)
}

// TechnicianRepository интерфейс репозитория техников
type TechnicianRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

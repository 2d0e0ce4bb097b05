package get_weekly_schedule

import (
	"context"

	"github.com/m04kA/SMC-RepairBookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetWeeklySchedule(ctx context.Context, technicianID int64) (*models.WeeklyScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package update_weekly_schedule

import (
	"context"

	"github.com/m04kA/SMC-RepairBookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	UpsertDay(ctx context.Context, req *models.UpsertDayRequest) (*models.DayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package check_availability

import (
	"context"

	checkAvailability "github.com/m04kA/SMC-RepairBookingService/internal/usecase/check_availability"
)

type CheckAvailabilityUseCase interface {
	Check(ctx context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

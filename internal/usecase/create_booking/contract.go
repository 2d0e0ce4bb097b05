package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	checkAvailability "github.com/m04kA/SMC-RepairBookingService/internal/usecase/check_availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// LockTechnicianDay сериализует создание бронирований одного техника на одну дату
	LockTechnicianDay(ctx context.Context, technicianID int64, date time.Time) error
}

// AvailabilityChecker проверка слота; внутри транзакции читает данные через неё
type AvailabilityChecker interface {
	Check(ctx context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

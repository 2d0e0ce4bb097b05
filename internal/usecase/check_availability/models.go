package check_availability

import (
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
)

// Policy параметры, которые задаёт вызывающая сторона (из конфигурации сервиса)
type Policy struct {
	// Location часовой пояс, в котором определяются день недели и дата начала
	Location *time.Location

	// DefaultDurationHours длительность для запросов без durationHours и для записей без сохранённой длительности
	DefaultDurationHours float64
}

// Request модель запроса на проверку слота
type Request struct {
	TechnicianID  int64
	Start         time.Time
	DurationHours *float64 // nil = Policy.DefaultDurationHours
}

// Response решение по слоту
type Response struct {
	TechnicianID  int64
	Start         time.Time // в Policy.Location
	End           time.Time
	DurationHours float64
	Bookable      bool
	Reason        domain.AvailabilityReason
	WorkingWindow *domain.Slot
	Conflicts     []*domain.Booking
}

package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
)

// Settings параметры сервиса, передаваемые из конфигурации
type Settings struct {
	Location             *time.Location
	DefaultDurationHours float64
	StepMinutes          int
}

// Request модель запроса на получение доступных слотов
type Request struct {
	TechnicianID  int64     // ID техника
	Date          time.Time // Календарная дата (время суток игнорируется)
	DurationHours *float64  // Длительность работ; nil = значение по умолчанию
}

// Response модель ответа со списком доступных слотов
type Response struct {
	TechnicianID  int64
	Date          time.Time
	DurationHours float64
	StepMinutes   int
	Reason        domain.AvailabilityReason // причина, если день закрыт целиком
	WorkingWindow *domain.Slot              // nil, если техник не работает в этот день
	Slots         []domain.Slot             // Свободные интервалы в порядке возрастания начала
}

package create_booking

import (
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
)

// Settings параметры сервиса, передаваемые из конфигурации
type Settings struct {
	Location             *time.Location
	DefaultDurationHours float64
	RequestTimeout       time.Duration // 0 = без ограничения
}

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID    int64     // ID клиента (из X-User-ID)
	TechnicianID  int64     // ID техника
	ServiceID     int64     // ID услуги
	Start         time.Time // Начало работ
	DurationHours *float64  // Длительность; nil = значение по умолчанию
	Address       string    // Адрес выезда
	TotalAmount   float64   // Стоимость, рассчитанная вызывающей стороной
	Notes         *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID             int64
	TechnicianID   int64
	CustomerID     int64
	ServiceID      int64
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	BookingDate    time.Time
	DurationHours  float64
	Status         domain.BookingStatus
	Address        string
	TotalAmount    float64
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

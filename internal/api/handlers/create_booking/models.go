package create_booking

import (
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-RepairBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	TechnicianID  int64    `json:"technicianId"`
	ServiceID     int64    `json:"serviceId"`
	Start         string   `json:"start"` // RFC 3339: "2025-03-10T10:00:00+03:00"
	DurationHours *float64 `json:"durationHours,omitempty"`
	Address       string   `json:"address"`
	TotalAmount   float64  `json:"totalAmount"`
	Notes         *string  `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID             int64   `json:"id"`
	TechnicianID   int64   `json:"technicianId"`
	CustomerID     int64   `json:"customerId"`
	ServiceID      int64   `json:"serviceId"`
	ScheduledStart string  `json:"scheduledStart"`
	ScheduledEnd   string  `json:"scheduledEnd"`
	BookingDate    string  `json:"bookingDate"`
	DurationHours  float64 `json:"durationHours"`
	Status         string  `json:"status"`
	Address        string  `json:"address"`
	TotalAmount    float64 `json:"totalAmount"`
	Notes          *string `json:"notes,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Клиентом бронирования всегда становится аутентифицированный пользователь.
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CustomerID:    customerID,
		TechnicianID:  r.TechnicianID,
		ServiceID:     r.ServiceID,
		Start:         start,
		DurationHours: r.DurationHours,
		Address:       r.Address,
		TotalAmount:   r.TotalAmount,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:             resp.ID,
		TechnicianID:   resp.TechnicianID,
		CustomerID:     resp.CustomerID,
		ServiceID:      resp.ServiceID,
		ScheduledStart: resp.ScheduledStart.Format(time.RFC3339),
		ScheduledEnd:   resp.ScheduledEnd.Format(time.RFC3339),
		BookingDate:    resp.BookingDate.Format(domain.DateFormat),
		DurationHours:  resp.DurationHours,
		Status:         resp.Status.String(),
		Address:        resp.Address,
		TotalAmount:    resp.TotalAmount,
		Notes:          resp.Notes,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}

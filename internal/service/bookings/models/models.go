package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetCustomerBookingsRequest запрос на получение бронирований клиента
type GetCustomerBookingsRequest struct {
	UserID     int64   `json:"userId"`
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// GetTechnicianBookingsRequest запрос на получение бронирований техника
type GetTechnicianBookingsRequest struct {
	UserID           int64      `json:"userId"`
	TechnicianID     int64      `json:"technicianId"`
	StartDate        *time.Time `json:"startDate,omitempty"`        // Начало периода (опционально)
	EndDate          *time.Time `json:"endDate,omitempty"`          // Конец периода (опционально)
	Status           *string    `json:"status,omitempty"`           // Фильтр по статусу (опционально)
	IncludeCancelled bool       `json:"includeCancelled,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTechnicianBookingsRequest) ToDomainFilter() (domain.TechnicianBookingsFilter, error) {
	filter := domain.TechnicianBookingsFilter{
		TechnicianID:     r.TechnicianID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID             int64    `json:"id"`
	TechnicianID   int64    `json:"technicianId"`
	CustomerID     int64    `json:"customerId"`
	ServiceID      int64    `json:"serviceId"`
	ScheduledStart string   `json:"scheduledStart"` // RFC 3339
	ScheduledEnd   string   `json:"scheduledEnd"`   // RFC 3339
	BookingDate    string   `json:"bookingDate"`    // "2025-10-15"
	DurationHours  *float64 `json:"durationHours,omitempty"`
	Status         string   `json:"status"`
	Address        string   `json:"address"`
	TotalAmount    float64  `json:"totalAmount"`
	Notes          *string  `json:"notes,omitempty"`

	// Допустимые следующие статусы; пусто для завершённых и отменённых
	AllowedTransitions []string `json:"allowedTransitions"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO.
// fallbackDurationHours используется для вычисления окончания записей без длительности.
func FromDomainBooking(b *domain.Booking, fallbackDurationHours float64) *BookingResponse {
	if b == nil {
		return nil
	}

	allowed := b.Status.AllowedTransitions()
	transitions := make([]string, len(allowed))
	for i, s := range allowed {
		transitions[i] = s.String()
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		TechnicianID:       b.TechnicianID,
		CustomerID:         b.CustomerID,
		ServiceID:          b.ServiceID,
		ScheduledStart:     b.ScheduledStart.Format(time.RFC3339),
		ScheduledEnd:       b.Slot(fallbackDurationHours).End.Format(time.RFC3339),
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		DurationHours:      b.DurationHours,
		Status:             b.Status.String(),
		Address:            b.Address,
		TotalAmount:        b.TotalAmount,
		Notes:              b.Notes,
		AllowedTransitions: transitions,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, fallbackDurationHours float64) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, fallbackDurationHours); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s, err := domain.ParseBookingStatus(status)
	if err != nil {
		return "", ErrInvalidStatus
	}
	return s, nil
}

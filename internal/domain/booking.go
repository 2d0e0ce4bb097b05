package domain

import (
	"fmt"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// ParseBookingStatus converts a raw string into a known BookingStatus
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// IsValid returns true for one of the five known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transitions are allowed out of the status
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s BookingStatus) String() string {
	return string(s)
}

// Booking represents an appointment of a technician with a customer
type Booking struct {
	ID             int64
	TechnicianID   int64
	CustomerID     int64
	ServiceID      int64
	ScheduledStart time.Time
	BookingDate    time.Time // calendar date of ScheduledStart in the service location
	DurationHours  *float64  // nil for legacy rows created before duration was stored
	Status         BookingStatus
	Address        string
	TotalAmount    float64
	Notes          *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies the technician's time
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsParticipant returns true if the user is the customer or the technician of the booking
func (b *Booking) IsParticipant(userID int64) bool {
	return b.CustomerID == userID || b.TechnicianID == userID
}

// EffectiveDurationHours returns the stored duration or fallback when it is absent
func (b *Booking) EffectiveDurationHours(fallback float64) float64 {
	if b.DurationHours == nil || *b.DurationHours <= 0 {
		return fallback
	}
	return *b.DurationHours
}

// Slot returns the interval the booking occupies
func (b *Booking) Slot(fallbackDurationHours float64) Slot {
	return NewSlot(b.ScheduledStart, b.EffectiveDurationHours(fallbackDurationHours))
}

// TechnicianBookingsFilter фильтр для получения бронирований техника
type TechnicianBookingsFilter struct {
	TechnicianID     int64          // Обязательный параметр
	StartDate        *time.Time     // Начало периода (опционально)
	EndDate          *time.Time     // Конец периода (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отменённые бронирования
}

// IsSingleDay returns true when the filter targets exactly one calendar date
func (f TechnicianBookingsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}

package domain

import (
	"errors"
	"fmt"
)

// ErrNonPositiveDuration is returned for a zero or negative requested duration
var ErrNonPositiveDuration = errors.New("availability: duration must be positive")

// AvailabilityReason explains an availability decision
type AvailabilityReason string

const (
	ReasonAvailable AvailabilityReason = "available"

	// ReasonScheduleNotConfigured: no weekly schedule row for that day (fail closed)
	ReasonScheduleNotConfigured AvailabilityReason = "schedule_not_configured"

	// ReasonDayUnavailable: the row exists but the technician is off that day
	ReasonDayUnavailable AvailabilityReason = "day_unavailable"

	ReasonOutsideWorkingHours AvailabilityReason = "outside_working_hours"
	ReasonOverlap             AvailabilityReason = "overlap"
)

// AvailabilityDecision is the result of checking one proposed slot
type AvailabilityDecision struct {
	Bookable  bool
	Reason    AvailabilityReason
	Slot      Slot
	Window    *Slot      // working window of the day, nil when the day is closed
	Conflicts []*Booking // active bookings overlapping Slot
}

// CheckAvailability decides whether proposed can be booked.
//
// schedule is the technician's row for the weekday of proposed.Start (nil when absent).
// existing are the technician's bookings on the same calendar date; cancelled ones are ignored.
// fallbackDurationHours is used for existing bookings without a stored duration.
//
// The function is pure: it performs no I/O and no locking.
func CheckAvailability(
	schedule *WeeklySchedule,
	existing []*Booking,
	proposed Slot,
	fallbackDurationHours float64,
) (AvailabilityDecision, error) {
	if !proposed.End.After(proposed.Start) {
		return AvailabilityDecision{}, fmt.Errorf("%w: got %s", ErrNonPositiveDuration, proposed.Duration())
	}

	decision := AvailabilityDecision{Slot: proposed}

	// 1. День недели: нет строки или выходной - недоступно
	if schedule == nil {
		decision.Reason = ReasonScheduleNotConfigured
		return decision, nil
	}
	if !schedule.IsAvailable {
		decision.Reason = ReasonDayUnavailable
		return decision, nil
	}

	// 2. Рабочие часы, привязанные к дате начала
	window, err := schedule.WindowOn(proposed.Start)
	if err != nil {
		return AvailabilityDecision{}, err
	}
	decision.Window = &window

	if !proposed.Within(window) {
		decision.Reason = ReasonOutsideWorkingHours
		return decision, nil
	}

	// 3. Пересечения с активными бронированиями
	for _, booking := range existing {
		if booking == nil || !booking.IsActive() {
			continue
		}
		if booking.Slot(fallbackDurationHours).Overlaps(proposed) {
			decision.Conflicts = append(decision.Conflicts, booking)
		}
	}
	if len(decision.Conflicts) > 0 {
		decision.Reason = ReasonOverlap
		return decision, nil
	}

	decision.Bookable = true
	decision.Reason = ReasonAvailable
	return decision, nil
}

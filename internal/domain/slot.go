package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DurationPrecisionHours is the finest duration step that bookings.duration_hours
// (NUMERIC(5, 2)) stores without rounding
const DurationPrecisionHours = 0.01

// ErrInvalidDuration is returned for a duration the booking store cannot hold exactly
var ErrInvalidDuration = errors.New("invalid duration")

// Slot is a half-open interval [Start, End)
type Slot struct {
	Start time.Time
	End   time.Time
}

// HoursToDuration converts fractional hours into a duration rounded to the second
func HoursToDuration(hours float64) time.Duration {
	return time.Duration(math.Round(hours*3600)) * time.Second
}

// ValidateDurationHours accepts finite durations in (0, MaxDurationHours]
// expressed in whole hundredths of an hour, so the interval checked before
// saving is the same interval read back from storage.
func ValidateDurationHours(hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return fmt.Errorf("%w: durationHours must be a finite number", ErrInvalidDuration)
	}
	if hours <= 0 {
		return fmt.Errorf("%w: durationHours must be positive, got %v", ErrInvalidDuration, hours)
	}
	if hours > MaxDurationHours {
		return fmt.Errorf("%w: durationHours must not exceed %v", ErrInvalidDuration, MaxDurationHours)
	}
	steps := hours / DurationPrecisionHours
	if math.Abs(steps-math.Round(steps)) > 1e-6 {
		return fmt.Errorf("%w: durationHours %v is finer than %v h", ErrInvalidDuration, hours, DurationPrecisionHours)
	}
	return nil
}

// NewSlot builds the slot [start, start+durationHours)
func NewSlot(start time.Time, durationHours float64) Slot {
	return Slot{
		Start: start,
		End:   start.Add(HoursToDuration(durationHours)),
	}
}

// Duration returns the length of the slot
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Overlaps returns true if the two slots share any instant.
// Strict inequalities: a slot ending exactly when the other starts does not overlap.
//
// Examples:
// - 10:00-12:00 and 11:00-12:00 → overlap
// - 10:00-11:00 and 11:00-12:00 → no overlap (back-to-back)
func (s Slot) Overlaps(other Slot) bool {
	return s.Start.Before(other.End) && s.End.After(other.Start)
}

// Within returns true if s lies entirely inside window (borders inclusive)
func (s Slot) Within(window Slot) bool {
	return !s.Start.Before(window.Start) && !s.End.After(window.End)
}

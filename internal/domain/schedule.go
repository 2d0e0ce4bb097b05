package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-RepairBookingService/pkg/types"
)

// ErrInvalidSchedule is returned for a schedule row that cannot describe a working window
var ErrInvalidSchedule = errors.New("schedule: invalid working hours")

// WeeklySchedule is a technician's recurring working hours for one day of the week.
// At most one row exists per (TechnicianID, DayOfWeek).
type WeeklySchedule struct {
	ID           int64
	TechnicianID int64
	DayOfWeek    time.Weekday
	IsAvailable  bool
	StartTime    types.TimeString
	EndTime      types.TimeString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks that an available day has StartTime < EndTime
func (s *WeeklySchedule) Validate() error {
	if s.DayOfWeek < time.Sunday || s.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day of week %d", ErrInvalidSchedule, s.DayOfWeek)
	}
	if !s.IsAvailable {
		return nil
	}
	if err := s.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidSchedule, err)
	}
	if err := s.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidSchedule, err)
	}
	if !s.StartTime.IsBefore(s.EndTime) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidSchedule, s.StartTime, s.EndTime)
	}
	return nil
}

// WindowOn applies the schedule's working hours to the calendar date of date.
// Both ends are bound to the same date, so windows never cross midnight.
func (s *WeeklySchedule) WindowOn(date time.Time) (Slot, error) {
	if err := s.Validate(); err != nil {
		return Slot{}, err
	}
	start, err := s.StartTime.OnDate(date)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	end, err := s.EndTime.OnDate(date)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	return Slot{Start: start, End: end}, nil
}

// DateOnly truncates t to midnight of its calendar date in t's location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseWeekday parses "monday".."sunday" (case-insensitive) or the short form "mon".."sun"
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	case "sunday", "sun":
		return time.Sunday, nil
	default:
		return 0, fmt.Errorf("%w: unknown day %q", ErrInvalidSchedule, s)
	}
}

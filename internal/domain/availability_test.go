package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairBookingService/pkg/ptr"
	"github.com/m04kA/SMC-RepairBookingService/pkg/types"
)

const fallbackHours = 2.0

// 2025-03-10 is a Monday
func monday(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func mondaySchedule() *WeeklySchedule {
	return &WeeklySchedule{
		TechnicianID: 1,
		DayOfWeek:    time.Monday,
		IsAvailable:  true,
		StartTime:    types.MustTimeString("09:00"),
		EndTime:      types.MustTimeString("17:00"),
	}
}

func booking(status BookingStatus, start time.Time, hours *float64) *Booking {
	return &Booking{
		ID:             100,
		TechnicianID:   1,
		ScheduledStart: start,
		BookingDate:    DateOnly(start),
		DurationHours:  hours,
		Status:         status,
	}
}

func TestCheckAvailability_Scenarios(t *testing.T) {
	existingConfirmed := booking(StatusConfirmed, monday(10, 0), ptr.Ptr(2.0))
	existingCancelled := booking(StatusCancelled, monday(10, 0), ptr.Ptr(2.0))

	tests := []struct {
		name     string
		schedule *WeeklySchedule
		existing []*Booking
		proposed Slot
		bookable bool
		reason   AvailabilityReason
	}{
		{
			name:     "monday 09:00 for 2h with empty day",
			schedule: mondaySchedule(),
			proposed: NewSlot(monday(9, 0), 2),
			bookable: true,
			reason:   ReasonAvailable,
		},
		{
			name:     "monday 16:00 for 2h spills past 17:00",
			schedule: mondaySchedule(),
			proposed: NewSlot(monday(16, 0), 2),
			reason:   ReasonOutsideWorkingHours,
		},
		{
			name:     "starts before window opens",
			schedule: mondaySchedule(),
			proposed: NewSlot(monday(8, 30), 1),
			reason:   ReasonOutsideWorkingHours,
		},
		{
			name:     "ends exactly at window close",
			schedule: mondaySchedule(),
			proposed: NewSlot(monday(15, 0), 2),
			bookable: true,
			reason:   ReasonAvailable,
		},
		{
			name:     "10:00 for 1h inside confirmed 10:00-12:00",
			schedule: mondaySchedule(),
			existing: []*Booking{existingConfirmed},
			proposed: NewSlot(monday(10, 0), 1),
			reason:   ReasonOverlap,
		},
		{
			name:     "10:00 for 1h against cancelled 10:00-12:00",
			schedule: mondaySchedule(),
			existing: []*Booking{existingCancelled},
			proposed: NewSlot(monday(10, 0), 1),
			bookable: true,
			reason:   ReasonAvailable,
		},
		{
			name:     "cancelled booking never blocks the identical slot",
			schedule: mondaySchedule(),
			existing: []*Booking{existingCancelled},
			proposed: NewSlot(monday(10, 0), 2),
			bookable: true,
			reason:   ReasonAvailable,
		},
		{
			name:     "no schedule row fails closed",
			schedule: nil,
			proposed: NewSlot(monday(10, 0), 1),
			reason:   ReasonScheduleNotConfigured,
		},
		{
			name: "day marked unavailable",
			schedule: &WeeklySchedule{
				TechnicianID: 1,
				DayOfWeek:    time.Monday,
				IsAvailable:  false,
			},
			proposed: NewSlot(monday(10, 0), 1),
			reason:   ReasonDayUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := CheckAvailability(tt.schedule, tt.existing, tt.proposed, fallbackHours)
			require.NoError(t, err)
			assert.Equal(t, tt.bookable, decision.Bookable)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

func TestCheckAvailability_BackToBack(t *testing.T) {
	existing := []*Booking{booking(StatusConfirmed, monday(9, 0), ptr.Ptr(2.0))} // ends 11:00

	for _, hours := range []float64{0.5, 1, 2, 6} {
		decision, err := CheckAvailability(mondaySchedule(), existing, NewSlot(monday(11, 0), hours), fallbackHours)
		require.NoError(t, err)
		assert.True(t, decision.Bookable, "duration %.1fh", hours)
	}

	shifted := []*Booking{booking(StatusConfirmed, monday(13, 0), ptr.Ptr(1.0))}
	decision, err := CheckAvailability(mondaySchedule(), shifted, NewSlot(monday(11, 0), 2), fallbackHours)
	require.NoError(t, err)
	assert.True(t, decision.Bookable, "ends exactly when the next booking starts")
}

func TestCheckAvailability_OverlapIffStrictInequality(t *testing.T) {
	// Existing A = 12:00-14:00. Sweep proposed B over the day in 30-minute steps.
	existing := booking(StatusConfirmed, monday(12, 0), ptr.Ptr(2.0))
	a := existing.Slot(fallbackHours)

	for startMin := 9 * 60; startMin < 17*60; startMin += 30 {
		for _, hours := range []float64{0.5, 1, 1.5, 3} {
			b := NewSlot(monday(0, 0).Add(time.Duration(startMin)*time.Minute), hours)
			if !b.Within(Slot{Start: monday(9, 0), End: monday(17, 0)}) {
				continue
			}

			decision, err := CheckAvailability(mondaySchedule(), []*Booking{existing}, b, fallbackHours)
			require.NoError(t, err)

			expectOverlap := a.Start.Before(b.End) && a.End.After(b.Start)
			assert.Equal(t, !expectOverlap, decision.Bookable, "B=%s..%s", b.Start.Format("15:04"), b.End.Format("15:04"))
		}
	}
}

func TestCheckAvailability_UnavailableDayRejectsWholeDay(t *testing.T) {
	schedule := &WeeklySchedule{TechnicianID: 1, DayOfWeek: time.Monday, IsAvailable: false}

	for hour := 0; hour < 23; hour++ {
		decision, err := CheckAvailability(schedule, nil, NewSlot(monday(hour, 0), 1), fallbackHours)
		require.NoError(t, err)
		assert.False(t, decision.Bookable, "hour %d", hour)
	}
}

func TestCheckAvailability_MidnightCrossingRejected(t *testing.T) {
	schedule := mondaySchedule()
	schedule.StartTime = types.MustTimeString("18:00")
	schedule.EndTime = types.MustTimeString("23:59")

	decision, err := CheckAvailability(schedule, nil, NewSlot(monday(23, 0), 2), fallbackHours)
	require.NoError(t, err)
	assert.False(t, decision.Bookable)
	assert.Equal(t, ReasonOutsideWorkingHours, decision.Reason)
}

func TestCheckAvailability_FallbackDurationForLegacyRows(t *testing.T) {
	legacy := booking(StatusConfirmed, monday(10, 0), nil) // occupies 10:00-12:00 via fallback

	decision, err := CheckAvailability(mondaySchedule(), []*Booking{legacy}, NewSlot(monday(11, 30), 1), fallbackHours)
	require.NoError(t, err)
	assert.False(t, decision.Bookable)
	require.Len(t, decision.Conflicts, 1)
	assert.Same(t, legacy, decision.Conflicts[0])

	decision, err = CheckAvailability(mondaySchedule(), []*Booking{legacy}, NewSlot(monday(12, 0), 1), fallbackHours)
	require.NoError(t, err)
	assert.True(t, decision.Bookable)
}

func TestCheckAvailability_NonPositiveDuration(t *testing.T) {
	_, err := CheckAvailability(mondaySchedule(), nil, NewSlot(monday(10, 0), -1), fallbackHours)
	assert.ErrorIs(t, err, ErrNonPositiveDuration)
}

func TestCheckAvailability_CorruptScheduleRow(t *testing.T) {
	schedule := mondaySchedule()
	schedule.StartTime = types.MustTimeString("17:00")
	schedule.EndTime = types.MustTimeString("09:00")

	_, err := CheckAvailability(schedule, nil, NewSlot(monday(10, 0), 1), fallbackHours)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestSlot_Overlaps(t *testing.T) {
	a := Slot{Start: monday(10, 0), End: monday(12, 0)}

	assert.True(t, a.Overlaps(Slot{Start: monday(11, 0), End: monday(13, 0)}))
	assert.True(t, a.Overlaps(Slot{Start: monday(9, 0), End: monday(13, 0)}))
	assert.False(t, a.Overlaps(Slot{Start: monday(12, 0), End: monday(13, 0)}))
	assert.False(t, a.Overlaps(Slot{Start: monday(8, 0), End: monday(10, 0)}))
}

func TestHoursToDuration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, HoursToDuration(1.5))
	assert.Equal(t, 20*time.Minute, HoursToDuration(1.0/3.0))
}

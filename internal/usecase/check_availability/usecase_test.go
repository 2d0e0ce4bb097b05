package check_availability

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-RepairBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-RepairBookingService/pkg/logger"
	"github.com/m04kA/SMC-RepairBookingService/pkg/ptr"
	"github.com/m04kA/SMC-RepairBookingService/pkg/types"
)

const technicianID int64 = 42

type fakeScheduleRepo struct {
	byDay map[time.Weekday]*domain.WeeklySchedule
	err   error
	calls []time.Weekday
}

func (f *fakeScheduleRepo) GetByTechnicianAndDay(_ context.Context, _ int64, day time.Weekday) (*domain.WeeklySchedule, error) {
	f.calls = append(f.calls, day)
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.byDay[day]
	if !ok {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return s, nil
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
	dates    []time.Time
}

func (f *fakeBookingRepo) GetActiveByTechnicianAndDate(_ context.Context, _ int64, date time.Time) ([]*domain.Booking, error) {
	f.dates = append(f.dates, date)
	if f.err != nil {
		return nil, f.err
	}
	active := make([]*domain.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		if b.IsActive() {
			active = append(active, b)
		}
	}
	return active, nil
}

type fakeTechnicianRepo struct {
	exists bool
	err    error
}

func (f *fakeTechnicianRepo) Exists(context.Context, int64) (bool, error) {
	return f.exists, f.err
}

type recordingObserver struct {
	reasons []string
}

func (r *recordingObserver) ObserveAvailabilityDecision(reason string) {
	r.reasons = append(r.reasons, reason)
}

type fixture struct {
	schedules   *fakeScheduleRepo
	bookings    *fakeBookingRepo
	technicians *fakeTechnicianRepo
	observer    *recordingObserver
	uc          *UseCase
}

func newFixture(loc *time.Location) *fixture {
	f := &fixture{
		schedules: &fakeScheduleRepo{byDay: map[time.Weekday]*domain.WeeklySchedule{
			time.Monday: {
				TechnicianID: technicianID,
				DayOfWeek:    time.Monday,
				IsAvailable:  true,
				StartTime:    types.MustTimeString("09:00"),
				EndTime:      types.MustTimeString("17:00"),
			},
			time.Tuesday: {
				TechnicianID: technicianID,
				DayOfWeek:    time.Tuesday,
				IsAvailable:  false,
			},
		}},
		bookings:    &fakeBookingRepo{},
		technicians: &fakeTechnicianRepo{exists: true},
		observer:    &recordingObserver{},
	}
	f.uc = NewUseCase(
		f.schedules,
		f.bookings,
		f.technicians,
		Policy{Location: loc, DefaultDurationHours: 2},
		logger.NewNop(),
		WithDecisionObserver(f.observer),
	)
	return f
}

// 2025-03-10 понедельник
func mondayAt(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestIsBookable_Scenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("empty monday 09:00 for 2h", func(t *testing.T) {
		f := newFixture(time.UTC)
		ok, err := f.uc.IsBookable(ctx, technicianID, mondayAt(9, 0), 2)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("16:00 for 2h exceeds working hours", func(t *testing.T) {
		f := newFixture(time.UTC)
		ok, err := f.uc.IsBookable(ctx, technicianID, mondayAt(16, 0), 2)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("confirmed booking 10:00-12:00 blocks 10:00 for 1h", func(t *testing.T) {
		f := newFixture(time.UTC)
		f.bookings.bookings = []*domain.Booking{{
			ID: 1, TechnicianID: technicianID, ScheduledStart: mondayAt(10, 0),
			DurationHours: ptr.Ptr(2.0), Status: domain.StatusConfirmed,
		}}
		ok, err := f.uc.IsBookable(ctx, technicianID, mondayAt(10, 0), 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("cancelled booking 10:00-12:00 does not block", func(t *testing.T) {
		f := newFixture(time.UTC)
		f.bookings.bookings = []*domain.Booking{{
			ID: 1, TechnicianID: technicianID, ScheduledStart: mondayAt(10, 0),
			DurationHours: ptr.Ptr(2.0), Status: domain.StatusCancelled,
		}}
		ok, err := f.uc.IsBookable(ctx, technicianID, mondayAt(10, 0), 1)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("back-to-back after 09:00-11:00", func(t *testing.T) {
		f := newFixture(time.UTC)
		f.bookings.bookings = []*domain.Booking{{
			ID: 1, TechnicianID: technicianID, ScheduledStart: mondayAt(9, 0),
			DurationHours: ptr.Ptr(2.0), Status: domain.StatusConfirmed,
		}}
		ok, err := f.uc.IsBookable(ctx, technicianID, mondayAt(11, 0), 3)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("tuesday marked unavailable", func(t *testing.T) {
		f := newFixture(time.UTC)
		ok, err := f.uc.IsBookable(ctx, technicianID, mondayAt(10, 0).AddDate(0, 0, 1), 1)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, f.bookings.dates, "bookings are not read for a closed day")
	})

	t.Run("wednesday has no schedule row", func(t *testing.T) {
		f := newFixture(time.UTC)
		resp, err := f.uc.Check(ctx, &Request{TechnicianID: technicianID, Start: mondayAt(10, 0).AddDate(0, 0, 2)})
		require.NoError(t, err)
		assert.False(t, resp.Bookable)
		assert.Equal(t, domain.ReasonScheduleNotConfigured, resp.Reason)
	})
}

func TestCheck_DefaultDurationAndLegacyBookings(t *testing.T) {
	f := newFixture(time.UTC)
	// legacy row without duration occupies 13:00-15:00 via the configured default
	f.bookings.bookings = []*domain.Booking{{
		ID: 1, TechnicianID: technicianID, ScheduledStart: mondayAt(13, 0), Status: domain.StatusPending,
	}}

	resp, err := f.uc.Check(context.Background(), &Request{TechnicianID: technicianID, Start: mondayAt(11, 30)})
	require.NoError(t, err)
	assert.Equal(t, 2.0, resp.DurationHours)
	assert.Equal(t, mondayAt(13, 30), resp.End)
	assert.False(t, resp.Bookable)
	assert.Equal(t, domain.ReasonOverlap, resp.Reason)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(1), resp.Conflicts[0].ID)

	assert.Equal(t, []string{string(domain.ReasonOverlap)}, f.observer.reasons)
}

func TestCheck_UsesServiceLocationForWeekday(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	f := newFixture(msk)

	// воскресенье 22:00 UTC = понедельник 01:00 MSK
	start := time.Date(2025, 3, 9, 22, 0, 0, 0, time.UTC)
	resp, err := f.uc.Check(context.Background(), &Request{TechnicianID: technicianID, Start: start, DurationHours: ptr.Ptr(1.0)})
	require.NoError(t, err)

	assert.Equal(t, []time.Weekday{time.Monday}, f.schedules.calls)
	assert.Equal(t, domain.ReasonOutsideWorkingHours, resp.Reason)

	// понедельник 06:00 UTC = 09:00 MSK, начало смены
	ok, err := f.uc.IsBookable(context.Background(), technicianID, mondayAt(6, 0), 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheck_InvalidInput(t *testing.T) {
	f := newFixture(time.UTC)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *Request
	}{
		{"nil request", nil},
		{"zero technician", &Request{Start: mondayAt(10, 0)}},
		{"zero start", &Request{TechnicianID: technicianID}},
		{"zero duration", &Request{TechnicianID: technicianID, Start: mondayAt(10, 0), DurationHours: ptr.Ptr(0.0)}},
		{"negative duration", &Request{TechnicianID: technicianID, Start: mondayAt(10, 0), DurationHours: ptr.Ptr(-1.0)}},
		{"too long", &Request{TechnicianID: technicianID, Start: mondayAt(10, 0), DurationHours: ptr.Ptr(13.0)}},
		{"duration rounds to zero in storage", &Request{TechnicianID: technicianID, Start: mondayAt(10, 0), DurationHours: ptr.Ptr(0.001)}},
		{"duration finer than hundredths", &Request{TechnicianID: technicianID, Start: mondayAt(10, 0), DurationHours: ptr.Ptr(1.333)}},
		{"NaN duration", &Request{TechnicianID: technicianID, Start: mondayAt(10, 0), DurationHours: ptr.Ptr(math.NaN())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.uc.Check(ctx, tt.req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	ok, err := f.uc.IsBookable(ctx, technicianID, mondayAt(10, 0), 0)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheck_TechnicianNotFound(t *testing.T) {
	f := newFixture(time.UTC)
	f.technicians.exists = false

	ok, err := f.uc.IsBookable(context.Background(), technicianID, mondayAt(10, 0), 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrTechnicianNotFound)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, f.schedules.calls)
}

func TestCheck_InfrastructureFailuresNeverReportAvailable(t *testing.T) {
	dbErr := errors.New("connection refused")

	t.Run("technician lookup", func(t *testing.T) {
		f := newFixture(time.UTC)
		f.technicians.err = dbErr
		ok, err := f.uc.IsBookable(context.Background(), technicianID, mondayAt(10, 0), 1)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrInfrastructure)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("schedule lookup", func(t *testing.T) {
		f := newFixture(time.UTC)
		f.schedules.err = dbErr
		ok, err := f.uc.IsBookable(context.Background(), technicianID, mondayAt(10, 0), 1)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrInfrastructure)
	})

	t.Run("bookings lookup", func(t *testing.T) {
		f := newFixture(time.UTC)
		f.bookings.err = context.DeadlineExceeded
		ok, err := f.uc.IsBookable(context.Background(), technicianID, mondayAt(10, 0), 1)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrInfrastructure)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("corrupt schedule row", func(t *testing.T) {
		f := newFixture(time.UTC)
		f.schedules.byDay[time.Monday].StartTime = types.MustTimeString("18:00")
		ok, err := f.uc.IsBookable(context.Background(), technicianID, mondayAt(10, 0), 1)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrInfrastructure)
		assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
	})
}

func TestCheck_ReadsBookingsForLocalDate(t *testing.T) {
	f := newFixture(time.UTC)

	_, err := f.uc.Check(context.Background(), &Request{TechnicianID: technicianID, Start: mondayAt(15, 0)})
	require.NoError(t, err)

	require.Len(t, f.bookings.dates, 1)
	y, m, d := f.bookings.dates[0].Date()
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.March, m)
	assert.Equal(t, 10, d)
}

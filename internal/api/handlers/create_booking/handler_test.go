package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-RepairBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-RepairBookingService/pkg/logger"
)

type stubUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	s.got = req
	return s.resp, s.err
}

const validBody = `{
	"technicianId": 5,
	"serviceId": 3,
	"start": "2025-03-10T10:00:00Z",
	"durationHours": 1.5,
	"address": "ул. Ленина, 1",
	"totalAmount": 2500
}`

func serve(t *testing.T, uc *stubUseCase, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &createBooking.Response{
		ID:             11,
		TechnicianID:   5,
		CustomerID:     100,
		ServiceID:      3,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(90 * time.Minute),
		BookingDate:    start,
		DurationHours:  1.5,
		Status:         domain.StatusConfirmed,
		Address:        "ул. Ленина, 1",
		TotalAmount:    2500,
	}}

	rec := serve(t, uc, validBody, 100)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(100), uc.got.CustomerID)
	assert.Equal(t, int64(5), uc.got.TechnicianID)
	assert.True(t, uc.got.Start.Equal(start))
	require.NotNil(t, uc.got.DurationHours)
	assert.Equal(t, 1.5, *uc.got.DurationHours)

	var body BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(11), body.ID)
	assert.Equal(t, "confirmed", body.Status)
	assert.Equal(t, "2025-03-10T11:30:00Z", body.ScheduledEnd)
	assert.Equal(t, "2025-03-10", body.BookingDate)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "slot taken",
			err:        fmt.Errorf("%w: %s", createBooking.ErrSlotNotAvailable, domain.ReasonOverlap),
			wantStatus: http.StatusConflict,
			wantMsg:    msgSlotNotAvailable,
		},
		{name: "technician", err: createBooking.ErrTechnicianNotFound, wantStatus: http.StatusNotFound, wantMsg: msgTechnicianNotFound},
		{name: "past", err: createBooking.ErrStartInPast, wantStatus: http.StatusBadRequest, wantMsg: msgStartInPast},
		{name: "invalid", err: createBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidInput},
		{
			name:       "infrastructure",
			err:        fmt.Errorf("%w: lock technician day: timeout", createBooking.ErrInternal),
			wantStatus: http.StatusServiceUnavailable,
		},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &stubUseCase{err: tt.err}, validBody, 100)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantMsg != "" {
				var body handlers.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.wantMsg, body.Message)
			}
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	uc := &stubUseCase{}

	rec := serve(t, uc, `{"technicianId":`, 100)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, uc, `{"technicianId":5,"start":"10:00"}`, 100)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, uc, validBody, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Nil(t, uc.got)
}

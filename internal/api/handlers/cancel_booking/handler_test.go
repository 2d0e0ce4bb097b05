package cancel_booking

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-RepairBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-RepairBookingService/pkg/logger"
)

type stubService struct {
	calls  int
	gotID  int64
	gotReq *models.CancelBookingRequest
	err    error
}

func (s *stubService) Cancel(_ context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.calls++
	s.gotID = id
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{ID: id, Status: "cancelled"}, nil
}

func newRouter(svc *stubService) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/api/v1/bookings/{bookingId}/cancel", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)
	return r
}

func cancel(r *mux.Router, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, path, body)
	req.Header.Set(middleware.UserIDHeader, "7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_WithoutBody(t *testing.T) {
	svc := &stubService{}

	rec := cancel(newRouter(svc), "/api/v1/bookings/4/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(4), svc.gotID)
	assert.Equal(t, int64(7), svc.gotReq.UserID)
	assert.Nil(t, svc.gotReq.CancellationReason)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
}

func TestHandle_WithReason(t *testing.T) {
	svc := &stubService{}

	rec := cancel(newRouter(svc), "/api/v1/bookings/4/cancel", strings.NewReader(`{"cancellationReason":"передумал"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotReq.CancellationReason)
	assert.Equal(t, "передумал", *svc.gotReq.CancellationReason)
}

func TestHandle_BadRequests(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	rec := cancel(r, "/api/v1/bookings/abc/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = cancel(r, "/api/v1/bookings/4/cancel", strings.NewReader(`{"unknown":1}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, svc.calls)
}

func TestHandle_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"foreign booking", bookings.ErrAccessDenied, http.StatusForbidden},
		{"terminal state", bookings.ErrInvalidTransition, http.StatusConflict},
		{"reason too long", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"database down", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := cancel(newRouter(&stubService{err: tt.err}), "/api/v1/bookings/4/cancel", nil)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

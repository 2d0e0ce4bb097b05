package update_booking_status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	"github.com/m04kA/SMC-RepairBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-RepairBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-RepairBookingService/pkg/logger"
)

type stubService struct {
	gotID  int64
	gotReq *models.UpdateStatusRequest
	resp   *models.BookingResponse
	err    error
}

func (s *stubService) UpdateStatus(_ context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.gotID = id
	s.gotReq = req
	return s.resp, s.err
}

func newRouter(svc *stubService) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/api/v1/bookings/{bookingId}/status", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)
	return r
}

func patch(r *mux.Router, path, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &stubService{resp: &models.BookingResponse{ID: 9, Status: "in_progress"}}

	rec := patch(newRouter(svc), "/api/v1/bookings/9/status", `{"status":"in_progress"}`, "7")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(9), svc.gotID)
	assert.Equal(t, int64(7), svc.gotReq.UserID)
	assert.Equal(t, "in_progress", svc.gotReq.Status)

	var body models.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "in_progress", body.Status)
}

func TestHandle_TerminalStateConflict(t *testing.T) {
	transitionErr := &domain.InvalidTransitionError{From: domain.StatusCompleted, To: domain.StatusConfirmed}
	svc := &stubService{err: fmt.Errorf("%w: %w", bookings.ErrInvalidTransition, transitionErr)}

	rec := patch(newRouter(svc), "/api/v1/bookings/9/status", `{"status":"confirmed"}`, "7")
	require.Equal(t, http.StatusConflict, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "это бронирование больше нельзя изменить", body.Message)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "unknown status", err: bookings.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "not found", err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "stranger", err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "internal", err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := patch(newRouter(&stubService{err: tt.err}), "/api/v1/bookings/9/status", `{"status":"cancelled"}`, "7")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_RequestValidation(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	assert.Equal(t, http.StatusBadRequest, patch(r, "/api/v1/bookings/abc/status", `{"status":"cancelled"}`, "7").Code)
	assert.Equal(t, http.StatusBadRequest, patch(r, "/api/v1/bookings/9/status", `not json`, "7").Code)
	assert.Equal(t, http.StatusUnauthorized, patch(r, "/api/v1/bookings/9/status", `{"status":"cancelled"}`, "").Code)
	assert.Nil(t, svc.gotReq)
}

package get_technician_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RepairBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairBookingService/internal/service/bookings"
)

const (
	msgInvalidTechnicianID = "некорректный ID техника"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidParams       = "некорректные параметры запроса"
	msgForbidden           = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/technicians/{technicianId}/bookings
// Query params: date | from, to (YYYY-MM-DD), status, includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	technicianID, err := strconv.ParseInt(mux.Vars(r)["technicianId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /technicians/{id}/bookings - Invalid technician ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTechnicianID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /technicians/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(technicianID, userID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /technicians/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetTechnicianBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /technicians/{id}/bookings - Access denied: technician_id=%d, user_id=%d",
				technicianID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /technicians/{id}/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /technicians/{id}/bookings - Failed to get bookings: technician_id=%d, error=%v",
				technicianID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /technicians/{id}/bookings - Bookings retrieved successfully: technician_id=%d, count=%d",
		technicianID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}

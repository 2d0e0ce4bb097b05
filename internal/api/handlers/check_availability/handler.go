package check_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RepairBookingService/internal/api/handlers"
	checkAvailability "github.com/m04kA/SMC-RepairBookingService/internal/usecase/check_availability"
)

const (
	msgInvalidTechnicianID = "некорректный ID техника"
	msgMissingStart        = "время начала обязательно"
	msgInvalidParams       = "некорректные параметры запроса, start ожидается в формате RFC 3339"
	msgInvalidInput        = "некорректные параметры проверки"
	msgTechnicianNotFound  = "техник не найден"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/technicians/{technicianId}/availability
// Query params: start (required, RFC 3339), durationHours (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	technicianID, err := strconv.ParseInt(mux.Vars(r)["technicianId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /technicians/{id}/availability - Invalid technician ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTechnicianID)
		return
	}

	startStr := r.URL.Query().Get("start")
	if startStr == "" {
		h.logger.Warn("GET /technicians/{id}/availability - Missing start")
		handlers.RespondBadRequest(w, msgMissingStart)
		return
	}

	useCaseReq, err := ToUseCaseRequest(technicianID, startStr, r.URL.Query().Get("durationHours"))
	if err != nil {
		h.logger.Warn("GET /technicians/{id}/availability - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Check(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrTechnicianNotFound):
			h.logger.Warn("GET /technicians/{id}/availability - Technician not found: technician_id=%d", technicianID)
			handlers.RespondNotFound(w, msgTechnicianNotFound)

		case errors.Is(err, checkAvailability.ErrInvalidInput):
			h.logger.Warn("GET /technicians/{id}/availability - Invalid input: technician_id=%d, error=%v", technicianID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, checkAvailability.ErrInfrastructure):
			h.logger.Error("GET /technicians/{id}/availability - Check failed: technician_id=%d, error=%v", technicianID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /technicians/{id}/availability - Unexpected error: technician_id=%d, error=%v", technicianID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /technicians/{id}/availability - technician_id=%d, start=%s, bookable=%t, reason=%s",
		technicianID, startStr, result.Bookable, result.Reason)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

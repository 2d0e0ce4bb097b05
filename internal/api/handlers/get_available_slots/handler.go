package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RepairBookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-RepairBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidTechnicianID = "некорректный ID техника"
	msgMissingDate         = "дата обязательна"
	msgInvalidParams       = "некорректные параметры запроса, дата ожидается в формате YYYY-MM-DD"
	msgDateInPast          = "дата в прошлом"
	msgInvalidInput        = "некорректные параметры запроса"
	msgTechnicianNotFound  = "техник не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/technicians/{technicianId}/available-slots
// Query params: date (required, YYYY-MM-DD), durationHours (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	technicianID, err := strconv.ParseInt(mux.Vars(r)["technicianId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /technicians/{id}/available-slots - Invalid technician ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTechnicianID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /technicians/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(technicianID, dateStr, r.URL.Query().Get("durationHours"))
	if err != nil {
		h.logger.Warn("GET /technicians/{id}/available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTechnicianNotFound):
			h.logger.Warn("GET /technicians/{id}/available-slots - Technician not found: technician_id=%d", technicianID)
			handlers.RespondNotFound(w, msgTechnicianNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /technicians/{id}/available-slots - Date in past: technician_id=%d, date=%s", technicianID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /technicians/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getAvailableSlots.ErrInternal):
			h.logger.Error("GET /technicians/{id}/available-slots - Failed to get slots: technician_id=%d, error=%v",
				technicianID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("GET /technicians/{id}/available-slots - Unexpected error: technician_id=%d, error=%v",
				technicianID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /technicians/{id}/available-slots - Slots retrieved: technician_id=%d, date=%s, slots_count=%d, reason=%s",
		technicianID, dateStr, len(result.Slots), result.Reason)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

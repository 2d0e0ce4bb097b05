package get_weekly_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RepairBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairBookingService/internal/service/schedule"
)

const (
	msgInvalidTechnicianID = "некорректный ID техника"
	msgTechnicianNotFound  = "техник не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/technicians/{technicianId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	technicianID, err := strconv.ParseInt(mux.Vars(r)["technicianId"], 10, 64)
	if err != nil || technicianID <= 0 {
		h.logger.Warn("GET /technicians/{id}/schedule - Invalid technician ID: %s", mux.Vars(r)["technicianId"])
		handlers.RespondBadRequest(w, msgInvalidTechnicianID)
		return
	}

	result, err := h.service.GetWeeklySchedule(r.Context(), technicianID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrTechnicianNotFound):
			h.logger.Warn("GET /technicians/{id}/schedule - Technician not found: technician_id=%d", technicianID)
			handlers.RespondNotFound(w, msgTechnicianNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidTechnicianID)

		default:
			h.logger.Error("GET /technicians/{id}/schedule - Failed to get schedule: technician_id=%d, error=%v",
				technicianID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /technicians/{id}/schedule - Schedule retrieved: technician_id=%d", technicianID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

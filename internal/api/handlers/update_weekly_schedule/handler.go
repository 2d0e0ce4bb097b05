package update_weekly_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RepairBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	"github.com/m04kA/SMC-RepairBookingService/internal/service/schedule"
)

const (
	msgInvalidTechnicianID = "некорректный ID техника"
	msgInvalidDay          = "некорректный день недели, ожидается monday..sunday"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTime         = "некорректный формат времени, ожидается HH:MM"
	msgInvalidHours        = "время начала должно быть раньше времени окончания"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgForbidden           = "доступ запрещен"
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

// Handle PUT /api/v1/technicians/{technicianId}/schedule/{day}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	technicianID, err := strconv.ParseInt(vars["technicianId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /technicians/{id}/schedule/{day} - Invalid technician ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTechnicianID)
		return
	}

	day, err := domain.ParseWeekday(vars["day"])
	if err != nil {
		h.logger.Warn("PUT /technicians/{id}/schedule/{day} - Invalid day: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDay)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /technicians/{id}/schedule/{day} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /technicians/{id}/schedule/{day} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(userID, technicianID, day)
	if err != nil {
		h.logger.Warn("PUT /technicians/{id}/schedule/{day} - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.UpsertDay(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /technicians/{id}/schedule/{day} - Access denied: technician_id=%d, user_id=%d",
				technicianID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrTechnicianNotFound):
			h.logger.Warn("PUT /technicians/{id}/schedule/{day} - Technician not found: technician_id=%d", technicianID)
			handlers.RespondNotFound(w, msgTechnicianNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /technicians/{id}/schedule/{day} - Invalid hours: %v", err)
			handlers.RespondBadRequest(w, msgInvalidHours)

		default:
			h.logger.Error("PUT /technicians/{id}/schedule/{day} - Failed to update schedule: technician_id=%d, error=%v",
				technicianID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /technicians/{id}/schedule/{day} - Schedule updated: technician_id=%d, day=%s, available=%t",
		technicianID, result.DayOfWeek, result.IsAvailable)
	handlers.RespondJSON(w, http.StatusOK, result)
}

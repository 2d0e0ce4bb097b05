package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RepairBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-RepairBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStart       = "некорректное время начала, ожидается RFC 3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgSlotNotAvailable   = "выбранный временной слот недоступен, пожалуйста, выберите другое время"
	msgTechnicianNotFound = "техник не найден"
	msgStartInPast        = "нельзя забронировать время в прошлом"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, technician_id=%d, error=%v",
				userID, req.TechnicianID, err)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrTechnicianNotFound):
			h.logger.Warn("POST /bookings - Technician not found: technician_id=%d", req.TechnicianID)
			handlers.RespondNotFound(w, msgTechnicianNotFound)

		case errors.Is(err, createBooking.ErrStartInPast):
			h.logger.Warn("POST /bookings - Start in past: user_id=%d, start=%s", userID, req.Start)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrInternal):
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, technician_id=%d, error=%v",
				userID, req.TechnicianID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /bookings - Unexpected error: user_id=%d, technician_id=%d, error=%v",
				userID, req.TechnicianID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, technician_id=%d",
		result.ID, userID, result.TechnicianID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

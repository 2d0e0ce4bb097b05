package update_weekly_schedule

import (
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/service/schedule/models"
	"github.com/m04kA/SMC-RepairBookingService/pkg/types"
)

// UpdateDayRequest HTTP request model
type UpdateDayRequest struct {
	IsAvailable bool   `json:"isAvailable"`
	StartTime   string `json:"startTime,omitempty"` // "09:00"
	EndTime     string `json:"endTime,omitempty"`   // "18:00"
}

// ToServiceRequest конвертирует HTTP request в модель сервиса.
// Для выходного дня время не парсится.
func (r *UpdateDayRequest) ToServiceRequest(userID, technicianID int64, day time.Weekday) (*models.UpsertDayRequest, error) {
	req := &models.UpsertDayRequest{
		UserID:       userID,
		TechnicianID: technicianID,
		DayOfWeek:    day,
		IsAvailable:  r.IsAvailable,
	}
	if !r.IsAvailable {
		return req, nil
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}
	req.StartTime = start
	req.EndTime = end

	return req, nil
}

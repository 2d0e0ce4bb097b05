package get_available_slots

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-RepairBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date          string          `json:"date"`
	TechnicianID  int64           `json:"technicianId"`
	DurationHours float64         `json:"durationHours"`
	StepMinutes   int             `json:"stepMinutes"`
	Reason        string          `json:"reason"`
	WorkingStart  *string         `json:"workingStart,omitempty"` // "09:00"
	WorkingEnd    *string         `json:"workingEnd,omitempty"`   // "17:00"
	Slots         []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"` // "10:30"
	Start     string `json:"start"`     // RFC 3339
	End       string `json:"end"`       // RFC 3339
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.Start.Format(domain.TimeFormat),
			Start:     slot.Start.Format(time.RFC3339),
			End:       slot.End.Format(time.RFC3339),
		}
	}

	result := &AvailableSlotsResponse{
		Date:          resp.Date.Format(domain.DateFormat),
		TechnicianID:  resp.TechnicianID,
		DurationHours: resp.DurationHours,
		StepMinutes:   resp.StepMinutes,
		Reason:        string(resp.Reason),
		Slots:         slots,
	}

	if resp.WorkingWindow != nil {
		start := resp.WorkingWindow.Start.Format(domain.TimeFormat)
		end := resp.WorkingWindow.End.Format(domain.TimeFormat)
		result.WorkingStart = &start
		result.WorkingEnd = &end
	}

	return result
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(technicianID int64, dateStr, durationStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	req := &getAvailableSlots.Request{
		TechnicianID: technicianID,
		Date:         date,
	}

	if durationStr != "" {
		hours, err := strconv.ParseFloat(durationStr, 64)
		if err != nil {
			return nil, fmt.Errorf("parse durationHours: %w", err)
		}
		if math.IsNaN(hours) || math.IsInf(hours, 0) {
			return nil, fmt.Errorf("parse durationHours: %q is not a finite number", durationStr)
		}
		req.DurationHours = &hours
	}

	return req, nil
}

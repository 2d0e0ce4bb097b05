package check_availability

import (
	"fmt"
	"math"
	"strconv"
	"time"

	checkAvailability "github.com/m04kA/SMC-RepairBookingService/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	TechnicianID  int64          `json:"technicianId"`
	Start         string         `json:"start"` // RFC 3339
	End           string         `json:"end"`   // RFC 3339
	DurationHours float64        `json:"durationHours"`
	Bookable      bool           `json:"bookable"`
	Reason        string         `json:"reason"`
	WorkingWindow *WorkingWindow `json:"workingWindow,omitempty"`
	ConflictIDs   []int64        `json:"conflictingBookingIds,omitempty"`
}

// WorkingWindow рабочие часы техника в день проверки
type WorkingWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(technicianID int64, startStr, durationStr string) (*checkAvailability.Request, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	req := &checkAvailability.Request{
		TechnicianID: technicianID,
		Start:        start,
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

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	result := &AvailabilityResponse{
		TechnicianID:  resp.TechnicianID,
		Start:         resp.Start.Format(time.RFC3339),
		End:           resp.End.Format(time.RFC3339),
		DurationHours: resp.DurationHours,
		Bookable:      resp.Bookable,
		Reason:        string(resp.Reason),
	}

	if resp.WorkingWindow != nil {
		result.WorkingWindow = &WorkingWindow{
			Start: resp.WorkingWindow.Start.Format(time.RFC3339),
			End:   resp.WorkingWindow.End.Format(time.RFC3339),
		}
	}

	for _, b := range resp.Conflicts {
		result.ConflictIDs = append(result.ConflictIDs, b.ID)
	}

	return result
}

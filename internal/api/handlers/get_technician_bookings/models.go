package get_technician_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	"github.com/m04kA/SMC-RepairBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задаёт один день, from/to задают период; date имеет приоритет.
func ToServiceRequest(technicianID, userID int64, query url.Values) (*models.GetTechnicianBookingsRequest, error) {
	req := &models.GetTechnicianBookingsRequest{
		UserID:       userID,
		TechnicianID: technicianID,
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		if fromStr := query.Get("from"); fromStr != "" {
			from, err := time.Parse(domain.DateFormat, fromStr)
			if err != nil {
				return nil, fmt.Errorf("invalid from: %w", err)
			}
			req.StartDate = &from
		}
		if toStr := query.Get("to"); toStr != "" {
			to, err := time.Parse(domain.DateFormat, toStr)
			if err != nil {
				return nil, fmt.Errorf("invalid to: %w", err)
			}
			req.EndDate = &to
		}
	}

	if includeStr := query.Get("includeCancelled"); includeStr != "" {
		include, err := strconv.ParseBool(includeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = include
	}

	return req, nil
}

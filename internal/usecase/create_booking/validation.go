package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.TechnicianID <= 0 {
		return fmt.Errorf("%w: technicianID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	if req.DurationHours != nil {
		if err := domain.ValidateDurationHours(*req.DurationHours); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	if strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.Address) > domain.MaxAddressLength {
		return fmt.Errorf("%w: address exceeds %d characters", ErrInvalidInput, domain.MaxAddressLength)
	}

	if req.TotalAmount < 0 {
		return fmt.Errorf("%w: totalAmount must not be negative", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateStart проверяет, что начало работ не в прошлом
func validateStart(start, now time.Time) error {
	if start.Before(now) {
		return fmt.Errorf("%w: start %s is before now %s",
			ErrStartInPast, start.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	return nil
}

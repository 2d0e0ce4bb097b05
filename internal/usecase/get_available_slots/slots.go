package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
)

// generateCandidates перебирает начала с шагом step от открытия смены.
// Кандидат попадает в список, только если весь интервал [start, start+duration) помещается в окно.
func generateCandidates(window domain.Slot, step time.Duration, durationHours float64) []domain.Slot {
	candidates := make([]domain.Slot, 0)
	if step <= 0 {
		return candidates
	}

	for start := window.Start; start.Before(window.End); start = start.Add(step) {
		slot := domain.NewSlot(start, durationHours)
		if slot.End.After(window.End) {
			break
		}
		candidates = append(candidates, slot)
	}

	return candidates
}

// selectAvailable оставляет кандидатов, которые не начинаются в прошлом
// и проходят ту же проверку доступности, что и создание бронирования
func selectAvailable(
	schedule *domain.WeeklySchedule,
	candidates []domain.Slot,
	bookings []*domain.Booking,
	now time.Time,
	fallbackDurationHours float64,
) ([]domain.Slot, error) {
	available := make([]domain.Slot, 0, len(candidates))

	for _, candidate := range candidates {
		if candidate.Start.Before(now) {
			continue
		}

		decision, err := domain.CheckAvailability(schedule, bookings, candidate, fallbackDurationHours)
		if err != nil {
			return nil, err
		}
		if decision.Bookable {
			available = append(available, candidate)
		}
	}

	return available, nil
}

package create_booking

import (
	"time"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
)

// resolveDay определяет действующую доступность на дату бронирования.
// Переопределение даты важнее набора правил, сервисное переопределение
// важнее общего.
func resolveDay(
	date time.Time,
	overrides []*domain.AvailabilityOverride,
	ruleSet *domain.AvailabilityRuleSet,
	serviceID int64,
) domain.DayAvailability {
	var general *domain.AvailabilityOverride

	for _, override := range overrides {
		if !isSameDay(override.Date, date) {
			continue
		}

		if override.ServiceID != nil && *override.ServiceID == serviceID {
			return override.DayAvailability()
		}

		if override.ServiceID == nil && general == nil {
			general = override
		}
	}

	if general != nil {
		return general.DayAvailability()
	}

	if ruleSet == nil {
		return domain.DayAvailability{Active: false}
	}

	day, ok := ruleSet.DayFor(date)
	if !ok {
		return domain.DayAvailability{Active: false}
	}

	return day
}

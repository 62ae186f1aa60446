package get_open_slots

import (
	"time"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
)

// resolveDay определяет действующую доступность на конкретную дату.
//
// Приоритет слоев:
//  1. Переопределение даты (сервисное важнее общего)
//  2. Набор правил, выбранный по иерархии (сервисный слой участвует только
//     при availabilityType = specific, это решается при загрузке набора)
//
// Отсутствие правил на день недели означает закрытый день, а не ошибку.
func resolveDay(
	date time.Time,
	overrides []*domain.AvailabilityOverride,
	ruleSet *domain.AvailabilityRuleSet,
	serviceID int64,
) domain.DayAvailability {
	if override := findOverrideForDate(date, overrides, serviceID); override != nil {
		return override.DayAvailability()
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

// findOverrideForDate ищет переопределение на дату.
// Переопределение конкретной услуги важнее общего переопределения специалиста.
func findOverrideForDate(
	date time.Time,
	overrides []*domain.AvailabilityOverride,
	serviceID int64,
) *domain.AvailabilityOverride {
	var general *domain.AvailabilityOverride

	for _, override := range overrides {
		if !isSameDay(override.Date, date) {
			continue
		}

		if override.ServiceID != nil && *override.ServiceID == serviceID {
			return override
		}

		if override.ServiceID == nil && general == nil {
			general = override
		}
	}

	return general
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

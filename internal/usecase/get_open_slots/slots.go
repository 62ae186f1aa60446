package get_open_slots

import (
	"time"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/pkg/types"
)

// generateDaySlots генерирует все слоты дня по разрешенной доступности.
// Слоты идут с шагом duration + interval внутри каждого рабочего окна;
// перерыв разбивает день на окна, поэтому слот никогда не пересекает перерыв
// и никогда не выходит за границы окна.
func generateDaySlots(day domain.DayAvailability, service *domain.Service) ([]types.TimeString, error) {
	windows := day.OpenWindows()
	if len(windows) == 0 {
		return []types.TimeString{}, nil
	}

	step := service.SlotStepMinutes()
	allSlots := make([]types.TimeString, 0)

	for _, window := range windows {
		currentSlot := window.Start

		for window.Contains(currentSlot, service.DurationMinutes) {
			allSlots = append(allSlots, currentSlot)

			next, err := currentSlot.AddMinutes(step)
			if err != nil {
				// Шаг вышел за пределы суток - окно исчерпано
				break
			}
			currentSlot = next
		}
	}

	return allSlots, nil
}

// filterDaySlots применяет к слотам дня все ограничения бронирования:
// лимит мест на слот, лимит на клиента и временную отсечку.
// Слоты с нулём свободных мест не возвращаются.
func filterDaySlots(
	date time.Time,
	slotStarts []types.TimeString,
	service *domain.Service,
	bookings []*domain.Booking,
	clientID int64,
	now time.Time,
) []Slot {
	cutoff := bookingCutoff(service, now)
	result := make([]Slot, 0, len(slotStarts))

	for _, slotStart := range slotStarts {
		slotEnd, err := slotStart.AddMinutes(service.DurationMinutes)
		if err != nil {
			continue
		}

		// Временная отсечка: прошедшие слоты и, при включенной
		// 24-часовой блокировке, слоты ближе суток
		startInstant, err := slotInstant(date, slotStart, now.Location())
		if err != nil {
			continue
		}
		if startInstant.Before(cutoff) {
			continue
		}

		occupied, clientOccupied := countOverlapping(date, slotStart, slotEnd, bookings, clientID)

		availableSpots := service.SimultaneousBookingsPerSlot - occupied
		if availableSpots <= 0 {
			continue
		}

		// Лимит одновременных бронирований клиента в этом интервале
		if clientOccupied >= service.SimultaneousBookingsPerUser {
			continue
		}

		result = append(result, Slot{
			StartTime:       slotStart,
			EndTime:         slotEnd,
			DurationMinutes: service.DurationMinutes,
			AvailableSpots:  availableSpots,
			TotalSpots:      service.SimultaneousBookingsPerSlot,
		})
	}

	return result
}

// countOverlapping подсчитывает активные бронирования, пересекающиеся со
// слотом, и отдельно - пересекающиеся бронирования самого клиента.
// Граничащие интервалы пересечением не считаются:
// - Слот 11:30-12:00, бронирование 11:20-11:40 → ЕСТЬ пересечение
// - Слот 11:30-12:00, бронирование 11:00-11:30 → НЕТ пересечения
func countOverlapping(
	date time.Time,
	slotStart, slotEnd types.TimeString,
	bookings []*domain.Booking,
	clientID int64,
) (occupied int, clientOccupied int) {
	for _, booking := range bookings {
		// Учитываем только активные бронирования на ту же дату
		if !booking.IsActive() || !isSameDay(booking.BookingDate, date) {
			continue
		}

		bookingEnd, err := booking.EndTime()
		if err != nil {
			continue
		}

		if !domain.Overlaps(booking.StartTime, bookingEnd, slotStart, slotEnd) {
			continue
		}

		occupied++
		if booking.ClientID == clientID {
			clientOccupied++
		}
	}

	return occupied, clientOccupied
}

// bookingCutoff возвращает самый ранний допустимый момент начала слота
func bookingCutoff(service *domain.Service, now time.Time) time.Time {
	if service.Block24Hours {
		return now.Add(domain.Block24HoursNoticeMinutes * time.Minute)
	}
	return now
}

// slotInstant переводит дату и время слота в абсолютный момент времени
func slotInstant(date time.Time, slotStart types.TimeString, loc *time.Location) (time.Time, error) {
	minutes, err := slotStart.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		minutes/60, minutes%60, 0, 0, loc,
	), nil
}

package create_booking

import (
	"fmt"
	"time"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(bookingDate time.Time, now time.Time) error {
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}
	return nil
}

// validateBookingTime проверяет временную отсечку: слот не должен начинаться
// в прошлом, а для услуг с 24-часовой блокировкой - ближе суток от текущего момента
func validateBookingTime(
	bookingDate time.Time,
	startTime types.TimeString,
	service *domain.Service,
	now time.Time,
) error {
	minutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: failed to parse start time: %v", ErrInternal, err)
	}

	startInstant := time.Date(
		bookingDate.Year(), bookingDate.Month(), bookingDate.Day(),
		minutes/60, minutes%60, 0, 0, now.Location(),
	)

	cutoff := now
	if service.Block24Hours {
		cutoff = now.Add(domain.Block24HoursNoticeMinutes * time.Minute)
	}

	if startInstant.Before(cutoff) {
		if service.Block24Hours {
			return fmt.Errorf("%w: must book at least 24 hours in advance", ErrTooLateToBook)
		}
		return fmt.Errorf("%w: slot start is in the past", ErrTooLateToBook)
	}

	return nil
}

// validateSlotOnGrid проверяет, что запрошенное время начала совпадает с
// одним из слотов, порождаемых расписанием дня. Произвольное время внутри
// рабочего окна бронированием не является.
func validateSlotOnGrid(day domain.DayAvailability, service *domain.Service, startTime types.TimeString) error {
	step := service.SlotStepMinutes()

	for _, window := range day.OpenWindows() {
		currentSlot := window.Start

		for window.Contains(currentSlot, service.DurationMinutes) {
			if currentSlot == startTime {
				return nil
			}

			next, err := currentSlot.AddMinutes(step)
			if err != nil {
				break
			}
			currentSlot = next
		}
	}

	return ErrSlotUnavailable
}

// countOverlappingBookings подсчитывает активные бронирования, пересекающиеся
// со слотом, и отдельно - пересекающиеся бронирования самого клиента.
// Граничащие интервалы пересечением не считаются.
func countOverlappingBookings(
	startTime types.TimeString,
	durationMinutes int,
	bookings []*domain.Booking,
	clientID int64,
) (occupied int, clientOccupied int, err error) {
	slotEnd, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return 0, 0, err
	}

	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}

		bookingEnd, err := booking.EndTime()
		if err != nil {
			continue
		}

		if !domain.Overlaps(booking.StartTime, bookingEnd, startTime, slotEnd) {
			continue
		}

		occupied++
		if booking.ClientID == clientID {
			clientOccupied++
		}
	}

	return occupied, clientOccupied, nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

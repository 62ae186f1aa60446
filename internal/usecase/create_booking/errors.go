package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("service not found")

	// ErrProfessionalNotFound возвращается, когда специалист не найден
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrProfessionalNotEligible возвращается, когда специалист не оказывает услугу
	ErrProfessionalNotEligible = errors.New("professional does not perform this service")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrTooLateToBook возвращается при нарушении временной отсечки
	ErrTooLateToBook = errors.New("too late to book this slot")

	// ErrSlotUnavailable возвращается, когда запрошенный слот недоступен:
	// вне расписания, занят до предела, исчерпан лимит клиента или
	// проигран в гонке за последнее место
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)

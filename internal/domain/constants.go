package domain

// Business validation constants
const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 480 // 8 hours
	MinIntervalMinutes = 0
	MaxIntervalMinutes = 240
	MinBookingsPerSlot = 1
	MaxBookingsPerSlot = 100
	MinBookingsPerUser = 1
	MaxBookingsPerUser = 20

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500

	// Block24HoursNoticeMinutes минимальный интервал до начала слота
	// для услуг с включенной 24-часовой блокировкой
	Block24HoursNoticeMinutes = 24 * 60
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, удерживающих место в слоте.
// Используются при подсчёте занятости слотов.
var ActiveStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusPendingApproval,
	StatusConfirmed,
}

// TerminalStatuses финальные статусы жизненного цикла бронирования
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ValidStatuses все допустимые статусы бронирования
var ValidStatuses = []BookingStatus{
	StatusPendingPayment,
	StatusPendingApproval,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

package domain

import (
	"time"

	"github.com/agendahub/AH-BookingEngine/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPendingPayment  BookingStatus = "pending_payment"
	StatusPendingApproval BookingStatus = "pending_approval"
	StatusConfirmed       BookingStatus = "confirmed"
	StatusCompleted       BookingStatus = "completed"
	StatusCancelled       BookingStatus = "cancelled"
	StatusNoShow          BookingStatus = "no_show"
)

// Booking represents an appointment in the system.
// Bookings are never deleted: they only move through the lifecycle
// until a terminal state, so history stays available for reporting.
type Booking struct {
	ID             int64
	CompanyID      int64
	ProfessionalID int64
	ServiceID      int64
	ClientID       int64

	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus

	// Denormalized service data for history
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still holds capacity on its slot
func (b *Booking) IsActive() bool {
	switch b.Status {
	case StatusPendingPayment, StatusPendingApproval, StatusConfirmed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the booking reached a final state
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return !b.IsTerminal()
}

// CanTransitionTo reports whether moving to the target status is a legal
// lifecycle transition.
//
// pending_payment -> pending_approval | confirmed | cancelled
// pending_approval -> confirmed | cancelled
// confirmed -> completed | no_show | cancelled
// terminal states allow no further transitions
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	switch b.Status {
	case StatusPendingPayment:
		return target == StatusPendingApproval || target == StatusConfirmed || target == StatusCancelled
	case StatusPendingApproval:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusCompleted || target == StatusNoShow || target == StatusCancelled
	default:
		return false
	}
}

// EndTime returns the end of the booked slot
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// SlotEndedBefore reports whether the booked slot had already ended
// at the given instant. Used to gate completed/no_show transitions.
func (b *Booking) SlotEndedBefore(now time.Time) bool {
	end, err := b.EndTime()
	if err != nil {
		return false
	}
	endMinutes, err := end.Minutes()
	if err != nil {
		return false
	}
	slotEnd := time.Date(
		b.BookingDate.Year(), b.BookingDate.Month(), b.BookingDate.Day(),
		endMinutes/60, endMinutes%60, 0, 0, now.Location(),
	)
	return slotEnd.Before(now)
}

// ProfessionalBookingsFilter фильтр для получения бронирований специалиста
type ProfessionalBookingsFilter struct {
	ProfessionalID  int64          // Обязательный параметр
	ServiceID       *int64         // Фильтр по услуге (опционально)
	ClientID        *int64         // Фильтр по клиенту (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли терминальные бронирования
}

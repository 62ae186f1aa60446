package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusPendingPayment, StatusPendingApproval, true},
		{StatusPendingPayment, StatusConfirmed, true},
		{StatusPendingPayment, StatusCancelled, true},
		{StatusPendingPayment, StatusCompleted, false},

		{StatusPendingApproval, StatusConfirmed, true},
		{StatusPendingApproval, StatusCancelled, true},
		{StatusPendingApproval, StatusPendingPayment, false},
		{StatusPendingApproval, StatusNoShow, false},

		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPendingApproval, false},

		// Терминальные статусы переходов не допускают
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusNoShow, StatusCompleted, false},
	}

	for _, tc := range cases {
		booking := &Booking{Status: tc.from}
		assert.Equal(t, tc.allowed, booking.CanTransitionTo(tc.to),
			"transition %s -> %s", tc.from, tc.to)
	}
}

func TestBooking_IsActive(t *testing.T) {
	active := []BookingStatus{StatusPendingPayment, StatusPendingApproval, StatusConfirmed}
	for _, status := range active {
		booking := &Booking{Status: status}
		assert.True(t, booking.IsActive(), "status %s must hold capacity", status)
	}

	terminal := []BookingStatus{StatusCompleted, StatusCancelled, StatusNoShow}
	for _, status := range terminal {
		booking := &Booking{Status: status}
		assert.False(t, booking.IsActive(), "status %s must not hold capacity", status)
		assert.True(t, booking.IsTerminal())
	}
}

func TestBooking_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPendingPayment}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusNoShow}).CanBeCancelled())
}

func TestBooking_SlotEndedBefore(t *testing.T) {
	booking := &Booking{
		BookingDate:     time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
	}

	// Слот заканчивается в 11:00
	assert.False(t, booking.SlotEndedBefore(time.Date(2026, 3, 16, 10, 30, 0, 0, time.UTC)))
	assert.False(t, booking.SlotEndedBefore(time.Date(2026, 3, 16, 11, 0, 0, 0, time.UTC)))
	assert.True(t, booking.SlotEndedBefore(time.Date(2026, 3, 16, 11, 1, 0, 0, time.UTC)))
	assert.True(t, booking.SlotEndedBefore(time.Date(2026, 3, 17, 9, 0, 0, 0, time.UTC)))
}

func TestBooking_EndTime(t *testing.T) {
	booking := &Booking{StartTime: "13:00", DurationMinutes: 90}
	end, err := booking.EndTime()
	assert.NoError(t, err)
	assert.Equal(t, "14:30", end.String())
}

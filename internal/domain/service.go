package domain

import "time"

// ConfirmationType determines how a reservation reaches the confirmed state
type ConfirmationType string

const (
	// ConfirmationAutomatic a successful reservation (and payment, when
	// required) confirms the booking without human action
	ConfirmationAutomatic ConfirmationType = "automatic"

	// ConfirmationManual the company or professional must approve each
	// reservation before it is confirmed
	ConfirmationManual ConfirmationType = "manual"
)

// AvailabilityType selects which rule layer wins for a service
type AvailabilityType string

const (
	// AvailabilityGeneral the professional's own rule set applies
	AvailabilityGeneral AvailabilityType = "general"

	// AvailabilitySpecific the service carries its own rule set that
	// overrides the professional's
	AvailabilitySpecific AvailabilityType = "specific"

	// AvailabilityInherited the company default applies unless the
	// professional defined an explicit rule set
	AvailabilityInherited AvailabilityType = "inherited"
)

// Service represents a bookable service policy record.
// The engine only reads these; administration writes go through the
// catalog service, which validates on write.
type Service struct {
	ID        int64
	CompanyID int64
	Name      string

	DurationMinutes             int
	IntervalBetweenSlotsMinutes int
	SimultaneousBookingsPerSlot int
	SimultaneousBookingsPerUser int
	Block24Hours                bool

	ConfirmationType ConfirmationType
	AvailabilityType AvailabilityType

	// BookingFee optional upfront payment. When set and positive the
	// reservation starts in pending_payment.
	BookingFee *float64

	// ProfessionalIDs professionals eligible to perform this service
	ProfessionalIDs []int64

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasBookingFee returns true if the service charges an upfront fee
func (s *Service) HasBookingFee() bool {
	return s.BookingFee != nil && *s.BookingFee > 0
}

// SlotStepMinutes returns the distance between consecutive slot starts
func (s *Service) SlotStepMinutes() int {
	return s.DurationMinutes + s.IntervalBetweenSlotsMinutes
}

// AllowsProfessional reports whether the professional is eligible for this service
func (s *Service) AllowsProfessional(professionalID int64) bool {
	for _, id := range s.ProfessionalIDs {
		if id == professionalID {
			return true
		}
	}
	return false
}

// Price returns the booking fee or zero when the service charges none
func (s *Service) Price() float64 {
	if s.BookingFee == nil {
		return 0
	}
	return *s.BookingFee
}

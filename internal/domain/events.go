package domain

import "time"

// NotificationEventType lifecycle event published to the message dispatcher
type NotificationEventType string

const (
	EventBookingCreated   NotificationEventType = "booking_created"
	EventBookingConfirmed NotificationEventType = "booking_confirmed"
	EventBookingCancelled NotificationEventType = "booking_cancelled"
	EventBookingCompleted NotificationEventType = "booking_completed"
	EventBookingNoShow    NotificationEventType = "booking_no_show"
	EventPaymentConfirmed NotificationEventType = "payment_confirmed"
)

// Recipient identifies who a notification is addressed to.
// Wire values follow the dispatcher contract.
type Recipient string

const (
	RecipientClient       Recipient = "cliente"
	RecipientProfessional Recipient = "profissional"
)

// NotificationChannel delivery channel requested from the dispatcher
type NotificationChannel string

const (
	ChannelWhatsApp NotificationChannel = "whatsapp"
	ChannelEmail    NotificationChannel = "email"
	ChannelSMS      NotificationChannel = "sms"
)

// NotificationEvent is the structured payload emitted on every booking
// state transition. The dispatcher turns it into a human-readable
// message; the engine only guarantees emission, never delivery.
type NotificationEvent struct {
	EventID   string                `json:"event_id"`
	Event     NotificationEventType `json:"event"`
	BookingID int64                 `json:"booking_id"`
	Recipient Recipient             `json:"recipient"`
	Channel   NotificationChannel   `json:"channel"`

	// Contextual fields for message generation
	ClientID       int64         `json:"client_id"`
	ProfessionalID int64         `json:"professional_id"`
	ServiceName    string        `json:"service_name"`
	BookingDate    time.Time     `json:"booking_date"`
	StartTime      string        `json:"start_time"`
	Status         BookingStatus `json:"status"`

	EmittedAt time.Time `json:"emitted_at"`
}

package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
)

// Emitter формирует и отправляет события жизненного цикла бронирований.
// Отправка fire-and-forget: сбой доставки логируется, но никогда не
// откатывает переход статуса и не возвращается вызывающей стороне.
type Emitter struct {
	dispatcher     DispatcherClient
	defaultChannel domain.NotificationChannel
	timeout        time.Duration
	logger         Logger
}

// NewEmitter создает новый экземпляр эмиттера событий
func NewEmitter(
	dispatcher DispatcherClient,
	defaultChannel domain.NotificationChannel,
	timeout time.Duration,
	logger Logger,
) *Emitter {
	return &Emitter{
		dispatcher:     dispatcher,
		defaultChannel: defaultChannel,
		timeout:        timeout,
		logger:         logger,
	}
}

// Emit публикует событие для обоих получателей (клиента и специалиста).
// Выполняется асинхронно с собственным контекстом, чтобы завершение
// HTTP-запроса не обрывало отправку.
func (e *Emitter) Emit(eventType domain.NotificationEventType, booking *domain.Booking) {
	if booking == nil {
		return
	}

	recipients := []domain.Recipient{
		domain.RecipientClient,
		domain.RecipientProfessional,
	}

	now := time.Now()

	for _, recipient := range recipients {
		event := domain.NotificationEvent{
			EventID:   uuid.New().String(),
			Event:     eventType,
			BookingID: booking.ID,
			Recipient: recipient,
			Channel:   e.defaultChannel,

			ClientID:       booking.ClientID,
			ProfessionalID: booking.ProfessionalID,
			ServiceName:    booking.ServiceName,
			BookingDate:    booking.BookingDate,
			StartTime:      string(booking.StartTime),
			Status:         booking.Status,

			EmittedAt: now,
		}

		go e.dispatch(event)
	}
}

func (e *Emitter) dispatch(event domain.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	if err := e.dispatcher.Dispatch(ctx, event); err != nil {
		e.logger.Error("Emitter: failed to dispatch event=%s booking_id=%d recipient=%s event_id=%s: %v",
			event.Event, event.BookingID, event.Recipient, event.EventID, err)
		return
	}

	e.logger.Info("Emitter: dispatched event=%s booking_id=%d recipient=%s event_id=%s",
		event.Event, event.BookingID, event.Recipient, event.EventID)
}

package payment_confirmed

import (
	"context"

	"github.com/agendahub/AH-BookingEngine/internal/service/bookings/models"
)

// BookingService определяет интерфейс сервиса бронирований для обработки платежей
type BookingService interface {
	HandlePaymentConfirmed(ctx context.Context, bookingID int64) (*models.BookingResponse, error)
}

// Logger определяет интерфейс для логгера
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

package bookings

import (
	"context"
	"time"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByProfessionalWithFilter(ctx context.Context, filter domain.ProfessionalBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// CatalogRepository интерфейс репозитория политик услуг
type CatalogRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// EventEmitter интерфейс эмиттера событий жизненного цикла
type EventEmitter interface {
	Emit(eventType domain.NotificationEventType, booking *domain.Booking)
}

// Clock интерфейс источника текущего времени.
// Переходы completed/no_show зависят от "сейчас", поэтому время
// инжектируется и подменяется в тестах.
type Clock interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

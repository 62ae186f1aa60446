package events

import (
	"context"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
)

// DispatcherClient интерфейс клиента диспетчера уведомлений
type DispatcherClient interface {
	Dispatch(ctx context.Context, event domain.NotificationEvent) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

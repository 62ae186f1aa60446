package create_booking

import (
	"context"
	"time"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/internal/integrations/directoryservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// GetByProfessionalWithFilter внутри транзакции с фильтром на одну дату
	// блокирует строки FOR UPDATE
	GetByProfessionalWithFilter(ctx context.Context, filter domain.ProfessionalBookingsFilter) ([]*domain.Booking, error)
}

// RulesRepository интерфейс репозитория правил доступности
type RulesRepository interface {
	GetRuleSetWithHierarchy(ctx context.Context, companyID int64, professionalID *int64, serviceID *int64) (*domain.AvailabilityRuleSet, error)
	GetOverrides(ctx context.Context, professionalID int64, serviceID *int64, from, to time.Time) ([]*domain.AvailabilityOverride, error)
}

// CatalogRepository интерфейс репозитория политик услуг
type CatalogRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// DirectoryClient интерфейс клиента платформенного реестра
type DirectoryClient interface {
	GetProfessional(ctx context.Context, professionalID int64) (*directoryservice.Professional, error)
}

// PaymentsClient интерфейс клиента платёжной подсистемы
type PaymentsClient interface {
	RequiresPaymentWithGracefulDegradation(ctx context.Context, serviceID int64) (bool, error)
}

// EventEmitter интерфейс эмиттера событий жизненного цикла
type EventEmitter interface {
	Emit(eventType domain.NotificationEventType, booking *domain.Booking)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

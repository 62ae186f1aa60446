package availability

import (
	"context"
	"time"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/internal/integrations/directoryservice"
)

// RulesRepository интерфейс репозитория правил доступности
type RulesRepository interface {
	ReplaceRuleSet(ctx context.Context, ruleSet *domain.AvailabilityRuleSet) error
	GetRuleSet(ctx context.Context, scope domain.RuleScope) (*domain.AvailabilityRuleSet, error)
	UpsertOverride(ctx context.Context, override *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error)
	GetOverrides(ctx context.Context, professionalID int64, serviceID *int64, from, to time.Time) ([]*domain.AvailabilityOverride, error)
	DeleteOverride(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// DirectoryClient интерфейс клиента платформенного реестра
type DirectoryClient interface {
	GetCompany(ctx context.Context, companyID int64) (*directoryservice.Company, error)
	GetProfessional(ctx context.Context, professionalID int64) (*directoryservice.Professional, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package get_availability

import (
	"context"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/internal/service/availability/models"
)

// AvailabilityService определяет интерфейс сервиса правил доступности
type AvailabilityService interface {
	GetRuleSet(ctx context.Context, scope domain.RuleScope) (*models.RuleSetResponse, error)
}

// Logger определяет интерфейс для логгера
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

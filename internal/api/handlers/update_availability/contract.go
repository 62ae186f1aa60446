package update_availability

import (
	"context"

	"github.com/agendahub/AH-BookingEngine/internal/service/availability/models"
)

// AvailabilityService определяет интерфейс сервиса правил доступности
type AvailabilityService interface {
	ReplaceRuleSet(ctx context.Context, req *models.ReplaceRuleSetRequest) (*models.RuleSetResponse, error)
}

// Logger определяет интерфейс для логгера
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

package availability_overrides

import (
	"context"

	"github.com/agendahub/AH-BookingEngine/internal/service/availability/models"
)

// AvailabilityService определяет интерфейс сервиса правил доступности
type AvailabilityService interface {
	UpsertOverride(ctx context.Context, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error)
	GetOverrides(ctx context.Context, req *models.GetOverridesRequest) (*models.OverrideListResponse, error)
	DeleteOverride(ctx context.Context, id int64) error
}

// Logger определяет интерфейс для логгера
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

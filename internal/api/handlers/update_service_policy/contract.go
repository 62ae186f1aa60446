package update_service_policy

import (
	"context"

	"github.com/agendahub/AH-BookingEngine/internal/service/catalog/models"
)

// CatalogService определяет интерфейс сервиса политик услуг
type CatalogService interface {
	Upsert(ctx context.Context, req *models.UpsertServiceRequest) (*models.ServiceResponse, error)
}

// Logger определяет интерфейс для логгера
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

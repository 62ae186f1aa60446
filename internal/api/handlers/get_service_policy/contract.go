package get_service_policy

import (
	"context"

	"github.com/agendahub/AH-BookingEngine/internal/service/catalog/models"
)

// CatalogService определяет интерфейс сервиса политик услуг
type CatalogService interface {
	GetByID(ctx context.Context, id int64) (*models.ServiceResponse, error)
	GetByCompany(ctx context.Context, companyID int64) (*models.ServiceListResponse, error)
}

// Logger определяет интерфейс для логгера
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

package catalog

import (
	"context"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/internal/integrations/directoryservice"
)

// CatalogRepository интерфейс репозитория политик услуг
type CatalogRepository interface {
	Upsert(ctx context.Context, service *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	GetByCompany(ctx context.Context, companyID int64) ([]*domain.Service, error)
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

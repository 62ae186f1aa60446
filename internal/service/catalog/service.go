package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	catalogRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/catalog"
	directoryClient "github.com/agendahub/AH-BookingEngine/internal/integrations/directoryservice"
	"github.com/agendahub/AH-BookingEngine/internal/service/catalog/models"
)

// Service сервис администрирования политик услуг
type Service struct {
	catalogRepo CatalogRepository
	directory   DirectoryClient
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	catalogRepo CatalogRepository,
	directory DirectoryClient,
	logger Logger,
) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		directory:   directory,
		logger:      logger,
	}
}

// Upsert создает или обновляет политику услуги
// Проверяет существование компании и принадлежность всех специалистов компании
func (s *Service) Upsert(ctx context.Context, req *models.UpsertServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Upsert: upserting service id=%d for company=%d", req.ServiceID, req.CompanyID)

	// 1. Валидируем политику
	if err := s.validatePolicy(req); err != nil {
		s.logger.Warn("Upsert: validation failed for service id=%d: %v", req.ServiceID, err)
		return nil, err
	}

	// 2. Проверяем существование компании
	company, err := s.directory.GetCompany(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrCompanyNotFound) {
			s.logger.Warn("Upsert: company id=%d not found", req.CompanyID)
			return nil, ErrCompanyNotFound
		}
		s.logger.Error("Upsert: failed to get company id=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}
	if !company.IsActive {
		s.logger.Warn("Upsert: company id=%d is not active", req.CompanyID)
		return nil, ErrCompanyNotFound
	}

	// 3. Проверяем, что каждый специалист принадлежит компании
	for _, professionalID := range req.ProfessionalIDs {
		professional, err := s.directory.GetProfessional(ctx, professionalID)
		if err != nil {
			if errors.Is(err, directoryClient.ErrProfessionalNotFound) {
				s.logger.Warn("Upsert: professional id=%d not found", professionalID)
				return nil, ErrProfessionalNotFound
			}
			s.logger.Error("Upsert: failed to get professional id=%d: %v", professionalID, err)
			return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
		}
		if professional.CompanyID != req.CompanyID {
			s.logger.Warn("Upsert: professional id=%d does not belong to company id=%d", professionalID, req.CompanyID)
			return nil, ErrProfessionalNotFound
		}
	}

	// 4. Сохраняем политику
	saved, err := s.catalogRepo.Upsert(ctx, req.ToDomainService())
	if err != nil {
		s.logger.Error("Upsert: repository error for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully upserted service id=%d for company=%d", saved.ID, saved.CompanyID)
	return models.FromDomainService(saved), nil
}

// GetByID получает политику услуги по ID
// Публичный метод - доступен всем
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	s.logger.Info("GetByID: fetching service id=%d", id)

	service, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(service), nil
}

// GetByCompany получает все политики услуг компании
func (s *Service) GetByCompany(ctx context.Context, companyID int64) (*models.ServiceListResponse, error) {
	s.logger.Info("GetByCompany: fetching services for company=%d", companyID)

	services, err := s.catalogRepo.GetByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("GetByCompany: repository error for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: GetByCompany - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByCompany: successfully fetched %d services for company=%d", len(services), companyID)
	return models.FromDomainServiceList(services), nil
}

// validatePolicy проверяет бизнес-правила политики услуги
func (s *Service) validatePolicy(req *models.UpsertServiceRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidInput)
	}

	if req.DurationMinutes < domain.MinDurationMinutes || req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if req.IntervalBetweenSlotsMinutes < domain.MinIntervalMinutes || req.IntervalBetweenSlotsMinutes > domain.MaxIntervalMinutes {
		return fmt.Errorf("%w: interval must be between %d and %d minutes",
			ErrInvalidInput, domain.MinIntervalMinutes, domain.MaxIntervalMinutes)
	}

	if req.SimultaneousBookingsPerSlot < domain.MinBookingsPerSlot || req.SimultaneousBookingsPerSlot > domain.MaxBookingsPerSlot {
		return fmt.Errorf("%w: bookings per slot must be between %d and %d",
			ErrInvalidInput, domain.MinBookingsPerSlot, domain.MaxBookingsPerSlot)
	}

	if req.SimultaneousBookingsPerUser < domain.MinBookingsPerUser || req.SimultaneousBookingsPerUser > domain.MaxBookingsPerUser {
		return fmt.Errorf("%w: bookings per user must be between %d and %d",
			ErrInvalidInput, domain.MinBookingsPerUser, domain.MaxBookingsPerUser)
	}

	switch domain.ConfirmationType(req.ConfirmationType) {
	case domain.ConfirmationAutomatic, domain.ConfirmationManual:
	default:
		return fmt.Errorf("%w: confirmation type must be automatic or manual", ErrInvalidInput)
	}

	switch domain.AvailabilityType(req.AvailabilityType) {
	case domain.AvailabilityGeneral, domain.AvailabilitySpecific, domain.AvailabilityInherited:
	default:
		return fmt.Errorf("%w: availability type must be general, specific or inherited", ErrInvalidInput)
	}

	if req.BookingFee != nil && *req.BookingFee < 0 {
		return fmt.Errorf("%w: booking fee must not be negative", ErrInvalidInput)
	}

	return nil
}

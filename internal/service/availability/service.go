package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	rulesRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/rules"
	directoryClient "github.com/agendahub/AH-BookingEngine/internal/integrations/directoryservice"
	"github.com/agendahub/AH-BookingEngine/internal/service/availability/models"
)

// Service сервис администрирования правил доступности.
// Все инварианты правил проверяются здесь, при записи: резолвер и
// генератор слотов читают уже валидные данные и ничего молча не отбрасывают.
type Service struct {
	rulesRepo RulesRepository
	directory DirectoryClient
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	rulesRepo RulesRepository,
	directory DirectoryClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		rulesRepo: rulesRepo,
		directory: directory,
		txManager: txManager,
		logger:    logger,
	}
}

// ReplaceRuleSet полностью заменяет набор правил области
// Для слоя компании проверяет существование компании, для слоя специалиста -
// принадлежность специалиста компании
func (s *Service) ReplaceRuleSet(ctx context.Context, req *models.ReplaceRuleSetRequest) (*models.RuleSetResponse, error) {
	s.logger.Info("ReplaceRuleSet: replacing rules for company=%d, professional=%v, service=%v by user=%d",
		req.CompanyID, req.ProfessionalID, req.ServiceID, req.UserID)

	// 1. Конвертируем и валидируем набор правил
	ruleSet, err := req.ToDomainRuleSet()
	if err != nil {
		s.logger.Warn("ReplaceRuleSet: malformed rule set for company=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	if err := ruleSet.Validate(); err != nil {
		s.logger.Warn("ReplaceRuleSet: rule set validation failed for company=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	// Сервисный слой без специалиста не имеет смысла
	if req.ServiceID != nil && req.ProfessionalID == nil {
		s.logger.Warn("ReplaceRuleSet: serviceId without professionalId for company=%d", req.CompanyID)
		return nil, fmt.Errorf("%w: serviceId requires professionalId", ErrInvalidInput)
	}

	// 2. Проверяем существование компании и специалиста в реестре
	if err := s.checkScope(ctx, "ReplaceRuleSet", req.CompanyID, req.ProfessionalID); err != nil {
		return nil, err
	}

	// 3. Специалист управляет только собственным расписанием
	if req.ProfessionalID != nil && req.UserID != *req.ProfessionalID {
		s.logger.Warn("ReplaceRuleSet: access denied for user=%d to professional=%d rules", req.UserID, *req.ProfessionalID)
		return nil, ErrAccessDenied
	}

	// 4. Заменяем правила в транзакции: удаление и вставка фиксируются
	// вместе, читатели не видят область с частично записанным расписанием
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.rulesRepo.ReplaceRuleSet(txCtx, ruleSet)
	})
	if err != nil {
		s.logger.Error("ReplaceRuleSet: repository error for company=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: ReplaceRuleSet - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceRuleSet: successfully replaced rules for company=%d, professional=%v, service=%v",
		req.CompanyID, req.ProfessionalID, req.ServiceID)
	return models.FromDomainRuleSet(ruleSet), nil
}

// GetRuleSet читает сохранённый набор правил области
func (s *Service) GetRuleSet(ctx context.Context, scope domain.RuleScope) (*models.RuleSetResponse, error) {
	s.logger.Info("GetRuleSet: fetching rules for company=%d, professional=%v, service=%v",
		scope.CompanyID, scope.ProfessionalID, scope.ServiceID)

	ruleSet, err := s.rulesRepo.GetRuleSet(ctx, scope)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrRuleSetNotFound) {
			s.logger.Warn("GetRuleSet: rules not found for company=%d, professional=%v, service=%v",
				scope.CompanyID, scope.ProfessionalID, scope.ServiceID)
			return nil, ErrRuleSetNotFound
		}
		s.logger.Error("GetRuleSet: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetRuleSet - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRuleSet(ruleSet), nil
}

// UpsertOverride создает или заменяет переопределение даты
func (s *Service) UpsertOverride(ctx context.Context, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("UpsertOverride: upserting override for professional=%d, date=%s by user=%d",
		req.ProfessionalID, req.Date, req.UserID)

	// 1. Конвертируем и валидируем переопределение
	override, err := req.ToDomainOverride()
	if err != nil {
		s.logger.Warn("UpsertOverride: malformed override for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	if err := override.Validate(); err != nil {
		s.logger.Warn("UpsertOverride: override validation failed for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	// 2. Проверяем существование специалиста
	professionalID := req.ProfessionalID
	if err := s.checkScope(ctx, "UpsertOverride", req.CompanyID, &professionalID); err != nil {
		return nil, err
	}

	// 3. Специалист переопределяет только собственные даты
	if req.UserID != req.ProfessionalID {
		s.logger.Warn("UpsertOverride: access denied for user=%d to professional=%d overrides", req.UserID, req.ProfessionalID)
		return nil, ErrAccessDenied
	}

	// 4. Создаем или заменяем переопределение
	saved, err := s.rulesRepo.UpsertOverride(ctx, override)
	if err != nil {
		s.logger.Error("UpsertOverride: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: UpsertOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertOverride: successfully upserted override id=%d for professional=%d, date=%s",
		saved.ID, req.ProfessionalID, req.Date)
	return models.FromDomainOverride(saved), nil
}

// GetOverrides читает переопределения специалиста за период
func (s *Service) GetOverrides(ctx context.Context, req *models.GetOverridesRequest) (*models.OverrideListResponse, error) {
	s.logger.Info("GetOverrides: fetching overrides for professional=%d, period=%s to %s",
		req.ProfessionalID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	overrides, err := s.rulesRepo.GetOverrides(ctx, req.ProfessionalID, req.ServiceID, req.From, req.To)
	if err != nil {
		s.logger.Error("GetOverrides: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: GetOverrides - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetOverrides: successfully fetched %d overrides for professional=%d", len(overrides), req.ProfessionalID)
	return models.FromDomainOverrideList(overrides), nil
}

// DeleteOverride удаляет переопределение даты
func (s *Service) DeleteOverride(ctx context.Context, id int64) error {
	s.logger.Info("DeleteOverride: deleting override id=%d", id)

	if err := s.rulesRepo.DeleteOverride(ctx, id); err != nil {
		if errors.Is(err, rulesRepo.ErrOverrideNotFound) {
			s.logger.Warn("DeleteOverride: override id=%d not found", id)
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteOverride: repository error for override id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteOverride: successfully deleted override id=%d", id)
	return nil
}

// Вспомогательные методы

// checkScope проверяет существование компании и (опционально) принадлежность
// специалиста этой компании через платформенный реестр
func (s *Service) checkScope(ctx context.Context, op string, companyID int64, professionalID *int64) error {
	company, err := s.directory.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrCompanyNotFound) {
			s.logger.Warn("%s: company id=%d not found", op, companyID)
			return ErrCompanyNotFound
		}
		s.logger.Error("%s: failed to get company id=%d: %v", op, companyID, err)
		return fmt.Errorf("%w: %s - failed to get company: %v", ErrInternal, op, err)
	}

	if !company.IsActive {
		s.logger.Warn("%s: company id=%d is not active", op, companyID)
		return ErrCompanyNotFound
	}

	if professionalID == nil {
		return nil
	}

	professional, err := s.directory.GetProfessional(ctx, *professionalID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrProfessionalNotFound) {
			s.logger.Warn("%s: professional id=%d not found", op, *professionalID)
			return ErrProfessionalNotFound
		}
		s.logger.Error("%s: failed to get professional id=%d: %v", op, *professionalID, err)
		return fmt.Errorf("%w: %s - failed to get professional: %v", ErrInternal, op, err)
	}

	if professional.CompanyID != companyID {
		s.logger.Warn("%s: professional id=%d does not belong to company id=%d", op, *professionalID, companyID)
		return ErrProfessionalNotFound
	}

	return nil
}

package get_open_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	catalogRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/catalog"
	rulesRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/rules"
	directoryClient "github.com/agendahub/AH-BookingEngine/internal/integrations/directoryservice"
	"github.com/agendahub/AH-BookingEngine/pkg/ptr"
)

// UseCase use case расчёта открытых слотов специалиста на период.
// Чистый по данным: резолвер, генератор и фильтр зависят только от правил,
// активных бронирований и текущего времени, ничего не блокируют и не пишут.
type UseCase struct {
	bookingRepo  BookingRepository
	rulesRepo    RulesRepository
	catalogRepo  CatalogRepository
	directory    DirectoryClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	rulesRepo RulesRepository,
	catalogRepo CatalogRepository,
	directory DirectoryClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		rulesRepo:    rulesRepo,
		catalogRepo:  catalogRepo,
		directory:    directory,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case расчёта открытых слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetOpenSlots: client=%d, professional=%d, service=%d, period=%s to %s",
		req.ClientID, req.ProfessionalID, req.ServiceID,
		req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetOpenSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем политику услуги
	service, err := uc.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetOpenSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetOpenSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("GetOpenSlots: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Проверяем, что специалист оказывает эту услугу
	if !service.AllowsProfessional(req.ProfessionalID) {
		uc.logger.Warn("GetOpenSlots: professional id=%d does not perform service id=%d",
			req.ProfessionalID, req.ServiceID)
		return nil, ErrProfessionalNotEligible
	}

	// 5. Проверяем специалиста в реестре
	professional, err := uc.directory.GetProfessional(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrProfessionalNotFound) {
			uc.logger.Warn("GetOpenSlots: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("GetOpenSlots: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	if !professional.IsActive || professional.CompanyID != service.CompanyID {
		uc.logger.Warn("GetOpenSlots: professional id=%d is not active in company id=%d",
			req.ProfessionalID, service.CompanyID)
		return nil, ErrProfessionalNotFound
	}

	// 6. Загружаем набор правил по иерархии слоев.
	// Сервисный слой участвует только при availabilityType = specific.
	var ruleServiceID *int64
	if service.AvailabilityType == domain.AvailabilitySpecific {
		ruleServiceID = ptr.Ptr(req.ServiceID)
	}

	ruleSet, err := uc.rulesRepo.GetRuleSetWithHierarchy(ctx, service.CompanyID, ptr.Ptr(req.ProfessionalID), ruleServiceID)
	if err != nil && !errors.Is(err, rulesRepo.ErrRuleSetNotFound) {
		uc.logger.Error("GetOpenSlots: failed to get rule set: %v", err)
		return nil, fmt.Errorf("%w: failed to get rule set: %v", ErrInternal, err)
	}

	// Отсутствие правил означает закрытое расписание, а не ошибку
	if ruleSet == nil {
		uc.logger.Info("GetOpenSlots: no availability rules for professional=%d, company=%d",
			req.ProfessionalID, service.CompanyID)
	}

	// 7. Загружаем переопределения дат за период
	overrides, err := uc.rulesRepo.GetOverrides(ctx, req.ProfessionalID, ptr.Ptr(req.ServiceID), req.From, req.To)
	if err != nil {
		uc.logger.Error("GetOpenSlots: failed to get overrides: %v", err)
		return nil, fmt.Errorf("%w: failed to get overrides: %v", ErrInternal, err)
	}

	// 8. Загружаем активные бронирования специалиста за период
	filter := domain.ProfessionalBookingsFilter{
		ProfessionalID:  req.ProfessionalID,
		StartDate:       ptr.Ptr(req.From),
		EndDate:         ptr.Ptr(req.To),
		IncludeInactive: false,
	}

	bookings, err := uc.bookingRepo.GetByProfessionalWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetOpenSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 9. Для каждой даты периода: резолв → генерация → фильтрация
	days := make([]DaySlots, 0)
	totalSlots := 0

	for date := req.From; !date.After(req.To); date = date.AddDate(0, 0, 1) {
		day := resolveDay(date, overrides, ruleSet, req.ServiceID)

		slotStarts, err := generateDaySlots(day, service)
		if err != nil {
			uc.logger.Error("GetOpenSlots: failed to generate slots for %s: %v",
				date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
		}

		slots := filterDaySlots(date, slotStarts, service, bookings, req.ClientID, now)
		totalSlots += len(slots)

		days = append(days, DaySlots{
			Date:  date,
			Slots: slots,
		})
	}

	uc.logger.Info("GetOpenSlots: generated %d open slots for professional=%d, service=%d over %d days",
		totalSlots, req.ProfessionalID, req.ServiceID, len(days))

	return &Response{
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Days:           days,
	}, nil
}

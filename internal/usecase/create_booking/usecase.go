package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	catalogRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/catalog"
	rulesRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/rules"
	directoryClient "github.com/agendahub/AH-BookingEngine/internal/integrations/directoryservice"
	paymentsClient "github.com/agendahub/AH-BookingEngine/internal/integrations/payments"
	"github.com/agendahub/AH-BookingEngine/pkg/ptr"
	"github.com/agendahub/AH-BookingEngine/pkg/txmanager"
)

// UseCase use case резервирования слота.
// Проверка и вставка выполняются атомарно: сериализуемая транзакция
// перечитывает правила дня и блокирует строки занятости FOR UPDATE,
// поэтому из K конкурентных попыток на последнее место выигрывает ровно одна.
type UseCase struct {
	bookingRepo  BookingRepository
	rulesRepo    RulesRepository
	catalogRepo  CatalogRepository
	directory    DirectoryClient
	payments     PaymentsClient
	emitter      EventEmitter
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	rulesRepo RulesRepository,
	catalogRepo CatalogRepository,
	directory DirectoryClient,
	payments PaymentsClient,
	emitter EventEmitter,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		rulesRepo:    rulesRepo,
		catalogRepo:  catalogRepo,
		directory:    directory,
		payments:     payments,
		emitter:      emitter,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case резервирования слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, professional=%d, service=%d, date=%s, time=%s",
		req.ClientID, req.ProfessionalID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем политику услуги
	service, err := uc.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Проверяем, что специалист оказывает эту услугу
	if !service.AllowsProfessional(req.ProfessionalID) {
		uc.logger.Warn("CreateBooking: professional id=%d does not perform service id=%d",
			req.ProfessionalID, req.ServiceID)
		return nil, ErrProfessionalNotEligible
	}

	// 5. Проверяем специалиста в реестре
	professional, err := uc.directory.GetProfessional(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateBooking: professional id=%d not found", req.ProfessionalID)
			return nil, ErrProfessionalNotFound
		}
		uc.logger.Error("CreateBooking: failed to get professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	if !professional.IsActive || professional.CompanyID != service.CompanyID {
		uc.logger.Warn("CreateBooking: professional id=%d is not active in company id=%d",
			req.ProfessionalID, service.CompanyID)
		return nil, ErrProfessionalNotFound
	}

	// 6. Валидация даты и временной отсечки
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	if err := validateBookingTime(req.Date, req.StartTime, service, now); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	// 7. Определяем стартовый статус: предоплата важнее типа подтверждения
	initialStatus, err := uc.resolveInitialStatus(ctx, service)
	if err != nil {
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 8. Выполняем проверку и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Перечитываем набор правил внутри транзакции.
		// Сервисный слой участвует только при availabilityType = specific.
		var ruleServiceID *int64
		if service.AvailabilityType == domain.AvailabilitySpecific {
			ruleServiceID = ptr.Ptr(req.ServiceID)
		}

		ruleSet, err := uc.rulesRepo.GetRuleSetWithHierarchy(txCtx, service.CompanyID, ptr.Ptr(req.ProfessionalID), ruleServiceID)
		if err != nil && !errors.Is(err, rulesRepo.ErrRuleSetNotFound) {
			uc.logger.Error("CreateBooking: failed to get rule set: %v", err)
			return fmt.Errorf("%w: failed to get rule set: %v", ErrInternal, err)
		}

		// 8.2. Перечитываем переопределения даты
		overrides, err := uc.rulesRepo.GetOverrides(txCtx, req.ProfessionalID, ptr.Ptr(req.ServiceID), req.Date, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get overrides: %v", err)
			return fmt.Errorf("%w: failed to get overrides: %v", ErrInternal, err)
		}

		// 8.3. Резолвим день и проверяем, что запрошенный слот лежит на сетке
		day := resolveDay(req.Date, overrides, ruleSet, req.ServiceID)
		if !day.Active {
			uc.logger.Warn("CreateBooking: professional id=%d is closed on %s",
				req.ProfessionalID, req.Date.Format(domain.DateFormat))
			return ErrSlotUnavailable
		}

		if err := validateSlotOnGrid(day, service, req.StartTime); err != nil {
			uc.logger.Warn("CreateBooking: requested time %s is not a valid slot on %s",
				req.StartTime, req.Date.Format(domain.DateFormat))
			return err
		}

		// 8.4. Получаем активные бронирования специалиста на дату с блокировкой FOR UPDATE
		filter := domain.ProfessionalBookingsFilter{
			ProfessionalID:  req.ProfessionalID,
			StartDate:       &req.Date,
			EndDate:         &req.Date,
			IncludeInactive: false,
		}

		bookings, err := uc.bookingRepo.GetByProfessionalWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 8.5. Проверяем лимиты занятости
		occupied, clientOccupied, err := countOverlappingBookings(req.StartTime, service.DurationMinutes, bookings, req.ClientID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to count overlapping bookings: %v", ErrInternal, err)
		}

		// При SimultaneousBookingsPerSlot = 4 допустимо occupied = 0, 1, 2, 3
		if occupied >= service.SimultaneousBookingsPerSlot {
			uc.logger.Warn("CreateBooking: slot not available, %d/%d spots taken",
				occupied, service.SimultaneousBookingsPerSlot)
			return ErrSlotUnavailable
		}

		// Для клиента, исчерпавшего собственный лимит, слот недоступен
		// так же, как и заполненный: наружу уходит единый ErrSlotUnavailable
		if clientOccupied >= service.SimultaneousBookingsPerUser {
			uc.logger.Warn("CreateBooking: client id=%d reached limit %d for this slot",
				req.ClientID, service.SimultaneousBookingsPerUser)
			return ErrSlotUnavailable
		}

		uc.logger.Info("CreateBooking: slot available, %d/%d spots taken",
			occupied, service.SimultaneousBookingsPerSlot)

		// 8.6. Создаем бронирование с денормализацией данных услуги
		booking := &domain.Booking{
			CompanyID:       service.CompanyID,
			ProfessionalID:  req.ProfessionalID,
			ServiceID:       req.ServiceID,
			ClientID:        req.ClientID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          initialStatus,
			ServiceName:     service.Name,
			ServicePrice:    service.Price(),
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Проигранная сериализация - та же потеря гонки за слот
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("CreateBooking: serialization failure, slot lost to a concurrent booking")
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d with status=%s", result.ID, result.Status)

	// 9. Публикуем событие после фиксации транзакции
	uc.emitter.Emit(domain.EventBookingCreated, result)

	return &Response{
		ID:              result.ID,
		CompanyID:       result.CompanyID,
		ProfessionalID:  result.ProfessionalID,
		ServiceID:       result.ServiceID,
		ClientID:        result.ClientID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// resolveInitialStatus определяет стартовый статус бронирования.
// Предоплата переводит бронирование в pending_payment независимо от типа
// подтверждения; при недоступности платёжного сервиса решение принимается
// по локальному полю booking_fee услуги (graceful degradation).
func (uc *UseCase) resolveInitialStatus(ctx context.Context, service *domain.Service) (domain.BookingStatus, error) {
	requiresPayment, err := uc.payments.RequiresPaymentWithGracefulDegradation(ctx, service.ID)
	if err != nil {
		if errors.Is(err, paymentsClient.ErrServiceDegraded) {
			requiresPayment = service.HasBookingFee()
			uc.logger.Warn("CreateBooking: payments degraded, using local fee for service id=%d: requiresPayment=%v",
				service.ID, requiresPayment)
		} else {
			uc.logger.Error("CreateBooking: failed to check payment requirement for service id=%d: %v", service.ID, err)
			return "", fmt.Errorf("%w: failed to check payment requirement: %v", ErrInternal, err)
		}
	}

	if requiresPayment {
		return domain.StatusPendingPayment, nil
	}
	if service.ConfirmationType == domain.ConfirmationManual {
		return domain.StatusPendingApproval, nil
	}
	return domain.StatusConfirmed, nil
}

package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	bookingRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/booking"
	catalogRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/catalog"
	"github.com/agendahub/AH-BookingEngine/internal/service/bookings/models"
)

// Service сервис жизненного цикла бронирований.
// Все переходы статусов проходят через него: он проверяет права доступа,
// легальность перехода и публикует события после успешного изменения.
type Service struct {
	bookingRepo BookingRepository
	catalogRepo CatalogRepository
	emitter     EventEmitter
	clock       Clock
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	emitter EventEmitter,
	clock Clock,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		catalogRepo: catalogRepo,
		emitter:     emitter,
		clock:       clock,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - бронирование видят только его клиент и специалист
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProfessionalBookings получает расписание специалиста с гибкой фильтрацией
// Поддерживает фильтрацию по услуге, клиенту, периоду, статусу и включению
// терминальных бронирований. Доступно только самому специалисту.
//
// Примеры использования:
// - Все активные бронирования: GetProfessionalBookings(ctx, &GetProfessionalBookingsRequest{ProfessionalID: 123, UserID: 123})
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Только подтвержденные: указать Status = "confirmed"
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetProfessionalBookings(ctx context.Context, req *models.GetProfessionalBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetProfessionalBookings: fetching bookings for professional=%d, user=%d", req.ProfessionalID, req.UserID)
	if req.ServiceID != nil {
		logMsg += fmt.Sprintf(", service=%d", *req.ServiceID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	// Расписание видит только сам специалист
	if req.UserID != req.ProfessionalID {
		s.logger.Warn("GetProfessionalBookings: access denied for user=%d to professional=%d schedule", req.UserID, req.ProfessionalID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProfessionalBookings: invalid filter for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByProfessionalWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProfessionalBookings: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: GetProfessionalBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProfessionalBookings: successfully fetched %d bookings for professional=%d", len(bookings), req.ProfessionalID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Отменить могут клиент бронирования и его специалист.
// Повторная отмена идемпотентна: уже отменённое бронирование не меняется
// и ошибкой не считается.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return err
	}

	if err := s.checkUserAccess(booking, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
		return err
	}

	// Идемпотентность: повторная отмена - no-op
	if booking.IsCancelled() {
		s.logger.Info("Cancel: booking id=%d already cancelled, nothing to do", bookingID)
		return nil
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		// Конкурентная запись успела финализировать бронирование первой
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: booking id=%d was finalized concurrently", bookingID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCancelled
	booking.CancellationReason = &req.CancellationReason
	s.emitter.Emit(domain.EventBookingCancelled, booking)

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// Decision обрабатывает решение специалиста по заявке в статусе pending_approval
// Одобрение переводит бронирование в confirmed, отказ - в cancelled
func (s *Service) Decision(ctx context.Context, bookingID int64, req *models.DecisionRequest) (*models.BookingResponse, error) {
	s.logger.Info("Decision: processing decision approve=%v for booking id=%d by user=%d", req.Approve, bookingID, req.UserID)

	booking, err := s.getBooking(ctx, "Decision", bookingID)
	if err != nil {
		return nil, err
	}

	// Решение принимает только специалист бронирования
	if booking.ProfessionalID != req.UserID {
		s.logger.Warn("Decision: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return nil, ErrAccessDenied
	}

	if booking.Status != domain.StatusPendingApproval {
		s.logger.Warn("Decision: booking id=%d is not awaiting approval, status=%s", bookingID, booking.Status)
		return nil, ErrInvalidTransition
	}

	if req.Approve {
		return s.transition(ctx, "Decision", booking, domain.StatusConfirmed, domain.EventBookingConfirmed)
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, "recusado pelo profissional"); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Decision: booking id=%d was finalized concurrently", bookingID)
			return nil, ErrInvalidTransition
		}
		s.logger.Error("Decision: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Decision - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCancelled
	s.emitter.Emit(domain.EventBookingCancelled, booking)

	s.logger.Info("Decision: booking id=%d rejected by professional=%d", bookingID, req.UserID)
	return models.FromDomainBooking(booking), nil
}

// Complete отмечает подтверждённое бронирование выполненным
// Разрешено только специалисту бронирования и только после конца слота
func (s *Service) Complete(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%d by user=%d", bookingID, userID)
	return s.finishSlot(ctx, "Complete", bookingID, userID, domain.StatusCompleted, domain.EventBookingCompleted)
}

// MarkNoShow отмечает неявку клиента
// Разрешено только специалисту бронирования и только после конца слота
func (s *Service) MarkNoShow(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("MarkNoShow: marking no-show for booking id=%d by user=%d", bookingID, userID)
	return s.finishSlot(ctx, "MarkNoShow", bookingID, userID, domain.StatusNoShow, domain.EventBookingNoShow)
}

// HandlePaymentConfirmed обрабатывает callback платёжной подсистемы.
// Бронирование в pending_payment переходит в confirmed при автоматическом
// подтверждении услуги или в pending_approval при ручном.
func (s *Service) HandlePaymentConfirmed(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("HandlePaymentConfirmed: payment confirmed for booking id=%d", bookingID)

	booking, err := s.getBooking(ctx, "HandlePaymentConfirmed", bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.StatusPendingPayment {
		s.logger.Warn("HandlePaymentConfirmed: booking id=%d is not awaiting payment, status=%s", bookingID, booking.Status)
		return nil, ErrInvalidTransition
	}

	service, err := s.catalogRepo.GetByID(ctx, booking.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("HandlePaymentConfirmed: service id=%d not found for booking id=%d", booking.ServiceID, bookingID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("HandlePaymentConfirmed: repository error for service id=%d: %v", booking.ServiceID, err)
		return nil, fmt.Errorf("%w: HandlePaymentConfirmed - repository error: %v", ErrInternal, err)
	}

	s.emitter.Emit(domain.EventPaymentConfirmed, booking)

	// Ручное подтверждение услуги требует одобрения специалиста
	targetStatus := domain.StatusConfirmed
	targetEvent := domain.EventBookingConfirmed
	if service.ConfirmationType == domain.ConfirmationManual {
		targetStatus = domain.StatusPendingApproval
		targetEvent = domain.EventBookingCreated
	}

	return s.transition(ctx, "HandlePaymentConfirmed", booking, targetStatus, targetEvent)
}

// Вспомогательные методы

// getBooking получает бронирование и переводит ошибки репозитория на язык сервиса
func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// transition выполняет переход статуса с проверкой легальности и публикацией события
func (s *Service) transition(
	ctx context.Context,
	op string,
	booking *domain.Booking,
	target domain.BookingStatus,
	eventType domain.NotificationEventType,
) (*models.BookingResponse, error) {
	if !booking.CanTransitionTo(target) {
		s.logger.Warn("%s: illegal transition %s -> %s for booking id=%d", op, booking.Status, target, booking.ID)
		return nil, ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, target); err != nil {
		// Конкурентная запись успела финализировать бронирование первой
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("%s: booking id=%d was finalized concurrently", op, booking.ID)
			return nil, ErrInvalidTransition
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, booking.ID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	booking.Status = target
	s.emitter.Emit(eventType, booking)

	s.logger.Info("%s: booking id=%d moved to status=%s", op, booking.ID, target)
	return models.FromDomainBooking(booking), nil
}

// finishSlot общая логика для completed и no_show: только специалист
// бронирования, только из confirmed и только после конца слота
func (s *Service) finishSlot(
	ctx context.Context,
	op string,
	bookingID int64,
	userID int64,
	target domain.BookingStatus,
	eventType domain.NotificationEventType,
) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, op, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.ProfessionalID != userID {
		s.logger.Warn("%s: access denied for user=%d to booking id=%d", op, userID, bookingID)
		return nil, ErrAccessDenied
	}

	if booking.Status != domain.StatusConfirmed {
		s.logger.Warn("%s: booking id=%d is not confirmed, status=%s", op, bookingID, booking.Status)
		return nil, ErrInvalidTransition
	}

	if !booking.SlotEndedBefore(s.clock.Now()) {
		s.logger.Warn("%s: slot has not ended yet for booking id=%d", op, bookingID)
		return nil, ErrSlotNotEnded
	}

	return s.transition(ctx, op, booking, target, eventType)
}

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
// Бронирование видят его клиент и его специалист
func (s *Service) checkUserAccess(booking *domain.Booking, userID int64) error {
	if booking.ClientID == userID || booking.ProfessionalID == userID {
		return nil
	}
	return ErrAccessDenied
}

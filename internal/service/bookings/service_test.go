package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	bookingRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/booking"
	"github.com/agendahub/AH-BookingEngine/internal/service/bookings/models"
)

// Фейки зависимостей

type fakeBookingRepo struct {
	booking   *domain.Booking
	getErr    error
	statusLog []domain.BookingStatus
	cancelLog []string
	updateErr error
	cancelErr error
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) GetByClientID(_ context.Context, _ int64, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	return []*domain.Booking{f.booking}, nil
}

func (f *fakeBookingRepo) GetByProfessionalWithFilter(_ context.Context, _ domain.ProfessionalBookingsFilter) ([]*domain.Booking, error) {
	return []*domain.Booking{f.booking}, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statusLog = append(f.statusLog, status)
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, _ int64, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelLog = append(f.cancelLog, reason)
	return nil
}

type fakeCatalogRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return f.service, f.err
}

type recordingEmitter struct {
	events []domain.NotificationEventType
}

func (e *recordingEmitter) Emit(eventType domain.NotificationEventType, _ *domain.Booking) {
	e.events = append(e.events, eventType)
}

type fixedClock struct {
	now time.Time
}

func (f *fixedClock) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Окружение теста: бронирование клиента 1 у специалиста 7 на
// понедельник 2026-03-16 10:00-11:00

const (
	clientID       = int64(1)
	professionalID = int64(7)
	strangerID     = int64(42)
)

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              500,
		CompanyID:       10,
		ProfessionalID:  professionalID,
		ServiceID:       100,
		ClientID:        clientID,
		BookingDate:     time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          status,
	}
}

type testEnv struct {
	svc     *Service
	repo    *fakeBookingRepo
	catalog *fakeCatalogRepo
	emitter *recordingEmitter
	clock   *fixedClock
}

func newTestEnv(booking *domain.Booking) *testEnv {
	repo := &fakeBookingRepo{booking: booking}
	catalog := &fakeCatalogRepo{service: &domain.Service{
		ID:               100,
		ConfirmationType: domain.ConfirmationAutomatic,
	}}
	emitter := &recordingEmitter{}
	clock := &fixedClock{now: time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)}

	svc := NewService(repo, catalog, emitter, clock, nopLogger{})
	return &testEnv{svc: svc, repo: repo, catalog: catalog, emitter: emitter, clock: clock}
}

// Доступ

func TestGetByID_Access(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusConfirmed))

	_, err := env.svc.GetByID(context.Background(), 500, clientID)
	assert.NoError(t, err)

	_, err = env.svc.GetByID(context.Background(), 500, professionalID)
	assert.NoError(t, err)

	_, err = env.svc.GetByID(context.Background(), 500, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusConfirmed))
	env.repo.getErr = bookingRepo.ErrBookingNotFound

	_, err := env.svc.GetByID(context.Background(), 500, clientID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetProfessionalBookings_SelfOnly(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusConfirmed))

	_, err := env.svc.GetProfessionalBookings(context.Background(), &models.GetProfessionalBookingsRequest{
		UserID:         clientID,
		ProfessionalID: professionalID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := env.svc.GetProfessionalBookings(context.Background(), &models.GetProfessionalBookingsRequest{
		UserID:         professionalID,
		ProfessionalID: professionalID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}

// Отмена

func TestCancel_ByClient(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusConfirmed))

	err := env.svc.Cancel(context.Background(), 500, &models.CancelBookingRequest{
		UserID:             clientID,
		CancellationReason: "mudança de planos",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"mudança de planos"}, env.repo.cancelLog)
	assert.Equal(t, []domain.NotificationEventType{domain.EventBookingCancelled}, env.emitter.events)
}

func TestCancel_Idempotent(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusCancelled))

	err := env.svc.Cancel(context.Background(), 500, &models.CancelBookingRequest{
		UserID:             clientID,
		CancellationReason: "repeat",
	})
	require.NoError(t, err)

	// Повторная отмена ничего не пишет и события не публикует
	assert.Empty(t, env.repo.cancelLog)
	assert.Empty(t, env.emitter.events)
}

func TestCancel_TerminalRejected(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusCompleted))

	err := env.svc.Cancel(context.Background(), 500, &models.CancelBookingRequest{
		UserID:             clientID,
		CancellationReason: "too late",
	})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_StrangerRejected(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusConfirmed))

	err := env.svc.Cancel(context.Background(), 500, &models.CancelBookingRequest{
		UserID:             strangerID,
		CancellationReason: "intruso",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, env.repo.cancelLog)
}

func TestCancel_ConcurrentFinalizeRejected(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusConfirmed))
	// Между чтением и записью конкурентная запись финализировала бронирование
	env.repo.cancelErr = bookingRepo.ErrStatusConflict

	err := env.svc.Cancel(context.Background(), 500, &models.CancelBookingRequest{
		UserID:             clientID,
		CancellationReason: "tarde demais",
	})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, env.emitter.events)
}

// Решение специалиста

func TestDecision_Approve(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusPendingApproval))

	resp, err := env.svc.Decision(context.Background(), 500, &models.DecisionRequest{
		UserID:  professionalID,
		Approve: true,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, []domain.BookingStatus{domain.StatusConfirmed}, env.repo.statusLog)
	assert.Equal(t, []domain.NotificationEventType{domain.EventBookingConfirmed}, env.emitter.events)
}

func TestDecision_Reject(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusPendingApproval))

	resp, err := env.svc.Decision(context.Background(), 500, &models.DecisionRequest{
		UserID:  professionalID,
		Approve: false,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Len(t, env.repo.cancelLog, 1)
	assert.Equal(t, []domain.NotificationEventType{domain.EventBookingCancelled}, env.emitter.events)
}

func TestDecision_OnlyProfessional(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusPendingApproval))

	_, err := env.svc.Decision(context.Background(), 500, &models.DecisionRequest{
		UserID:  clientID,
		Approve: true,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestDecision_WrongStatus(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusConfirmed))

	_, err := env.svc.Decision(context.Background(), 500, &models.DecisionRequest{
		UserID:  professionalID,
		Approve: true,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDecision_ConcurrentFinalizeRejected(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusPendingApproval))
	// Статусная защита репозитория: запись проиграла конкурентному переходу
	env.repo.updateErr = bookingRepo.ErrStatusConflict

	_, err := env.svc.Decision(context.Background(), 500, &models.DecisionRequest{
		UserID:  professionalID,
		Approve: true,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, env.emitter.events)
}

// Завершение визита и неявка

func TestComplete_AfterSlotEnd(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusConfirmed))
	env.clock.now = time.Date(2026, 3, 16, 11, 30, 0, 0, time.UTC)

	resp, err := env.svc.Complete(context.Background(), 500, professionalID)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	assert.Equal(t, []domain.NotificationEventType{domain.EventBookingCompleted}, env.emitter.events)
}

func TestComplete_BeforeSlotEndRejected(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusConfirmed))
	env.clock.now = time.Date(2026, 3, 16, 10, 30, 0, 0, time.UTC)

	_, err := env.svc.Complete(context.Background(), 500, professionalID)
	assert.ErrorIs(t, err, ErrSlotNotEnded)
}

func TestMarkNoShow_AfterSlotEnd(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusConfirmed))
	env.clock.now = time.Date(2026, 3, 16, 11, 30, 0, 0, time.UTC)

	resp, err := env.svc.MarkNoShow(context.Background(), 500, professionalID)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusNoShow), resp.Status)
	assert.Equal(t, []domain.NotificationEventType{domain.EventBookingNoShow}, env.emitter.events)
}

func TestFinishSlot_OnlyProfessionalAndConfirmed(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusConfirmed))
	env.clock.now = time.Date(2026, 3, 16, 11, 30, 0, 0, time.UTC)

	_, err := env.svc.Complete(context.Background(), 500, clientID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	env = newTestEnv(testBooking(domain.StatusPendingApproval))
	env.clock.now = time.Date(2026, 3, 16, 11, 30, 0, 0, time.UTC)

	_, err = env.svc.Complete(context.Background(), 500, professionalID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// Платёжный колбэк

func TestHandlePaymentConfirmed_Automatic(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusPendingPayment))

	resp, err := env.svc.HandlePaymentConfirmed(context.Background(), 500)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t,
		[]domain.NotificationEventType{domain.EventPaymentConfirmed, domain.EventBookingConfirmed},
		env.emitter.events,
	)
}

func TestHandlePaymentConfirmed_Manual(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusPendingPayment))
	env.catalog.service.ConfirmationType = domain.ConfirmationManual

	resp, err := env.svc.HandlePaymentConfirmed(context.Background(), 500)
	require.NoError(t, err)

	// Ручное подтверждение: оплата переводит заявку на одобрение специалиста
	assert.Equal(t, string(domain.StatusPendingApproval), resp.Status)
	assert.Equal(t,
		[]domain.NotificationEventType{domain.EventPaymentConfirmed, domain.EventBookingCreated},
		env.emitter.events,
	)
}

func TestHandlePaymentConfirmed_WrongStatus(t *testing.T) {
	env := newTestEnv(testBooking(domain.StatusConfirmed))

	_, err := env.svc.HandlePaymentConfirmed(context.Background(), 500)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

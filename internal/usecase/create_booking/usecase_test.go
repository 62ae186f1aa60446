package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/internal/integrations/directoryservice"
	paymentsClient "github.com/agendahub/AH-BookingEngine/internal/integrations/payments"
	"github.com/agendahub/AH-BookingEngine/pkg/ptr"
	"github.com/agendahub/AH-BookingEngine/pkg/types"
)

// Фейки зависимостей

// memBookingRepo in-memory репозиторий бронирований. Потокобезопасен сам по
// себе; атомарность проверки-и-вставки обеспечивает фейковый tx manager.
type memBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings []*domain.Booking
}

func (r *memBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	saved := *booking
	saved.ID = r.nextID
	saved.CreatedAt = time.Now()
	saved.UpdatedAt = saved.CreatedAt
	r.bookings = append(r.bookings, &saved)
	return &saved, nil
}

func (r *memBookingRepo) GetByProfessionalWithFilter(_ context.Context, filter domain.ProfessionalBookingsFilter) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, booking := range r.bookings {
		if booking.ProfessionalID != filter.ProfessionalID {
			continue
		}
		if filter.StartDate != nil && booking.BookingDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && booking.BookingDate.After(*filter.EndDate) {
			continue
		}
		if !filter.IncludeInactive && !booking.IsActive() {
			continue
		}
		copied := *booking
		result = append(result, &copied)
	}
	return result, nil
}

type fakeRulesRepo struct {
	ruleSet   *domain.AvailabilityRuleSet
	overrides []*domain.AvailabilityOverride
}

func (f *fakeRulesRepo) GetRuleSetWithHierarchy(_ context.Context, _ int64, _ *int64, _ *int64) (*domain.AvailabilityRuleSet, error) {
	return f.ruleSet, nil
}

func (f *fakeRulesRepo) GetOverrides(_ context.Context, _ int64, _ *int64, _, _ time.Time) ([]*domain.AvailabilityOverride, error) {
	return f.overrides, nil
}

type fakeCatalogRepo struct {
	service *domain.Service
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return f.service, nil
}

type fakeDirectory struct {
	professional *directoryservice.Professional
}

func (f *fakeDirectory) GetProfessional(_ context.Context, _ int64) (*directoryservice.Professional, error) {
	return f.professional, nil
}

type fakePayments struct {
	requiresPayment bool
	err             error
}

func (f *fakePayments) RequiresPaymentWithGracefulDegradation(_ context.Context, _ int64) (bool, error) {
	return f.requiresPayment, f.err
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []domain.NotificationEventType
}

func (e *recordingEmitter) Emit(eventType domain.NotificationEventType, _ *domain.Booking) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, eventType)
}

// serialTxManager сериализует все транзакции глобальным мьютексом, имитируя
// сериализуемую изоляцию: проверка и вставка внутри fn атомарны.
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.DoSerializable(ctx, fn)
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

func (m *serialTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.DoSerializable(ctx, fn)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Окружение теста

func weekdaysNineToSix() *domain.AvailabilityRuleSet {
	day := domain.DayAvailability{
		Active:     true,
		StartTime:  "09:00",
		EndTime:    "18:00",
		BreakStart: ptr.Ptr(types.TimeString("12:00")),
		BreakEnd:   ptr.Ptr(types.TimeString("13:00")),
	}

	days := make(map[time.Weekday]domain.DayAvailability)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		days[wd] = day
	}

	return &domain.AvailabilityRuleSet{
		Scope: domain.RuleScope{CompanyID: 10},
		Days:  days,
	}
}

func hourService() *domain.Service {
	return &domain.Service{
		ID:                          100,
		CompanyID:                   10,
		Name:                        "Coloração",
		DurationMinutes:             60,
		IntervalBetweenSlotsMinutes: 0,
		SimultaneousBookingsPerSlot: 1,
		SimultaneousBookingsPerUser: 1,
		ConfirmationType:            domain.ConfirmationAutomatic,
		AvailabilityType:            domain.AvailabilityGeneral,
		ProfessionalIDs:             []int64{7},
		IsActive:                    true,
	}
}

type testEnv struct {
	uc       *UseCase
	bookings *memBookingRepo
	emitter  *recordingEmitter
	payments *fakePayments
}

func newTestEnv(service *domain.Service, now time.Time) *testEnv {
	bookings := &memBookingRepo{}
	emitter := &recordingEmitter{}
	payments := &fakePayments{}

	uc := NewUseCase(
		bookings,
		&fakeRulesRepo{ruleSet: weekdaysNineToSix()},
		&fakeCatalogRepo{service: service},
		&fakeDirectory{professional: &directoryservice.Professional{ID: 7, CompanyID: 10, IsActive: true}},
		payments,
		emitter,
		&serialTxManager{},
		nopLogger{},
	)
	uc.timeProvider = &fixedTime{now: now}

	return &testEnv{uc: uc, bookings: bookings, emitter: emitter, payments: payments}
}

func validRequest(clientID int64) *Request {
	return &Request{
		ClientID:       clientID,
		ProfessionalID: 7,
		ServiceID:      100,
		Date:           time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), // понедельник
		StartTime:      "10:00",
	}
}

var testNow = time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

func TestExecute_CreatesConfirmedBooking(t *testing.T) {
	env := newTestEnv(hourService(), testNow)

	resp, err := env.uc.Execute(context.Background(), validRequest(1))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, int64(10), resp.CompanyID)
	assert.Equal(t, "Coloração", resp.ServiceName)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, []domain.NotificationEventType{domain.EventBookingCreated}, env.emitter.events)
}

func TestExecute_InitialStatusMatrix(t *testing.T) {
	cases := []struct {
		name            string
		confirmation    domain.ConfirmationType
		requiresPayment bool
		want            domain.BookingStatus
	}{
		{"automatic without fee", domain.ConfirmationAutomatic, false, domain.StatusConfirmed},
		{"manual without fee", domain.ConfirmationManual, false, domain.StatusPendingApproval},
		{"automatic with fee", domain.ConfirmationAutomatic, true, domain.StatusPendingPayment},
		{"manual with fee", domain.ConfirmationManual, true, domain.StatusPendingPayment},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := hourService()
			service.ConfirmationType = tc.confirmation

			env := newTestEnv(service, testNow)
			env.payments.requiresPayment = tc.requiresPayment

			resp, err := env.uc.Execute(context.Background(), validRequest(1))
			require.NoError(t, err)
			assert.Equal(t, string(tc.want), resp.Status)
		})
	}
}

func TestExecute_PaymentsDegradedFallsBackToLocalFee(t *testing.T) {
	service := hourService()
	service.BookingFee = ptr.Ptr(50.0)

	env := newTestEnv(service, testNow)
	env.payments.err = paymentsClient.ErrServiceDegraded

	resp, err := env.uc.Execute(context.Background(), validRequest(1))
	require.NoError(t, err)

	// Платёжный сервис недоступен, но услуга несёт локальную предоплату
	assert.Equal(t, string(domain.StatusPendingPayment), resp.Status)
	assert.Equal(t, 50.0, resp.ServicePrice)
}

func TestExecute_OffGridTimeRejected(t *testing.T) {
	env := newTestEnv(hourService(), testNow)

	req := validRequest(1)
	req.StartTime = "10:30" // внутри окна, но не на сетке слотов

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_ClosedDayRejected(t *testing.T) {
	env := newTestEnv(hourService(), testNow)

	req := validRequest(1)
	req.Date = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) // воскресенье

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_PastDateRejected(t *testing.T) {
	env := newTestEnv(hourService(), testNow)

	req := validRequest(1)
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_24HourLockoutRejected(t *testing.T) {
	service := hourService()
	service.Block24Hours = true

	// Сейчас понедельник 09:30, бронирование на вторник 09:00 - ближе суток
	now := time.Date(2026, 3, 16, 9, 30, 0, 0, time.UTC)
	env := newTestEnv(service, now)

	req := validRequest(1)
	req.Date = time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	req.StartTime = "09:00"

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)

	// Слот на следующий день после отсечки проходит
	req.StartTime = "10:00"
	_, err = env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_SecondClientLosesFullSlot(t *testing.T) {
	env := newTestEnv(hourService(), testNow)

	_, err := env.uc.Execute(context.Background(), validRequest(1))
	require.NoError(t, err)

	_, err = env.uc.Execute(context.Background(), validRequest(2))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_UserLimitEnforced(t *testing.T) {
	service := hourService()
	service.SimultaneousBookingsPerSlot = 3

	env := newTestEnv(service, testNow)

	_, err := env.uc.Execute(context.Background(), validRequest(1))
	require.NoError(t, err)

	// Второе бронирование того же клиента на тот же интервал:
	// исчерпанный лимит клиента наружу выглядит как недоступный слот
	_, err = env.uc.Execute(context.Background(), validRequest(1))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Другой клиент занимает оставшиеся места
	_, err = env.uc.Execute(context.Background(), validRequest(2))
	assert.NoError(t, err)
}

func TestExecute_TouchingSlotsDoNotConflict(t *testing.T) {
	env := newTestEnv(hourService(), testNow)

	_, err := env.uc.Execute(context.Background(), validRequest(1))
	require.NoError(t, err)

	// Граничащий слот 11:00-12:00 не пересекается с занятым 10:00-11:00
	req := validRequest(2)
	req.StartTime = "11:00"
	_, err = env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_ConcurrentRequestsOneWinner(t *testing.T) {
	env := newTestEnv(hourService(), testNow)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.uc.Execute(context.Background(), validRequest(int64(i+1)))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		}
	}

	// Ровно одна из конкурентных попыток получает последнее место
	assert.Equal(t, 1, winners)
	assert.Len(t, env.bookings.bookings, 1)
}

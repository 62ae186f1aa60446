package get_open_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	catalogRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/catalog"
	"github.com/agendahub/AH-BookingEngine/internal/integrations/directoryservice"
	"github.com/agendahub/AH-BookingEngine/pkg/ptr"
	"github.com/agendahub/AH-BookingEngine/pkg/types"
)

// Фейки зависимостей

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) GetByProfessionalWithFilter(_ context.Context, _ domain.ProfessionalBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, f.err
}

type fakeRulesRepo struct {
	ruleSet   *domain.AvailabilityRuleSet
	overrides []*domain.AvailabilityOverride
	err       error
}

func (f *fakeRulesRepo) GetRuleSetWithHierarchy(_ context.Context, _ int64, _ *int64, _ *int64) (*domain.AvailabilityRuleSet, error) {
	return f.ruleSet, f.err
}

func (f *fakeRulesRepo) GetOverrides(_ context.Context, _ int64, _ *int64, _, _ time.Time) ([]*domain.AvailabilityOverride, error) {
	return f.overrides, nil
}

type fakeCatalogRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	return f.service, f.err
}

type fakeDirectory struct {
	professional *directoryservice.Professional
	err          error
}

func (f *fakeDirectory) GetProfessional(_ context.Context, _ int64) (*directoryservice.Professional, error) {
	return f.professional, f.err
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

// Окружение теста: услуга 60 минут без интервала, будни 09:00-18:00
// с перерывом 12:00-13:00

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

func newTestUseCase(
	bookings *fakeBookingRepo,
	rules *fakeRulesRepo,
	catalog *fakeCatalogRepo,
	directory *fakeDirectory,
	now time.Time,
) *UseCase {
	uc := NewUseCase(bookings, rules, catalog, directory, nopLogger{})
	uc.timeProvider = &fixedTime{now: now}
	return uc
}

func slotStarts(slots []Slot) []string {
	starts := make([]string, 0, len(slots))
	for _, slot := range slots {
		starts = append(starts, slot.StartTime.String())
	}
	return starts
}

func TestExecute_GeneratesGridAroundBreak(t *testing.T) {
	// Понедельник 2026-03-16, запрашиваем слоты за неделю до этого
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeRulesRepo{ruleSet: weekdaysNineToSix()},
		&fakeCatalogRepo{service: hourService()},
		&fakeDirectory{professional: &directoryservice.Professional{ID: 7, CompanyID: 10, IsActive: true}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	// 60-минутные слоты вокруг перерыва 12:00-13:00:
	// утро 09,10,11 и день 13,14,15,16,17
	assert.Equal(t,
		[]string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"},
		slotStarts(resp.Days[0].Slots),
	)
	for _, slot := range resp.Days[0].Slots {
		assert.Equal(t, 1, slot.AvailableSpots)
		assert.Equal(t, 1, slot.TotalSpots)
	}
}

func TestExecute_SlotStepIncludesInterval(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	service := hourService()
	service.DurationMinutes = 45
	service.IntervalBetweenSlotsMinutes = 15

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeRulesRepo{ruleSet: weekdaysNineToSix()},
		&fakeCatalogRepo{service: service},
		&fakeDirectory{professional: &directoryservice.Professional{ID: 7, CompanyID: 10, IsActive: true}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)

	// Шаг 45+15=60 минут, слот 45 минут: утро 09,10,11 (11:45 заканчивается
	// до перерыва), день 13..17 (17:45 до конца дня)
	assert.Equal(t,
		[]string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"},
		slotStarts(resp.Days[0].Slots),
	)
}

func TestExecute_OccupiedSlotHidden(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	// Чужое активное бронирование на 10:00 при лимите 1 место на слот
	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		{
			ClientID:        99,
			ProfessionalID:  7,
			BookingDate:     monday,
			StartTime:       "10:00",
			DurationMinutes: 60,
			Status:          domain.StatusConfirmed,
		},
	}}

	uc := newTestUseCase(
		bookings,
		&fakeRulesRepo{ruleSet: weekdaysNineToSix()},
		&fakeCatalogRepo{service: hourService()},
		&fakeDirectory{professional: &directoryservice.Professional{ID: 7, CompanyID: 10, IsActive: true}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)

	assert.NotContains(t, slotStarts(resp.Days[0].Slots), "10:00")
	assert.Contains(t, slotStarts(resp.Days[0].Slots), "09:00")
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		{
			ClientID:        99,
			ProfessionalID:  7,
			BookingDate:     monday,
			StartTime:       "10:00",
			DurationMinutes: 60,
			Status:          domain.StatusCancelled,
		},
	}}

	uc := newTestUseCase(
		bookings,
		&fakeRulesRepo{ruleSet: weekdaysNineToSix()},
		&fakeCatalogRepo{service: hourService()},
		&fakeDirectory{professional: &directoryservice.Professional{ID: 7, CompanyID: 10, IsActive: true}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)

	assert.Contains(t, slotStarts(resp.Days[0].Slots), "10:00")
}

func TestExecute_ClientLimitHidesSlot(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	// Два места на слот, но клиент 1 уже занимает одно из них
	service := hourService()
	service.SimultaneousBookingsPerSlot = 2

	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		{
			ClientID:        1,
			ProfessionalID:  7,
			BookingDate:     monday,
			StartTime:       "10:00",
			DurationMinutes: 60,
			Status:          domain.StatusConfirmed,
		},
	}}

	uc := newTestUseCase(
		bookings,
		&fakeRulesRepo{ruleSet: weekdaysNineToSix()},
		&fakeCatalogRepo{service: service},
		&fakeDirectory{professional: &directoryservice.Professional{ID: 7, CompanyID: 10, IsActive: true}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)

	// Для этого клиента слот скрыт, хотя место физически свободно
	assert.NotContains(t, slotStarts(resp.Days[0].Slots), "10:00")
}

func TestExecute_24HourLockout(t *testing.T) {
	// Сейчас понедельник 10:30, услуга с 24-часовой блокировкой:
	// слоты вторника до 10:30 недоступны
	monday := time.Date(2026, 3, 16, 10, 30, 0, 0, time.UTC)
	tuesday := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)

	service := hourService()
	service.Block24Hours = true

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeRulesRepo{ruleSet: weekdaysNineToSix()},
		&fakeCatalogRepo{service: service},
		&fakeDirectory{professional: &directoryservice.Professional{ID: 7, CompanyID: 10, IsActive: true}},
		monday,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           tuesday,
		To:             tuesday,
	})
	require.NoError(t, err)

	starts := slotStarts(resp.Days[0].Slots)
	assert.NotContains(t, starts, "09:00")
	assert.NotContains(t, starts, "10:00")
	assert.Contains(t, starts, "11:00")
}

func TestExecute_BlockedOverrideClosesDay(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	rules := &fakeRulesRepo{
		ruleSet: weekdaysNineToSix(),
		overrides: []*domain.AvailabilityOverride{
			{ProfessionalID: 7, Date: monday, Blocked: true},
		},
	}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		rules,
		&fakeCatalogRepo{service: hourService()},
		&fakeDirectory{professional: &directoryservice.Professional{ID: 7, CompanyID: 10, IsActive: true}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Days[0].Slots)
}

func TestExecute_ServiceOverrideBeatsGeneral(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	// Общее переопределение блокирует день, сервисное открывает короткое окно
	rules := &fakeRulesRepo{
		ruleSet: weekdaysNineToSix(),
		overrides: []*domain.AvailabilityOverride{
			{ProfessionalID: 7, Date: monday, Blocked: true},
			{
				ProfessionalID: 7,
				ServiceID:      ptr.Ptr(int64(100)),
				Date:           monday,
				Replacement:    &domain.DayAvailability{Active: true, StartTime: "14:00", EndTime: "16:00"},
			},
		},
	}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		rules,
		&fakeCatalogRepo{service: hourService()},
		&fakeDirectory{professional: &directoryservice.Professional{ID: 7, CompanyID: 10, IsActive: true}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00", "15:00"}, slotStarts(resp.Days[0].Slots))
}

func TestExecute_NoRulesMeansClosed(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeRulesRepo{ruleSet: nil},
		&fakeCatalogRepo{service: hourService()},
		&fakeDirectory{professional: &directoryservice.Professional{ID: 7, CompanyID: 10, IsActive: true}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           monday,
		To:             monday,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Days[0].Slots)
}

func TestExecute_InactiveServiceNotFound(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	service := hourService()
	service.IsActive = false

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeRulesRepo{},
		&fakeCatalogRepo{service: service},
		&fakeDirectory{professional: &directoryservice.Professional{ID: 7, CompanyID: 10, IsActive: true}},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           monday,
		To:             monday,
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_UnknownServiceNotFound(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeRulesRepo{},
		&fakeCatalogRepo{err: catalogRepo.ErrServiceNotFound},
		&fakeDirectory{},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           monday,
		To:             monday,
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_IneligibleProfessional(t *testing.T) {
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeRulesRepo{},
		&fakeCatalogRepo{service: hourService()},
		&fakeDirectory{professional: &directoryservice.Professional{ID: 8, CompanyID: 10, IsActive: true}},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 8, // not in service.ProfessionalIDs
		ServiceID:      100,
		From:           monday,
		To:             monday,
	})
	assert.ErrorIs(t, err, ErrProfessionalNotEligible)
}

func TestExecute_RangeValidation(t *testing.T) {
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	from := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeRulesRepo{},
		&fakeCatalogRepo{service: hourService()},
		&fakeDirectory{},
		now,
	)

	// to раньше from
	_, err := uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           from,
		To:             from.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	// Период длиннее максимума
	_, err = uc.Execute(context.Background(), &Request{
		ClientID:       1,
		ProfessionalID: 7,
		ServiceID:      100,
		From:           from,
		To:             from.AddDate(0, 0, maxRangeDays+1),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

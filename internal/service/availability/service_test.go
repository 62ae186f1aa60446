package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/internal/integrations/directoryservice"
	"github.com/agendahub/AH-BookingEngine/internal/service/availability/models"
	"github.com/agendahub/AH-BookingEngine/pkg/ptr"
)

// Фейки зависимостей

type txMarkerKey struct{}

// recordingTxManager помечает контекст, чтобы фейк репозитория мог
// проверить, что запись выполняется внутри транзакции
type recordingTxManager struct {
	doCalls int
}

func (m *recordingTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.doCalls++
	return fn(context.WithValue(ctx, txMarkerKey{}, true))
}

func (m *recordingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

func (m *recordingTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

type fakeRulesRepo struct {
	replaced      *domain.AvailabilityRuleSet
	replacedInTx  bool
	replaceErr    error
	replaceCalls  int
	savedOverride *domain.AvailabilityOverride
	deletedID     int64
	deleteErr     error
}

func (f *fakeRulesRepo) ReplaceRuleSet(ctx context.Context, ruleSet *domain.AvailabilityRuleSet) error {
	f.replaceCalls++
	f.replacedInTx, _ = ctx.Value(txMarkerKey{}).(bool)
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = ruleSet
	return nil
}

func (f *fakeRulesRepo) GetRuleSet(_ context.Context, _ domain.RuleScope) (*domain.AvailabilityRuleSet, error) {
	if f.replaced == nil {
		return nil, errors.New("not found")
	}
	return f.replaced, nil
}

func (f *fakeRulesRepo) UpsertOverride(_ context.Context, override *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	saved := *override
	saved.ID = 900
	f.savedOverride = &saved
	return &saved, nil
}

func (f *fakeRulesRepo) GetOverrides(_ context.Context, _ int64, _ *int64, _, _ time.Time) ([]*domain.AvailabilityOverride, error) {
	if f.savedOverride == nil {
		return nil, nil
	}
	return []*domain.AvailabilityOverride{f.savedOverride}, nil
}

func (f *fakeRulesRepo) DeleteOverride(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedID = id
	return nil
}

type fakeDirectory struct {
	company      *directoryservice.Company
	professional *directoryservice.Professional
}

func (f *fakeDirectory) GetCompany(_ context.Context, _ int64) (*directoryservice.Company, error) {
	if f.company == nil {
		return nil, directoryservice.ErrCompanyNotFound
	}
	return f.company, nil
}

func (f *fakeDirectory) GetProfessional(_ context.Context, _ int64) (*directoryservice.Professional, error) {
	if f.professional == nil {
		return nil, directoryservice.ErrProfessionalNotFound
	}
	return f.professional, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Окружение теста: компания 10, специалист 7

const (
	companyID      = int64(10)
	professionalID = int64(7)
)

func newTestService() (*Service, *fakeRulesRepo, *recordingTxManager) {
	repo := &fakeRulesRepo{}
	txMgr := &recordingTxManager{}
	directory := &fakeDirectory{
		company:      &directoryservice.Company{ID: companyID, Name: "Barber Lab", Timezone: "America/Sao_Paulo", IsActive: true},
		professional: &directoryservice.Professional{ID: professionalID, CompanyID: companyID, Name: "Ana", IsActive: true},
	}
	return NewService(repo, directory, txMgr, nopLogger{}), repo, txMgr
}

func mondayNineToSix() map[int]models.DayAvailabilityRequest {
	return map[int]models.DayAvailabilityRequest{
		1: {Active: true, StartTime: "09:00", EndTime: "18:00"},
	}
}

// Тесты ReplaceRuleSet

func TestReplaceRuleSet_RunsInsideTransaction(t *testing.T) {
	svc, repo, txMgr := newTestService()

	req := &models.ReplaceRuleSetRequest{
		UserID:         professionalID,
		CompanyID:      companyID,
		ProfessionalID: ptr.Ptr(professionalID),
		Days:           mondayNineToSix(),
	}

	resp, err := svc.ReplaceRuleSet(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp)

	// Удаление и вставка фиксируются одной транзакцией
	assert.Equal(t, 1, txMgr.doCalls)
	assert.Equal(t, 1, repo.replaceCalls)
	assert.True(t, repo.replacedInTx, "repository write must see the transactional context")
	require.NotNil(t, repo.replaced)
	assert.Equal(t, companyID, repo.replaced.Scope.CompanyID)
}

func TestReplaceRuleSet_RepositoryErrorRollsUpAsInternal(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.replaceErr = errors.New("connection reset")

	req := &models.ReplaceRuleSetRequest{
		UserID:         professionalID,
		CompanyID:      companyID,
		ProfessionalID: ptr.Ptr(professionalID),
		Days:           mondayNineToSix(),
	}

	_, err := svc.ReplaceRuleSet(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Nil(t, repo.replaced)
}

func TestReplaceRuleSet_ProfessionalLayerSelfOnly(t *testing.T) {
	svc, repo, txMgr := newTestService()

	req := &models.ReplaceRuleSetRequest{
		UserID:         int64(42),
		CompanyID:      companyID,
		ProfessionalID: ptr.Ptr(professionalID),
		Days:           mondayNineToSix(),
	}

	_, err := svc.ReplaceRuleSet(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, 0, txMgr.doCalls)
	assert.Equal(t, 0, repo.replaceCalls)
}

func TestReplaceRuleSet_ServiceLayerRequiresProfessional(t *testing.T) {
	svc, _, _ := newTestService()

	req := &models.ReplaceRuleSetRequest{
		UserID:    professionalID,
		CompanyID: companyID,
		ServiceID: ptr.Ptr(int64(100)),
		Days:      mondayNineToSix(),
	}

	_, err := svc.ReplaceRuleSet(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReplaceRuleSet_InvalidWindowRejectedBeforeWrite(t *testing.T) {
	svc, repo, _ := newTestService()

	req := &models.ReplaceRuleSetRequest{
		UserID:    professionalID,
		CompanyID: companyID,
		Days: map[int]models.DayAvailabilityRequest{
			1: {Active: true, StartTime: "18:00", EndTime: "09:00"},
		},
	}

	_, err := svc.ReplaceRuleSet(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRule)
	assert.Equal(t, 0, repo.replaceCalls)
}

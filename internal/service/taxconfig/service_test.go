package taxconfig

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/internal/service/taxconfig/models"
)

// --- Стабы зависимостей ---

type stubTaxRuleRepo struct {
	rules    []*domain.TaxRule
	listErr  error
	replaced []*domain.TaxRule
}

func (s *stubTaxRuleRepo) ListAll(_ context.Context) ([]*domain.TaxRule, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.rules, nil
}

func (s *stubTaxRuleRepo) ReplaceAll(_ context.Context, rules []*domain.TaxRule) ([]*domain.TaxRule, error) {
	result := make([]*domain.TaxRule, len(rules))
	for i, rule := range rules {
		r := *rule
		r.ID = int64(i + 1)
		r.Position = i + 1
		result[i] = &r
	}
	s.replaced = result
	return result, nil
}

type stubAdmins struct {
	admins map[int64]bool
}

func (s *stubAdmins) IsAdmin(userID int64) bool {
	return s.admins[userID]
}

type stubTxManager struct{}

func (s *stubTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *stubTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubLogger struct{}

func (s *stubLogger) Info(string, ...interface{})  {}
func (s *stubLogger) Warn(string, ...interface{})  {}
func (s *stubLogger) Error(string, ...interface{}) {}

// --- Вспомогательные конструкторы ---

const adminID int64 = 1

func newTestService(repo *stubTaxRuleRepo) *Service {
	return NewService(
		repo,
		&stubAdmins{admins: map[int64]bool{adminID: true}},
		&stubTxManager{},
		&stubLogger{},
	)
}

func gstInput(name string, pct float64) models.TaxRuleInput {
	return models.TaxRuleInput{
		Name:       name,
		Percentage: pct,
		IsEnabled:  true,
		AppliesTo:  domain.TaxScopeBooking,
	}
}

// --- Тесты ---

func TestList_ReturnsRulesInOrder(t *testing.T) {
	repo := &stubTaxRuleRepo{rules: []*domain.TaxRule{
		{ID: 1, Name: "CGST", Percentage: 9, IsEnabled: true, AppliesTo: domain.TaxScopeBooking, Position: 1},
		{ID: 2, Name: "SGST", Percentage: 9, IsEnabled: true, AppliesTo: domain.TaxScopeBooking, Position: 2},
	}}
	svc := newTestService(repo)

	resp, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, resp.Rules, 2)
	assert.Equal(t, "CGST", resp.Rules[0].Name)
	assert.Equal(t, "SGST", resp.Rules[1].Name)
}

func TestList_RepositoryError(t *testing.T) {
	svc := newTestService(&stubTaxRuleRepo{listErr: errors.New("connection refused")})

	_, err := svc.List(context.Background())

	assert.ErrorIs(t, err, ErrInternal)
}

func TestReplace_AdminReplacesConfiguration(t *testing.T) {
	repo := &stubTaxRuleRepo{}
	svc := newTestService(repo)

	resp, err := svc.Replace(context.Background(), &models.ReplaceRulesRequest{
		UserID: adminID,
		Rules: []models.TaxRuleInput{
			gstInput("GST", 18),
			gstInput("Cess", 1),
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Rules, 2)
	// Позиции следуют порядку списка
	assert.Equal(t, 1, resp.Rules[0].Position)
	assert.Equal(t, 2, resp.Rules[1].Position)
	assert.Len(t, repo.replaced, 2)
}

func TestReplace_NonAdminDenied(t *testing.T) {
	repo := &stubTaxRuleRepo{}
	svc := newTestService(repo)

	_, err := svc.Replace(context.Background(), &models.ReplaceRulesRequest{
		UserID: 99,
		Rules:  []models.TaxRuleInput{gstInput("GST", 18)},
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.replaced)
}

func TestReplace_EmptyListClearsConfiguration(t *testing.T) {
	// Пустой список валиден: налоги выключены полностью
	repo := &stubTaxRuleRepo{}
	svc := newTestService(repo)

	resp, err := svc.Replace(context.Background(), &models.ReplaceRulesRequest{
		UserID: adminID,
		Rules:  []models.TaxRuleInput{},
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Rules)
}

func TestReplace_DuplicateNamesAllowed(t *testing.T) {
	repo := &stubTaxRuleRepo{}
	svc := newTestService(repo)

	resp, err := svc.Replace(context.Background(), &models.ReplaceRulesRequest{
		UserID: adminID,
		Rules: []models.TaxRuleInput{
			gstInput("GST", 9),
			gstInput("GST", 9),
		},
	})

	require.NoError(t, err)
	assert.Len(t, resp.Rules, 2)
}

func TestReplace_ValidationErrors(t *testing.T) {
	svc := newTestService(&stubTaxRuleRepo{})

	tests := []struct {
		name string
		rule models.TaxRuleInput
	}{
		{"empty name", gstInput("", 18)},
		{"name too long", gstInput(strings.Repeat("x", domain.MaxTaxRuleNameLength+1), 18)},
		{"negative percentage", gstInput("GST", -1)},
		{"percentage above limit", gstInput("GST", float64(domain.MaxTaxPercentage)+1)},
		{"unknown scope", models.TaxRuleInput{Name: "GST", Percentage: 18, IsEnabled: true, AppliesTo: "subscription"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Replace(context.Background(), &models.ReplaceRulesRequest{
				UserID: adminID,
				Rules:  []models.TaxRuleInput{tt.rule},
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestReplace_DisabledRulesKeptInConfiguration(t *testing.T) {
	// Выключенное правило остаётся в конфигурации, но не применяется при расчёте
	repo := &stubTaxRuleRepo{}
	svc := newTestService(repo)

	disabled := gstInput("Seasonal levy", 2)
	disabled.IsEnabled = false

	resp, err := svc.Replace(context.Background(), &models.ReplaceRulesRequest{
		UserID: adminID,
		Rules:  []models.TaxRuleInput{gstInput("GST", 18), disabled},
	})

	require.NoError(t, err)
	require.Len(t, resp.Rules, 2)
	assert.False(t, resp.Rules[1].IsEnabled)
}

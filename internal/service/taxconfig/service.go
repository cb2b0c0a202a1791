package taxconfig

import (
	"context"
	"fmt"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/internal/service/taxconfig/models"
)

// Service сервис для работы с налоговой конфигурацией платформы
// Конфигурация глобальная: один упорядоченный список правил на весь маркетплейс
type Service struct {
	taxRuleRepo TaxRuleRepository
	admins      AdminChecker
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса налоговой конфигурации
func NewService(
	taxRuleRepo TaxRuleRepository,
	admins AdminChecker,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		taxRuleRepo: taxRuleRepo,
		admins:      admins,
		txManager:   txManager,
		logger:      logger,
	}
}

// List возвращает все налоговые правила в порядке применения
// Публичный метод - используется для показа разбивки до оплаты
func (s *Service) List(ctx context.Context) (*models.TaxRuleListResponse, error) {
	s.logger.Info("List: fetching tax rules")

	rules, err := s.taxRuleRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d tax rules", len(rules))
	return models.FromDomainRuleList(rules), nil
}

// Replace полностью заменяет налоговую конфигурацию платформы
// Доступно только администраторам
// Замена атомарна: старый список удаляется и новый вставляется в одной транзакции,
// параллельные чекауты видят либо старую, либо новую конфигурацию целиком
func (s *Service) Replace(ctx context.Context, req *models.ReplaceRulesRequest) (*models.TaxRuleListResponse, error) {
	s.logger.Info("Replace: replacing tax rules with %d entries by user=%d", len(req.Rules), req.UserID)

	// Проверяем права доступа (только администратор платформы)
	if !s.admins.IsAdmin(req.UserID) {
		s.logger.Warn("Replace: user=%d is not a platform admin", req.UserID)
		return nil, ErrAccessDenied
	}

	// Валидируем правила
	if err := s.validateRules(req.Rules); err != nil {
		s.logger.Warn("Replace: validation failed: %v", err)
		return nil, err
	}

	var replaced []*domain.TaxRule
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var txErr error
		replaced, txErr = s.taxRuleRepo.ReplaceAll(txCtx, req.ToDomainRules())
		return txErr
	})

	if err != nil {
		s.logger.Error("Replace: repository error: %v", err)
		return nil, fmt.Errorf("%w: Replace - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Replace: successfully replaced tax rules, %d entries active", len(replaced))
	return models.FromDomainRuleList(replaced), nil
}

// validateRules валидирует список налоговых правил
// Дубликаты имён допустимы: применяются оба правила независимо
func (s *Service) validateRules(rules []models.TaxRuleInput) error {
	for i, rule := range rules {
		if rule.Name == "" {
			return fmt.Errorf("%w: rule #%d: name is required", ErrInvalidInput, i+1)
		}
		if len(rule.Name) > domain.MaxTaxRuleNameLength {
			return fmt.Errorf("%w: rule #%d: name must be at most %d characters",
				ErrInvalidInput, i+1, domain.MaxTaxRuleNameLength)
		}
		if rule.Percentage < 0 || rule.Percentage > domain.MaxTaxPercentage {
			return fmt.Errorf("%w: rule #%d: percentage must be between 0 and %v",
				ErrInvalidInput, i+1, domain.MaxTaxPercentage)
		}
		if rule.AppliesTo != domain.TaxScopeBooking {
			return fmt.Errorf("%w: rule #%d: unknown scope %q", ErrInvalidInput, i+1, rule.AppliesTo)
		}
	}

	return nil
}

package taxconfig

import (
	"context"

	"github.com/m04kA/CWS-BookingService/internal/domain"
)

// TaxRuleRepository интерфейс репозитория налоговых правил
type TaxRuleRepository interface {
	ListAll(ctx context.Context) ([]*domain.TaxRule, error)
	ReplaceAll(ctx context.Context, rules []*domain.TaxRule) ([]*domain.TaxRule, error)
}

// AdminChecker проверяет, входит ли пользователь в список администраторов платформы
type AdminChecker interface {
	IsAdmin(userID int64) bool
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

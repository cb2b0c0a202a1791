package taxrule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/CWS-BookingService/pkg/psqlbuilder"
)

// taxRuleColumns полный список колонок таблицы tax_rules
var taxRuleColumns = []string{
	"id",
	"name",
	"percentage",
	"is_enabled",
	"applies_to",
	"position",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с налоговыми правилами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория налоговых правил
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListAll получает все налоговые правила в порядке конфигурации
// Порядок position определяет порядок строк в налоговой разбивке
func (r *Repository) ListAll(ctx context.Context) ([]*domain.TaxRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(taxRuleColumns...).
		From("tax_rules").
		OrderBy("position ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRules(rows)
}

// ListEnabledByScope получает включённые правила указанной области в порядке конфигурации
// Дубликаты имён не схлопываются - оба экземпляра участвуют в расчёте
func (r *Repository) ListEnabledByScope(ctx context.Context, scope string) ([]*domain.TaxRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(taxRuleColumns...).
		From("tax_rules").
		Where(squirrel.Eq{"is_enabled": true, "applies_to": scope}).
		OrderBy("position ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListEnabledByScope - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListEnabledByScope - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRules(rows)
}

// ReplaceAll заменяет всю конфигурацию налоговых правил
// Вызывается внутри транзакции сервисом конфигурации: позиция строки
// определяется порядком в переданном слайсе
func (r *Repository) ReplaceAll(ctx context.Context, rules []*domain.TaxRule) ([]*domain.TaxRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("tax_rules").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceAll - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceAll - execute delete: %v", ErrExecQuery, err)
	}

	result := make([]*domain.TaxRule, 0, len(rules))
	for i, rule := range rules {
		rule.Position = i + 1

		query, args, err := psqlbuilder.Insert("tax_rules").
			Columns("name", "percentage", "is_enabled", "applies_to", "position").
			Values(rule.Name, rule.Percentage, rule.IsEnabled, rule.AppliesTo, rule.Position).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("%w: ReplaceAll - build insert query: %v", ErrBuildQuery, err)
		}

		var createdAt, updatedAt sql.NullTime
		if err := executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ReplaceAll - execute insert: %v", ErrExecQuery, err)
		}

		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time
		result = append(result, rule)
	}

	return result, nil
}

// scanRules сканирует результаты запроса в слайс налоговых правил
func (r *Repository) scanRules(rows *sql.Rows) ([]*domain.TaxRule, error) {
	rules := make([]*domain.TaxRule, 0)

	for rows.Next() {
		var rule domain.TaxRule
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.Name,
			&rule.Percentage,
			&rule.IsEnabled,
			&rule.AppliesTo,
			&rule.Position,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanRules - scan row: %v", ErrScanRow, err)
		}

		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

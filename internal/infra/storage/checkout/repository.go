package checkout

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/CWS-BookingService/pkg/psqlbuilder"
)

// checkoutColumns полный список колонок таблицы checkouts
var checkoutColumns = []string{
	"id",
	"user_id",
	"space_id",
	"status",
	"subtotal",
	"tax_breakdown",
	"total_tax",
	"grand_total",
	"currency",
	"price_per_hour",
	"price_per_day",
	"payment_order_id",
	"payment_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с чекаутами
// Чекаут хранит рассчитанные суммы как единственный источник истины:
// страницы успеха и повторные просмотры читают сохранённый результат,
// а не пересчитывают его заново
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория чекаутов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый чекаут с сохранением налоговой разбивки
// Вызывается внутри сериализуемой транзакции создания чекаута
func (r *Repository) Create(ctx context.Context, checkout *domain.Checkout) (*domain.Checkout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	breakdown, err := json.Marshal(checkout.TaxBreakdown)
	if err != nil {
		return nil, fmt.Errorf("%w: Create: %v", ErrMarshalBreakdown, err)
	}

	query, args, err := psqlbuilder.Insert("checkouts").
		Columns(
			"user_id",
			"space_id",
			"status",
			"subtotal",
			"tax_breakdown",
			"total_tax",
			"grand_total",
			"currency",
			"price_per_hour",
			"price_per_day",
			"payment_order_id",
		).
		Values(
			checkout.UserID,
			checkout.SpaceID,
			checkout.Status,
			checkout.Subtotal,
			breakdown,
			checkout.TotalTax,
			checkout.GrandTotal,
			checkout.Currency,
			checkout.PricePerHour,
			checkout.PricePerDay,
			checkout.PaymentOrderID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&checkout.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	checkout.CreatedAt = createdAt.Time
	checkout.UpdatedAt = updatedAt.Time

	return checkout, nil
}

// GetByID получает чекаут по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Checkout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(checkoutColumns...).
		From("checkouts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	checkout, err := r.scanCheckout(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCheckoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan checkout: %v", ErrScanRow, err)
	}

	return checkout, nil
}

// GetByPaymentOrderID получает чекаут по идентификатору заказа платёжного шлюза
// Внутри транзакции блокирует строку (FOR UPDATE) - используется при
// подтверждении оплаты для идемпотентной обработки повторных уведомлений
func (r *Repository) GetByPaymentOrderID(ctx context.Context, orderID string) (*domain.Checkout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(checkoutColumns...).
		From("checkouts").
		Where(squirrel.Eq{"payment_order_id": orderID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPaymentOrderID - build select query: %v", ErrBuildQuery, err)
	}

	checkout, err := r.scanCheckout(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCheckoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPaymentOrderID - scan checkout: %v", ErrScanRow, err)
	}

	return checkout, nil
}

// MarkPaid переводит чекаут в paid и сохраняет идентификатор платежа
func (r *Repository) MarkPaid(ctx context.Context, id int64, paymentID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("checkouts").
		Set("status", domain.CheckoutPaid).
		Set("payment_id", paymentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.CheckoutPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCheckoutNotFound
	}

	return nil
}

// UpdateStatus обновляет статус чекаута
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.CheckoutStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("checkouts").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCheckoutNotFound
	}

	return nil
}

// GetPendingCreatedBefore получает неоплаченные чекауты старше cutoff
// Используется фоновой очисткой; внутри транзакции блокирует строки
func (r *Repository) GetPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Checkout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(checkoutColumns...).
		From("checkouts").
		Where(squirrel.Eq{"status": domain.CheckoutPending}).
		Where(squirrel.Lt{"created_at": cutoff}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPendingCreatedBefore - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPendingCreatedBefore - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	checkouts := make([]*domain.Checkout, 0)
	for rows.Next() {
		checkout, err := r.scanCheckout(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetPendingCreatedBefore - scan row: %v", ErrScanRow, err)
		}
		checkouts = append(checkouts, checkout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetPendingCreatedBefore - rows error: %v", ErrScanRow, err)
	}

	return checkouts, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanCheckout сканирует одну строку в чекаут
func (r *Repository) scanCheckout(row rowScanner) (*domain.Checkout, error) {
	var checkout domain.Checkout
	var breakdown []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&checkout.ID,
		&checkout.UserID,
		&checkout.SpaceID,
		&checkout.Status,
		&checkout.Subtotal,
		&breakdown,
		&checkout.TotalTax,
		&checkout.GrandTotal,
		&checkout.Currency,
		&checkout.PricePerHour,
		&checkout.PricePerDay,
		&checkout.PaymentOrderID,
		&checkout.PaymentID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &checkout.TaxBreakdown); err != nil {
			return nil, fmt.Errorf("unmarshal tax breakdown: %w", err)
		}
	}

	checkout.CreatedAt = createdAt.Time
	checkout.UpdatedAt = updatedAt.Time

	return &checkout, nil
}

package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/CWS-BookingService/pkg/psqlbuilder"
	"github.com/m04kA/CWS-BookingService/pkg/types"
)

// bookingColumns полный список колонок таблицы bookings
var bookingColumns = []string{
	"id",
	"checkout_id",
	"user_id",
	"space_id",
	"booking_date",
	"booking_type",
	"start_time",
	"end_time",
	"seats",
	"billable_hours",
	"line_total",
	"status",
	"redemption_code",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// При создании чекаута всегда вызывается внутри сериализуемой транзакции вместе
// с проверкой доступности мест - частичная запись мульти-датного чекаута невозможна.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"checkout_id",
			"user_id",
			"space_id",
			"booking_date",
			"booking_type",
			"start_time",
			"end_time",
			"seats",
			"billable_hours",
			"line_total",
			"status",
		).
		Values(
			booking.CheckoutID,
			booking.UserID,
			booking.SpaceID,
			booking.BookingDate,
			booking.BookingType,
			booking.StartTime,
			booking.EndTime,
			booking.Seats,
			booking.BillableHours,
			booking.LineTotal,
			booking.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByRedemptionCode получает бронирование по коду погашения
func (r *Repository) GetByRedemptionCode(ctx context.Context, code string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"redemption_code": code}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByRedemptionCode - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByRedemptionCode - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByCheckoutID получает все бронирования чекаута в порядке дат
func (r *Repository) GetByCheckoutID(ctx context.Context, checkoutID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"checkout_id": checkoutID}).
		OrderBy("booking_date ASC, id ASC")

	// Внутри транзакции блокируем строки чекаута для подтверждения оплаты
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCheckoutID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCheckoutID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC, start_time DESC NULLS LAST")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetBySpaceWithFilter получает бронирования пространства с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению неактивных бронирований.
// Внутри транзакции для запроса на конкретную дату добавляет FOR UPDATE -
// используется при проверке доступности мест в чекауте для защиты от гонок.
func (r *Repository) GetBySpaceWithFilter(ctx context.Context, filter domain.SpaceBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"space_id": filter.SpaceID})

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		// Если не указан конкретный статус и не нужны неактивные - исключаем их
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings})
	}

	// Для конкретной даты сортируем по времени начала, для периода - сначала новые
	singleDate := filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate)
	if singleDate {
		selectBuilder = selectBuilder.OrderBy("start_time ASC NULLS FIRST")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC NULLS LAST")
	}

	// Если используется транзакция, добавляем FOR UPDATE для блокировки
	// (только для конкретной даты - для проверки доступности мест в чекауте)
	if dbmetrics.IsInTransaction(ctx) && singleDate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySpaceWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySpaceWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// ConfirmWithCode переводит бронирование в confirmed и сохраняет код погашения
// Вызывается внутри транзакции подтверждения оплаты
func (r *Repository) ConfirmWithCode(ctx context.Context, id int64, code string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusConfirmed).
		Set("redemption_code", code).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ConfirmWithCode - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return fmt.Errorf("%w: ConfirmWithCode - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ConfirmWithCode - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Redeem переводит подтверждённое бронирование в redeemed.
// Статус проверяется в WHERE: redeemed терминален, и два конкурентных
// погашения одного кода не могут пройти оба. При несовпадении статуса
// возвращает ErrStatusConflict
func (r *Repository) Redeem(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusRedeemed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Redeem - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Redeem - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Redeem - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// Cancel отменяет бронирование с указанием причины.
// Отменить можно только активное бронирование (pending или confirmed) -
// статус входит в WHERE, чтобы не перезаписать терминальный статус,
// выставленный конкурентным запросом между чтением и отменой
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": []domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// ExpirePendingByCheckoutID переводит все pending бронирования чекаута в expired
// Используется фоновой очисткой просроченных чекаутов
func (r *Repository) ExpirePendingByCheckoutID(ctx context.Context, checkoutID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"checkout_id": checkoutID, "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ExpirePendingByCheckoutID - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ExpirePendingByCheckoutID - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в бронирование
func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var startTime, endTime sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CheckoutID,
		&booking.UserID,
		&booking.SpaceID,
		&booking.BookingDate,
		&booking.BookingType,
		&startTime,
		&endTime,
		&booking.Seats,
		&booking.BillableHours,
		&booking.LineTotal,
		&booking.Status,
		&booking.RedemptionCode,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	if startTime.Valid {
		booking.StartTime = truncateTime(startTime.String)
	}
	if endTime.Valid {
		booking.EndTime = truncateTime(endTime.String)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// truncateTime обрезает секунды у времени из колонки TIME ("10:00:00" -> "10:00")
func truncateTime(s string) types.TimeString {
	if len(s) > 5 && strings.Count(s, ":") > 1 {
		s = s[:5]
	}
	return types.TimeString(s)
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

package booking

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWS-BookingService/internal/domain"
)

// --- Стабы executor'а ---

type stubResult struct {
	rows int64
}

func (r stubResult) LastInsertId() (int64, error) { return 0, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.rows, nil }

// stubExecutor перехватывает построенный SQL вместо обращения к БД
type stubExecutor struct {
	query string
	args  []interface{}
	rows  int64
}

func (e *stubExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	e.query = query
	e.args = args
	return stubResult{rows: e.rows}, nil
}

func (e *stubExecutor) QueryContext(_ context.Context, _ string, _ ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (e *stubExecutor) QueryRowContext(_ context.Context, _ string, _ ...interface{}) *sql.Row {
	return nil
}

// --- Cancel ---

func TestCancel_UpdateGuardedByActiveStatuses(t *testing.T) {
	// Терминальные статусы не перезаписываются: UPDATE проходит
	// только для pending и confirmed
	executor := &stubExecutor{rows: 1}
	repo := NewRepository(executor)

	err := repo.Cancel(context.Background(), 5, domain.StatusCancelledByUser, "план поменялся")

	require.NoError(t, err)
	assert.Contains(t, executor.query, "status IN (")
	assert.Contains(t, executor.args, domain.StatusPending)
	assert.Contains(t, executor.args, domain.StatusConfirmed)
}

func TestCancel_TerminalStatusNotAffected(t *testing.T) {
	// Ноль затронутых строк: бронирование успели погасить или отменить
	executor := &stubExecutor{rows: 0}
	repo := NewRepository(executor)

	err := repo.Cancel(context.Background(), 5, domain.StatusCancelledByUser, "")

	assert.ErrorIs(t, err, ErrStatusConflict)
}

// --- Redeem ---

func TestRedeem_UpdateGuardedByConfirmedStatus(t *testing.T) {
	executor := &stubExecutor{rows: 1}
	repo := NewRepository(executor)

	err := repo.Redeem(context.Background(), 5)

	require.NoError(t, err)
	assert.True(t, strings.Contains(executor.query, "status = "), "WHERE должен проверять текущий статус")
	assert.Contains(t, executor.args, domain.StatusConfirmed)
	assert.Contains(t, executor.args, domain.StatusRedeemed)
}

func TestRedeem_AlreadyRedeemedNotAffected(t *testing.T) {
	// Повторное погашение того же кода не находит confirmed строку
	executor := &stubExecutor{rows: 0}
	repo := NewRepository(executor)

	err := repo.Redeem(context.Background(), 5)

	assert.ErrorIs(t, err, ErrStatusConflict)
}

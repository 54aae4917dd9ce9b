// AngelaMos | 2026
// repository_test.go

package order

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/autosalon/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestCreateFromCartCopiesOnlyLockedLines(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM cart_items")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "quantity"}).
			AddRow(int64(10), int64(7), 2).
			AddRow(int64(12), int64(9), 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs(int64(1), "created", "123 Main St").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(40), created))
	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, $3),($4, $5, $6)")).
		WithArgs(int64(40), int64(7), 2, int64(40), int64(9), 1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE id IN ($1, $2)")).
		WithArgs(int64(10), int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	order, err := repo.CreateFromCart(context.Background(), 1, "123 Main St")
	require.NoError(t, err)
	assert.Equal(t, int64(40), order.ID)
	assert.Equal(t, StatusCreated, order.Status)
	assert.Equal(t, created, order.CreatedAt)
	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(9), order.Items[1].CarID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFromCartEmptyRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM cart_items")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "quantity"}))
	mock.ExpectRollback()

	_, err := repo.CreateFromCart(context.Background(), 1, "123 Main St")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFromCartFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM cart_items")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "quantity"}).AddRow(int64(10), int64(7), 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(41), time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.CreateFromCart(context.Background(), 1, "123 Main St")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy cart lines")
	assert.NoError(t, mock.ExpectationsWereMet(), "the cart delete never runs")
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status")).
		WithArgs(int64(5), "completed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 5, StatusCompleted)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUserLoadsItems(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE o.user_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "user_phone", "status", "address", "created_at"}).
			AddRow(int64(3), int64(1), "+79990000001", "created", "123 Main St", now).
			AddRow(int64(2), int64(1), "+79990000001", "completed", "Old St", now))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE oi.order_id IN ($1, $2)")).
		WithArgs(int64(3), int64(2)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "order_id", "car_id", "quantity", "configuration", "price", "photo"}).
			AddRow(int64(10), int64(2), int64(7), 1, "Kia Rio", "900000.00", "cars/rio.jpg").
			AddRow(int64(11), int64(3), int64(9), 2, "Lada Vesta", "1100000.00", "cars/vesta.jpg"))

	orders, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Lada Vesta", orders[0].Items[0].Configuration)
	assert.Equal(t, "2200000.00", orders[0].Total().StringFixed(2))
	assert.Equal(t, StatusCompleted, orders[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

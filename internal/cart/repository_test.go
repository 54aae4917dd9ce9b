// AngelaMos | 2026
// repository_test.go

package cart

import (
	"context"
	"regexp"
	"testing"

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

func TestRepositoryAddUpserts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_id, car_id)")).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "quantity"}).AddRow(int64(5), 2))

	item, err := repo.Add(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.ID)
	assert.Equal(t, 2, item.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDecrement(t *testing.T) {
	t.Run("above one", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("SET quantity = quantity - 1")).
			WithArgs(int64(7), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		removed, err := repo.Decrement(context.Background(), 10, 7)
		require.NoError(t, err)
		assert.False(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("at one", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("SET quantity = quantity - 1")).
			WithArgs(int64(7), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items")).
			WithArgs(int64(7), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		removed, err := repo.Decrement(context.Background(), 10, 7)
		require.NoError(t, err)
		assert.True(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign line", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("SET quantity = quantity - 1")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.Decrement(context.Background(), 11, 7)
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

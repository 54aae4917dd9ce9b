// AngelaMos | 2026
// repository.go

package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/autosalon/internal/core"
)

// Repository scopes every line operation by user id, so an item id that
// belongs to someone else behaves like a missing one.
type Repository interface {
	Add(ctx context.Context, userID, carID int64) (*Item, error)
	List(ctx context.Context, userID int64) ([]Item, error)
	Get(ctx context.Context, userID, itemID int64) (*Item, error)
	Increment(ctx context.Context, userID, itemID int64) error
	Decrement(ctx context.Context, userID, itemID int64) (removed bool, err error)
	Remove(ctx context.Context, userID, itemID int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const itemSelect = `
	SELECT ci.id, ci.user_id, ci.car_id, ci.quantity,
	       c.configuration, c.price, c.photo, c.is_deleted AS car_deleted
	FROM cart_items ci
	JOIN cars c ON c.id = ci.car_id`

// Add inserts a line with quantity 1 or bumps the existing one.
func (r *repository) Add(ctx context.Context, userID, carID int64) (*Item, error) {
	item := &Item{UserID: userID, CarID: carID}

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO cart_items (user_id, car_id, quantity)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, car_id)
		DO UPDATE SET quantity = cart_items.quantity + 1
		RETURNING id, quantity`,
		userID, carID,
	).Scan(&item.ID, &item.Quantity)
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", core.MapPgError(err))
	}

	return item, nil
}

func (r *repository) List(ctx context.Context, userID int64) ([]Item, error) {
	items := []Item{}
	query := itemSelect + ` WHERE ci.user_id = $1 ORDER BY ci.id`
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return items, nil
}

func (r *repository) Get(ctx context.Context, userID, itemID int64) (*Item, error) {
	var item Item
	err := r.db.GetContext(ctx, &item,
		itemSelect+` WHERE ci.id = $1 AND ci.user_id = $2`, itemID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get cart item: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return &item, nil
}

func (r *repository) Increment(ctx context.Context, userID, itemID int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = quantity + 1
		WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("increment cart item: %w", err)
	}
	return expectOne(result, "increment cart item")
}

// Decrement lowers the quantity, deleting the line instead when it would
// reach zero. removed reports which of the two happened.
func (r *repository) Decrement(
	ctx context.Context,
	userID, itemID int64,
) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = quantity - 1
		WHERE id = $1 AND user_id = $2 AND quantity > 1`, itemID, userID)
	if err != nil {
		return false, fmt.Errorf("decrement cart item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("decrement cart item: %w", err)
	}
	if rows == 1 {
		return false, nil
	}

	if err := r.Remove(ctx, userID, itemID); err != nil {
		return false, err
	}
	return true, nil
}

func (r *repository) Remove(ctx context.Context, userID, itemID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return expectOne(result, "remove cart item")
}

func expectOne(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}

// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/autosalon/internal/core"
)

type Repository interface {
	CreateFromCart(ctx context.Context, userID int64, address string) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const orderSelect = `
	SELECT o.id, o.user_id, u.phone AS user_phone, o.status, o.address, o.created_at
	FROM orders o
	JOIN users u ON u.id = o.user_id`

type cartLine struct {
	ID       int64 `db:"id"`
	CarID    int64 `db:"car_id"`
	Quantity int   `db:"quantity"`
}

// CreateFromCart snapshots the user's cart into a new order and empties the
// cart in one transaction. The cart rows are locked first, so a concurrent
// second submit waits and then finds nothing to order. Only the locked rows
// are copied and deleted; a line added meanwhile stays in the cart.
func (r *repository) CreateFromCart(
	ctx context.Context,
	userID int64,
	address string,
) (*Order, error) {
	order := &Order{
		UserID:  userID,
		Status:  StatusCreated,
		Address: address,
	}

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var lines []cartLine
		if err := tx.SelectContext(ctx, &lines, `
			SELECT id, car_id, quantity
			FROM cart_items
			WHERE user_id = $1
			ORDER BY id
			FOR UPDATE`, userID); err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}

		if len(lines) == 0 {
			return ErrEmptyCart
		}

		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO orders (user_id, status, address)
			VALUES ($1, $2, $3)
			RETURNING id, created_at`,
			userID, string(order.Status), address,
		).Scan(&order.ID, &order.CreatedAt); err != nil {
			return fmt.Errorf("insert order: %w", core.MapPgError(err))
		}

		order.Items = make([]Item, 0, len(lines))
		lineIDs := make([]int64, 0, len(lines))
		for _, line := range lines {
			order.Items = append(order.Items, Item{
				OrderID:  order.ID,
				CarID:    line.CarID,
				Quantity: line.Quantity,
			})
			lineIDs = append(lineIDs, line.ID)
		}

		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO order_items (order_id, car_id, quantity)
			VALUES (:order_id, :car_id, :quantity)`,
			order.Items,
		); err != nil {
			return fmt.Errorf("copy cart lines: %w", core.MapPgError(err))
		}

		query, args, err := sqlx.In(`DELETE FROM cart_items WHERE id IN (?)`, lineIDs)
		if err != nil {
			return fmt.Errorf("build cart delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return order, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	var order Order
	err := r.db.GetContext(ctx, &order, orderSelect+` WHERE o.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	orders := []Order{order}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

func (r *repository) ListAll(ctx context.Context) ([]Order, error) {
	orders := []Order{}
	query := orderSelect + ` ORDER BY o.created_at DESC, o.id DESC`
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]Order, error) {
	orders := []Order{}
	query := orderSelect + ` WHERE o.user_id = $1 ORDER BY o.created_at DESC, o.id DESC`
	if err := r.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// loadItems fills Items for every order with a single IN query.
func (r *repository) loadItems(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	index := make(map[int64]int, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].ID)
		index[orders[i].ID] = i
	}

	query, args, err := sqlx.In(`
		SELECT oi.id, oi.order_id, oi.car_id, oi.quantity,
		       c.configuration, c.price, c.photo
		FROM order_items oi
		JOIN cars c ON c.id = oi.car_id
		WHERE oi.order_id IN (?)
		ORDER BY oi.id`, ids)
	if err != nil {
		return fmt.Errorf("build order items query: %w", err)
	}

	var items []Item
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("load order items: %w", err)
	}

	for _, item := range items {
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}

	return nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id int64,
	status Status,
) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	return expectOne(result, "update order status")
}

func (r *repository) Update(ctx context.Context, order *Order) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET user_id = $2, status = $3, address = $4
		WHERE id = $1`,
		order.ID, order.UserID, string(order.Status), order.Address,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", core.MapPgError(err))
	}

	return expectOne(result, "update order")
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	return expectOne(result, "delete order")
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

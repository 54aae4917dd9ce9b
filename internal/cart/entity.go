// AngelaMos | 2026
// entity.go

package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/autosalon/internal/core"
)

// Item is a cart line joined with the car it points at.
type Item struct {
	ID            int64           `db:"id"`
	UserID        int64           `db:"user_id"`
	CarID         int64           `db:"car_id"`
	Quantity      int             `db:"quantity"`
	Configuration string          `db:"configuration"`
	Price         decimal.Decimal `db:"price"`
	Photo         string          `db:"photo"`
	CarDeleted    bool            `db:"car_deleted"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Unavailable marks lines whose car was soft-deleted after it was added.
func (i Item) Unavailable() bool {
	return i.CarDeleted
}

// View is the cart page model. Total includes unavailable lines.
type View struct {
	Items []Item
	Total decimal.Decimal
}

func (v View) Empty() bool {
	return len(v.Items) == 0
}

func NewView(items []Item) View {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return View{Items: items, Total: total}
}

type Action string

const (
	ActionIncrement Action = "increment"
	ActionDecrement Action = "decrement"
	ActionDelete    Action = "delete"
)

// ParseAction accepts the canonical names plus "add" and "remove".
func ParseAction(raw string) (Action, error) {
	switch raw {
	case "increment", "add":
		return ActionIncrement, nil
	case "decrement", "remove":
		return ActionDecrement, nil
	case "delete":
		return ActionDelete, nil
	}
	return "", fmt.Errorf("cart action %q: %w", raw, core.ErrInvalidInput)
}

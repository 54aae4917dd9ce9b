// AngelaMos | 2026
// entity.go

package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/autosalon/internal/core"
)

type Status string

const (
	StatusCreated    Status = "created"
	StatusProcessed  Status = "processed"
	StatusInProcess  Status = "in_process"
	StatusInDelivery Status = "in_delivery"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
)

// Statuses lists every order status in display order.
var Statuses = []Status{
	StatusCreated,
	StatusProcessed,
	StatusInProcess,
	StatusInDelivery,
	StatusDelivered,
	StatusCompleted,
}

var statusLabels = map[Status]string{
	StatusCreated:    "Created",
	StatusProcessed:  "Processed",
	StatusInProcess:  "In process",
	StatusInDelivery: "In delivery",
	StatusDelivered:  "Delivered",
	StatusCompleted:  "Completed",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("order status %q: %w", raw, core.ErrInvalidInput)
	}
	return s, nil
}

type Order struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	UserPhone string    `db:"user_phone"`
	Status    Status    `db:"status"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
	Items     []Item    `db:"-"`
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Item is a frozen cart line. Configuration, Price and Photo are read from
// the car at display time.
type Item struct {
	ID            int64           `db:"id"`
	OrderID       int64           `db:"order_id"`
	CarID         int64           `db:"car_id"`
	Quantity      int             `db:"quantity"`
	Configuration string          `db:"configuration"`
	Price         decimal.Decimal `db:"price"`
	Photo         string          `db:"photo"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// UserOption is one entry of the customer picker on the admin order form.
type UserOption struct {
	ID    int64
	Label string
}

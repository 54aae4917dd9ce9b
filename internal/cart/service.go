// AngelaMos | 2026
// service.go

package cart

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/autosalon/internal/catalog"
	"github.com/carterperez-dev/autosalon/internal/core"
)

var ErrCarUnavailable = errors.New("car is no longer available")

type CarLookup interface {
	Get(ctx context.Context, id int64) (*catalog.Car, error)
}

type Service struct {
	repo Repository
	cars CarLookup
}

func NewService(repo Repository, cars CarLookup) *Service {
	return &Service{
		repo: repo,
		cars: cars,
	}
}

// AddToCart adds one unit of an available car to the user's cart.
func (s *Service) AddToCart(
	ctx context.Context,
	userID, carID int64,
) (*catalog.Car, error) {
	car, err := s.cars.Get(ctx, carID)
	if err != nil {
		return nil, err
	}

	if !car.Available() {
		return car, ErrCarUnavailable
	}

	item, err := s.repo.Add(ctx, userID, carID)
	if err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "cart.add",
		attribute.Int64("car.id", carID),
		attribute.Int("cart.quantity", item.Quantity),
	)
	return car, nil
}

// Change describes what UpdateQuantity did, for the confirmation message.
type Change struct {
	Configuration string
	Action        Action
	Removed       bool
}

func (s *Service) UpdateQuantity(
	ctx context.Context,
	userID, itemID int64,
	rawAction string,
) (*Change, error) {
	action, err := ParseAction(rawAction)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.Get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	change := &Change{Configuration: item.Configuration, Action: action}

	switch action {
	case ActionIncrement:
		err = s.repo.Increment(ctx, userID, itemID)
	case ActionDecrement:
		change.Removed, err = s.repo.Decrement(ctx, userID, itemID)
	case ActionDelete:
		err = s.repo.Remove(ctx, userID, itemID)
		change.Removed = true
	}
	if err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}

	core.AddSpanEvent(ctx, "cart.update",
		attribute.Int64("cart.item_id", itemID),
		attribute.String("cart.action", string(action)),
		attribute.Bool("cart.removed", change.Removed),
	)
	return change, nil
}

func (s *Service) ViewCart(ctx context.Context, userID int64) (View, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return View{}, err
	}
	return NewView(items), nil
}

// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/autosalon/internal/core"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingAddress = errors.New("delivery address is not set")
)

// AddressProvider returns the delivery address stored on a user's profile.
type AddressProvider interface {
	Address(ctx context.Context, userID int64) (string, error)
}

type Service struct {
	repo      Repository
	addresses AddressProvider
}

func NewService(repo Repository, addresses AddressProvider) *Service {
	return &Service{
		repo:      repo,
		addresses: addresses,
	}
}

// PlaceOrder converts the user's cart into an order carrying a copy of the
// current profile address.
func (s *Service) PlaceOrder(ctx context.Context, userID int64) (*Order, error) {
	ctx, span := core.StartSpan(ctx, "order.place",
		attribute.Int64("user.id", userID),
	)
	defer span.End()

	address, err := s.addresses.Address(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrMissingAddress
	}

	order, err := s.repo.CreateFromCart(ctx, userID, address)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			return nil, ErrEmptyCart
		}
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("place order: %w", err)
	}

	core.AddSpanEvent(ctx, "order.created",
		attribute.Int64("order.id", order.ID),
		attribute.Int("order.lines", len(order.Items)),
	)
	slog.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"user_id", userID,
		"lines", len(order.Items),
	)

	return order, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus sets any known status; transitions are not constrained.
func (s *Service) UpdateStatus(ctx context.Context, id int64, raw string) error {
	status, err := ParseStatus(raw)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	slog.InfoContext(ctx, "order status changed",
		"order_id", id,
		"status", status,
	)
	return nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	form AdminOrderForm,
) (*Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := ParseStatus(form.Status)
	if err != nil {
		return nil, core.NewValidationError("status", "Select a valid status")
	}

	order.UserID = form.UserID
	order.Status = status
	order.Address = form.Address

	if err := s.repo.Update(ctx, order); err != nil {
		if errors.Is(err, core.ErrForeignKey) {
			return nil, core.NewValidationError("user", "Select a valid customer")
		}
		return nil, err
	}

	return order, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "order deleted", "order_id", id)
	return nil
}

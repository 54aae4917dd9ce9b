// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/autosalon/internal/auth"
	"github.com/carterperez-dev/autosalon/internal/core"
	"github.com/carterperez-dev/autosalon/internal/order"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id int64,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByPhone(
	ctx context.Context,
	phone string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	account auth.NewAccount,
) (*auth.UserInfo, error) {
	user := &User{
		Phone:        strings.TrimSpace(account.Phone),
		Email:        strings.ToLower(strings.TrimSpace(account.Email)),
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		MiddleName:   account.MiddleName,
		Address:      account.Address,
		PasswordHash: account.PasswordHash,
		IsActive:     true,
		IsStaff:      account.IsStaff,
		IsSuperuser:  account.IsSuperuser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// Address implements order.AddressProvider.
func (s *Service) Address(ctx context.Context, userID int64) (string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Address, nil
}

// UserOptions implements order.UserDirectory.
func (s *Service) UserOptions(ctx context.Context) ([]order.UserOption, error) {
	users, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	options := make([]order.UserOption, 0, len(users))
	for _, u := range users {
		label := u.Phone
		if name := u.FullName(); name != u.Phone {
			label = name + " (" + u.Phone + ")"
		}
		options = append(options, order.UserOption{ID: u.ID, Label: label})
	}

	return options, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, search string) ([]User, error) {
	return s.repo.List(ctx, search)
}

func (s *Service) UpdateAddress(
	ctx context.Context,
	userID int64,
	form ProfileForm,
) error {
	if userID == 0 {
		return fmt.Errorf("update address: %w", core.ErrUnauthorized)
	}

	return s.repo.UpdateAddress(ctx, userID, strings.TrimSpace(form.Address))
}

func (s *Service) UpdateUser(
	ctx context.Context,
	id int64,
	form AdminUserForm,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	form.apply(user)

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.NewValidationError("phone",
				"A user with this phone number already exists")
		}
		return nil, err
	}

	return user, nil
}

// DeleteUser hard-deletes the account. Cart lines and orders cascade.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Phone:        u.Phone,
		FirstName:    u.FirstName,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		IsSuperuser:  u.IsSuperuser,
	}
}

var (
	_ auth.UserProvider     = (*Service)(nil)
	_ order.AddressProvider = (*Service)(nil)
	_ order.UserDirectory   = (*Service)(nil)
)

// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/autosalon/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateAddress(ctx context.Context, id int64, address string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, search string) ([]User, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, phone, email, first_name, last_name, middle_name,
	address, password_hash, is_active, is_staff, is_superuser,
	date_joined, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (phone, email, first_name, last_name, middle_name,
		                   address, password_hash, is_active, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, date_joined, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		user.Phone,
		user.Email,
		user.FirstName,
		user.LastName,
		user.MiddleName,
		user.Address,
		user.PasswordHash,
		user.IsActive,
		user.IsStaff,
		user.IsSuperuser,
	)
	if err := row.Scan(&user.ID, &user.DateJoined, &user.UpdatedAt); err != nil {
		return fmt.Errorf("create user: %w", core.MapPgError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByPhone(
	ctx context.Context,
	phone string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by phone: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by phone: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET phone = $2, email = $3, first_name = $4, last_name = $5,
		    middle_name = $6, address = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Phone,
		user.Email,
		user.FirstName,
		user.LastName,
		user.MiddleName,
		user.Address,
		user.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", core.MapPgError(err))
	}

	return nil
}

func (r *repository) UpdateAddress(
	ctx context.Context,
	id int64,
	address string,
) error {
	query := `
		UPDATE users
		SET address = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update address", query, id, address)
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

// Delete removes the account; cart lines and orders go with it.
func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

func (r *repository) List(ctx context.Context, search string) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any

	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE phone ILIKE $1 OR email ILIKE $1
			OR first_name ILIKE $1 OR last_name ILIKE $1`
		args = append(args, "%"+escapeLike(search)+"%")
	}
	query += ` ORDER BY id`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

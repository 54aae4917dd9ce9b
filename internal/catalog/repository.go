// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/autosalon/internal/core"
)

// Repository exposes soft-delete scoping as two explicit list methods:
// ListActive for storefront pages, ListAll for administration.
type Repository interface {
	ListActive(ctx context.Context) ([]Car, error)
	ListAll(ctx context.Context) ([]Car, error)
	GetByID(ctx context.Context, id int64) (*Car, error)
	Create(ctx context.Context, car *Car) error
	Update(ctx context.Context, car *Car) error
	SetDeleted(ctx context.Context, id int64, deleted bool) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const carColumns = `id, is_deleted, photo, price, power, mileage, transmission,
	color, drive, fuel_type, configuration, configuration_desc,
	created_at, updated_at`

func (r *repository) ListActive(ctx context.Context) ([]Car, error) {
	cars := []Car{}
	query := `SELECT ` + carColumns + ` FROM cars WHERE is_deleted = FALSE ORDER BY id`
	if err := r.db.SelectContext(ctx, &cars, query); err != nil {
		return nil, fmt.Errorf("list active cars: %w", err)
	}
	return cars, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Car, error) {
	cars := []Car{}
	query := `SELECT ` + carColumns + ` FROM cars ORDER BY id`
	if err := r.db.SelectContext(ctx, &cars, query); err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	return cars, nil
}

// GetByID returns soft-deleted cars too; callers decide via Car.Available.
func (r *repository) GetByID(ctx context.Context, id int64) (*Car, error) {
	var car Car
	err := r.db.GetContext(ctx, &car,
		`SELECT `+carColumns+` FROM cars WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get car: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get car: %w", err)
	}

	return &car, nil
}

func (r *repository) Create(ctx context.Context, car *Car) error {
	query := `
		INSERT INTO cars (is_deleted, photo, price, power, mileage, transmission,
		                  color, drive, fuel_type, configuration, configuration_desc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query,
		car.IsDeleted,
		car.Photo,
		car.Price.StringFixed(2),
		car.Power,
		car.Mileage,
		string(car.Transmission),
		car.Color,
		string(car.Drive),
		string(car.FuelType),
		car.Configuration,
		car.ConfigurationDesc,
	)
	if err := row.Scan(&car.ID, &car.CreatedAt, &car.UpdatedAt); err != nil {
		return fmt.Errorf("create car: %w", core.MapPgError(err))
	}

	return nil
}

func (r *repository) Update(ctx context.Context, car *Car) error {
	query := `
		UPDATE cars
		SET is_deleted = $2, photo = $3, price = $4, power = $5, mileage = $6,
		    transmission = $7, color = $8, drive = $9, fuel_type = $10,
		    configuration = $11, configuration_desc = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &car.UpdatedAt, query,
		car.ID,
		car.IsDeleted,
		car.Photo,
		car.Price.StringFixed(2),
		car.Power,
		car.Mileage,
		string(car.Transmission),
		car.Color,
		string(car.Drive),
		string(car.FuelType),
		car.Configuration,
		car.ConfigurationDesc,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update car: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update car: %w", core.MapPgError(err))
	}

	return nil
}

func (r *repository) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE cars
		SET is_deleted = $2, updated_at = NOW()
		WHERE id = $1`, id, deleted)
	if err != nil {
		return fmt.Errorf("set car deleted: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set car deleted: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set car deleted: %w", core.ErrNotFound)
	}

	return nil
}

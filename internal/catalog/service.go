// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"log/slog"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListActive(ctx context.Context) ([]Car, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) ListAll(ctx context.Context) ([]Car, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Car, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	form CarForm,
	photo string,
) (*Car, error) {
	car := &Car{Photo: photo}
	form.apply(car)

	if err := s.repo.Create(ctx, car); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "car created",
		"car_id", car.ID,
		"configuration", car.Configuration,
	)
	return car, nil
}

// Update works on soft-deleted cars as well. An empty photo keeps the
// current one.
func (s *Service) Update(
	ctx context.Context,
	id int64,
	form CarForm,
	photo string,
) (*Car, error) {
	car, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	form.apply(car)
	if photo != "" {
		car.Photo = photo
	}

	if err := s.repo.Update(ctx, car); err != nil {
		return nil, err
	}

	return car, nil
}

// ToggleDeleted flips the soft-delete flag and returns the car in its new
// state. Applying it twice restores the original visibility.
func (s *Service) ToggleDeleted(ctx context.Context, id int64) (*Car, error) {
	car, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	car.IsDeleted = !car.IsDeleted
	if err := s.repo.SetDeleted(ctx, id, car.IsDeleted); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "car visibility toggled",
		"car_id", id,
		"deleted", car.IsDeleted,
	)
	return car, nil
}

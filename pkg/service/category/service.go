// Package category provides CRUD over transaction categories,
// protecting the seeded system defaults from deletion.
package category

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	categorydomain "github.com/pennywiseapp/pennywise/pkg/domain/category"
	"github.com/pennywiseapp/pennywise/pkg/dto"
	"github.com/pennywiseapp/pennywise/pkg/repository"
)

// Service provides business logic for categories.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a category Service with the provided dependencies.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateCategory validates and persists a new category.
func (s *Service) CreateCategory(ctx context.Context, create dto.CategoryCreate) (read *dto.CategoryRead, err error) {
	if !categorydomain.Type(create.Type).IsValid() {
		return nil, categorydomain.ErrInvalidCategoryType
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		if create.ID == uuid.Nil {
			create.ID = uuid.New()
		}
		if err = repo.Create(ctx, create); err != nil {
			return err
		}
		read, err = repo.Get(ctx, create.ID)
		return err
	})
	return read, err
}

// UpdateCategory applies a partial update to a category.
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, update dto.CategoryUpdate) (read *dto.CategoryRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		if _, err = repo.Get(ctx, id); err != nil {
			return err
		}
		if err = repo.Update(ctx, id, update); err != nil {
			return err
		}
		read, err = repo.Get(ctx, id)
		return err
	})
	return read, err
}

// DeleteCategory soft-deletes a category. System categories are
// protected.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		read, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if read.IsSystem {
			return categorydomain.ErrSystemCategoryProtected
		}
		return repo.SoftDelete(ctx, id)
	})
}

// GetCategory retrieves one category.
func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (read *dto.CategoryRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		read, err = repo.Get(ctx, id)
		return err
	})
	return read, err
}

// ListCategories lists the user's categories plus the system defaults.
func (s *Service) ListCategories(ctx context.Context, userID uuid.UUID) (reads []*dto.CategoryRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		reads, err = repo.ListByUser(ctx, userID)
		return err
	})
	return reads, err
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"

	"github.com/google/uuid"
)

type categoryService struct {
	categoryRepo repositories.CategoryRepositoryInterface
}

// NewCategoryService creates a new CategoryServiceInterface instance
func NewCategoryService(categoryRepo repositories.CategoryRepositoryInterface) CategoryServiceInterface {
	return &categoryService{categoryRepo: categoryRepo}
}

// ListCategories returns categories ordered by name. An empty kind lists both kinds.
func (s *categoryService) ListCategories(ctx context.Context, kind models.Kind) ([]models.Category, error) {
	if kind != "" && !kind.IsValid() {
		return nil, models.ErrInvalidKind
	}
	categories, err := s.categoryRepo.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, name string, kind models.Kind) (*models.Category, error) {
	category := &models.Category{
		Name: strings.TrimSpace(name),
		Kind: kind,
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// UpdateCategory renames or re-files a category. Changing the kind of a
// category that already has transactions is refused, since those rows
// would stop matching their category.
func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, name string, kind models.Kind) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if kind != category.Kind {
		count, err := s.categoryRepo.CountTransactions(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check category usage: %w", err)
		}
		if count > 0 {
			return nil, ErrCategoryInUse
		}
	}

	category.Name = strings.TrimSpace(name)
	category.Kind = kind
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	count, err := s.categoryRepo.CountTransactions(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

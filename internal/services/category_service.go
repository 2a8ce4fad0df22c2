package services

import (
	"context"
	"fmt"
	"time"

	"procurehub/internal/caching"
	"procurehub/internal/models"
	"procurehub/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const forestCacheTTL = 15 * time.Minute

// CategoryService is the read path over the category forest.
type CategoryService interface {
	GetForest(ctx context.Context, departmentID uuid.UUID) ([]*models.Category, error)
	RefreshForest(ctx context.Context, departmentID uuid.UUID) ([]*models.Category, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	cacheSvc     caching.CacheService
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, cacheSvc caching.CacheService) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, cacheSvc: cacheSvc}
}

// GetForest returns the department's categories as nested trees, roots and
// children sorted by name. Cached per department; cache failures degrade to a
// direct read.
func (s *categoryService) GetForest(ctx context.Context, departmentID uuid.UUID) ([]*models.Category, error) {
	cached, err := s.cacheSvc.GetForest(ctx, departmentID)
	if err != nil {
		log.Warn().Err(err).Stringer("department_id", departmentID).Msg("forest cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	rows, err := s.categoryRepo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	forest := buildForest(rows)

	if err := s.cacheSvc.SetForest(ctx, departmentID, forest, forestCacheTTL); err != nil {
		log.Warn().Err(err).Stringer("department_id", departmentID).Msg("forest cache write failed")
	}
	return forest, nil
}

// RefreshForest rebuilds the department's forest from the database and
// overwrites the cache entry even when a live one exists. GetForest would
// return the cached copy untouched, so rewarm jobs go through here.
func (s *categoryService) RefreshForest(ctx context.Context, departmentID uuid.UUID) ([]*models.Category, error) {
	rows, err := s.categoryRepo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	forest := buildForest(rows)

	if err := s.cacheSvc.SetForest(ctx, departmentID, forest, forestCacheTTL); err != nil {
		return nil, fmt.Errorf("cache forest: %w", err)
	}
	return forest, nil
}

// buildForest links flat parent-id rows into trees. Rows arrive name-sorted,
// so children end up name-sorted too. A row whose parent is missing is
// treated as a root rather than dropped.
func buildForest(rows []*models.Category) []*models.Category {
	byID := make(map[uuid.UUID]*models.Category, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	forest := []*models.Category{}
	for _, row := range rows {
		if row.ParentID != nil {
			if parent, ok := byID[*row.ParentID]; ok {
				parent.Children = append(parent.Children, row)
				continue
			}
		}
		forest = append(forest, row)
	}
	return forest
}

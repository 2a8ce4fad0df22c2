package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"procurehub/internal/caching"
	"procurehub/internal/models"
	"procurehub/internal/repositories"
	"procurehub/internal/seed"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const departmentCacheTTL = time.Hour

// HierarchyService maintains the spending-category forest of a department.
type HierarchyService interface {
	EnsureDepartment(ctx context.Context, name string) (*models.Department, error)
	LoadHierarchy(ctx context.Context, department *models.Department, branch string, forest seed.Forest) error
	PurgeDepartment(ctx context.Context, departmentID uuid.UUID) error
	Reseed(ctx context.Context, department *models.Department, branch string, forest seed.Forest) error
}

type hierarchyService struct {
	categoryRepo   repositories.CategoryRepository
	departmentRepo repositories.DepartmentRepository
	cacheSvc       caching.CacheService
}

func NewHierarchyService(categoryRepo repositories.CategoryRepository, departmentRepo repositories.DepartmentRepository, cacheSvc caching.CacheService) HierarchyService {
	return &hierarchyService{
		categoryRepo:   categoryRepo,
		departmentRepo: departmentRepo,
		cacheSvc:       cacheSvc,
	}
}

// EnsureDepartment returns the department with the given name, creating it
// with a zero budget when it does not exist yet. Lookups are cached by name;
// cache failures degrade to a direct read.
func (s *hierarchyService) EnsureDepartment(ctx context.Context, name string) (*models.Department, error) {
	cached, err := s.cacheSvc.GetDepartmentByName(ctx, name)
	if err != nil {
		log.Warn().Err(err).Str("department", name).Msg("department cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	department, err := s.departmentRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("look up department %q: %w", name, err)
	}
	if department != nil {
		s.cacheDepartment(ctx, department)
		return department, nil
	}

	created := &models.Department{
		ID:     uuid.New(),
		Name:   name,
		Budget: decimal.Zero,
	}
	if err := s.departmentRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create department %q: %w", name, err)
	}

	// Re-read: ON CONFLICT DO NOTHING may have kept a concurrently created row.
	department, err = s.departmentRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("look up department %q after create: %w", name, err)
	}
	if department == nil {
		return nil, fmt.Errorf("department %q missing after create", name)
	}
	s.cacheDepartment(ctx, department)
	return department, nil
}

func (s *hierarchyService) cacheDepartment(ctx context.Context, department *models.Department) {
	if err := s.cacheSvc.SetDepartment(ctx, department, departmentCacheTTL); err != nil {
		log.Warn().Err(err).Str("department", department.Name).Msg("department cache write failed")
	}
}

// LoadHierarchy materializes one category row per node of the given forest,
// depth-first with parents created before their children. A failed node is
// logged and skipped together with its descendants; siblings keep loading.
func (s *hierarchyService) LoadHierarchy(ctx context.Context, department *models.Department, branch string, forest seed.Forest) error {
	unlock, err := s.departmentRepo.AcquireMaintenanceLock(ctx, department.ID)
	if err != nil {
		return fmt.Errorf("lock department %q: %w", department.Name, err)
	}
	defer func() {
		if err := unlock(ctx); err != nil {
			log.Warn().Err(err).Str("department", department.Name).Msg("release maintenance lock")
		}
	}()

	s.loadChildren(ctx, department, branch, nil, forest)

	if err := s.cacheSvc.InvalidateForest(ctx, department.ID); err != nil {
		log.Warn().Err(err).Str("department", department.Name).Msg("invalidate forest cache")
	}
	return nil
}

func (s *hierarchyService) loadChildren(ctx context.Context, department *models.Department, branch string, parentID *uuid.UUID, children map[string]seed.Node) {
	// Stable order keeps runs reproducible; sibling order has no semantic weight.
	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s.loadNode(ctx, department, branch, parentID, name, children[name])
	}
}

func (s *hierarchyService) loadNode(ctx context.Context, department *models.Department, branch string, parentID *uuid.UUID, name string, node seed.Node) {
	category := &models.Category{
		ID:           uuid.New(),
		Name:         name,
		ParentID:     parentID,
		DepartmentID: department.ID,
		Branch:       branch,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		// Node-granular failure isolation: siblings continue, this subtree is
		// dropped because its children would have no parent id to link to.
		log.Error().Err(err).
			Str("department", department.Name).
			Str("category", name).
			Msg("create category failed, skipping subtree")
		return
	}

	switch node.Kind {
	case seed.Leaves:
		sorted := make([]string, len(node.Leaves))
		copy(sorted, node.Leaves)
		sort.Strings(sorted)
		for _, leaf := range sorted {
			s.loadNode(ctx, department, branch, &category.ID, leaf, seed.Node{Kind: seed.Empty})
		}
	case seed.Subtree:
		s.loadChildren(ctx, department, branch, &category.ID, node.Children)
	case seed.Empty:
	}
}

// PurgeDepartment deletes the department's whole forest leaf-first: each pass
// removes every category no other row references as a parent, so it needs at
// most one pass per level of depth and never recurses. The final unconditional
// delete clears anything the loop could not reach.
func (s *hierarchyService) PurgeDepartment(ctx context.Context, departmentID uuid.UUID) error {
	unlock, err := s.departmentRepo.AcquireMaintenanceLock(ctx, departmentID)
	if err != nil {
		return fmt.Errorf("lock department %s: %w", departmentID, err)
	}
	defer func() {
		if err := unlock(ctx); err != nil {
			log.Warn().Err(err).Stringer("department_id", departmentID).Msg("release maintenance lock")
		}
	}()

	for {
		parents, err := s.categoryRepo.ReferencedParentIDs(ctx, departmentID)
		if err != nil {
			return fmt.Errorf("collect referenced parents: %w", err)
		}
		deleted, err := s.categoryRepo.DeleteExcept(ctx, departmentID, parents)
		if err != nil {
			return fmt.Errorf("delete leaf categories: %w", err)
		}
		if deleted == 0 {
			break
		}
		log.Debug().Stringer("department_id", departmentID).Int64("deleted", deleted).Msg("leaf-peeling pass")
	}

	// Covers an already-empty department and any residue the loop missed.
	if _, err := s.categoryRepo.DeleteByDepartment(ctx, departmentID); err != nil {
		return fmt.Errorf("final category cleanup: %w", err)
	}

	if remaining, err := s.categoryRepo.CountByDepartment(ctx, departmentID); err != nil {
		log.Warn().Err(err).Stringer("department_id", departmentID).Msg("post-purge count failed")
	} else if remaining > 0 {
		log.Warn().Int64("remaining", remaining).Stringer("department_id", departmentID).Msg("categories remain after purge")
	}

	if err := s.cacheSvc.InvalidateForest(ctx, departmentID); err != nil {
		log.Warn().Err(err).Stringer("department_id", departmentID).Msg("invalidate forest cache")
	}
	return nil
}

// Reseed clears the department's existing forest and loads the given one, so
// no rows from a previous load survive.
func (s *hierarchyService) Reseed(ctx context.Context, department *models.Department, branch string, forest seed.Forest) error {
	if err := s.PurgeDepartment(ctx, department.ID); err != nil {
		return err
	}
	return s.LoadHierarchy(ctx, department, branch, forest)
}

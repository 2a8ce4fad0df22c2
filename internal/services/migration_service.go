package services

import (
	"context"
	"fmt"

	"procurehub/internal/caching"
	"procurehub/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MigrationService merges legacy department aliases (case/spacing variants of
// a canonical name) into the canonical department. One-shot and idempotent: a
// re-run finds no alias departments left and does nothing.
type MigrationService interface {
	MigrateLegacyDepartments(ctx context.Context, canonicalName string, aliases []string) error
}

type migrationService struct {
	departmentRepo repositories.DepartmentRepository
	userRepo       repositories.UserRepository
	requestRepo    repositories.PurchaseRequestRepository
	hierarchySvc   HierarchyService
	cacheSvc       caching.CacheService
}

func NewMigrationService(departmentRepo repositories.DepartmentRepository, userRepo repositories.UserRepository,
	requestRepo repositories.PurchaseRequestRepository, hierarchySvc HierarchyService, cacheSvc caching.CacheService) MigrationService {
	return &migrationService{
		departmentRepo: departmentRepo,
		userRepo:       userRepo,
		requestRepo:    requestRepo,
		hierarchySvc:   hierarchySvc,
		cacheSvc:       cacheSvc,
	}
}

func (s *migrationService) MigrateLegacyDepartments(ctx context.Context, canonicalName string, aliases []string) error {
	// Lookups go straight to the database: a stale cached alias must not
	// resurrect a department this sweep already deleted.
	canonical, err := s.departmentRepo.GetByName(ctx, canonicalName)
	if err != nil {
		return fmt.Errorf("look up canonical department %q: %w", canonicalName, err)
	}
	var canonicalID *uuid.UUID
	if canonical != nil {
		canonicalID = &canonical.ID
	} else {
		log.Warn().Str("department", canonicalName).Msg("canonical department missing, users will be left unassigned")
	}

	for _, alias := range aliases {
		legacy, err := s.departmentRepo.GetByName(ctx, alias)
		if err != nil {
			return fmt.Errorf("look up legacy department %q: %w", alias, err)
		}
		if legacy == nil {
			continue // already migrated
		}
		if canonical != nil && legacy.ID == canonical.ID {
			continue // alias resolves to the canonical row itself
		}

		rewritten, err := s.requestRepo.RewriteBudgetCategory(ctx, alias, canonicalName)
		if err != nil {
			return fmt.Errorf("rewrite budget category %q: %w", alias, err)
		}

		moved, err := s.userRepo.ReassignDepartment(ctx, legacy.ID, canonicalID)
		if err != nil {
			return fmt.Errorf("reassign users of %q: %w", alias, err)
		}

		if err := s.hierarchySvc.PurgeDepartment(ctx, legacy.ID); err != nil {
			return fmt.Errorf("purge categories of %q: %w", alias, err)
		}

		if err := s.departmentRepo.Delete(ctx, legacy.ID); err != nil {
			return fmt.Errorf("delete legacy department %q: %w", alias, err)
		}

		if err := s.cacheSvc.InvalidateDepartment(ctx, alias); err != nil {
			log.Warn().Err(err).Str("department", alias).Msg("invalidate department cache")
		}

		log.Info().
			Str("legacy", alias).
			Str("canonical", canonicalName).
			Int64("requests_rewritten", rewritten).
			Int64("users_moved", moved).
			Msg("legacy department merged")
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"procurehub/internal/caching"
	"procurehub/internal/config"
	"procurehub/internal/repositories"
	"procurehub/internal/seed"
	"procurehub/internal/services"
	"procurehub/pkg/database"
	"procurehub/pkg/logger"
)

// seed is the one-shot maintenance run: it folds legacy department aliases
// into their canonical departments, then reseeds each department's spending
// category forest from the hierarchy definition.
func main() {
	_ = godotenv.Load() // optional .env for local runs
	logger.Setup(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	if err := run(context.Background()); err != nil {
		log.Error().Err(err).Msg("seed run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configPath := os.Getenv("SEED_CONFIG")
	if configPath == "" {
		configPath = "seed.toml"
	}
	cfg, err := config.LoadSeedConfig(configPath)
	if err != nil {
		return err
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	definition, err := loadDefinition(ctx, cfg)
	if err != nil {
		return err
	}

	cacheSvc := newCacheService()

	categoryRepo := repositories.NewCategoryRepo(pool)
	departmentRepo := repositories.NewDepartmentRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	requestRepo := repositories.NewPurchaseRequestRepo(pool)

	hierarchySvc := services.NewHierarchyService(categoryRepo, departmentRepo, cacheSvc)
	migrationSvc := services.NewMigrationService(departmentRepo, userRepo, requestRepo, hierarchySvc, cacheSvc)

	for _, m := range cfg.Migrations {
		if err := migrationSvc.MigrateLegacyDepartments(ctx, m.Canonical, m.Aliases); err != nil {
			return fmt.Errorf("migrate legacy departments of %q: %w", m.Canonical, err)
		}
	}

	// Stable department order keeps runs reproducible.
	names := make([]string, 0, len(definition))
	for name := range definition {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		department, err := hierarchySvc.EnsureDepartment(ctx, name)
		if err != nil {
			return err
		}
		if err := hierarchySvc.Reseed(ctx, department, cfg.Branch, definition[name]); err != nil {
			return fmt.Errorf("reseed department %q: %w", name, err)
		}
		log.Info().Str("department", name).Str("branch", cfg.Branch).Msg("department reseeded")
	}
	return nil
}

// loadDefinition reads the hierarchy definition. With only a bucket configured
// the document comes from the object store; with only a local path, from disk.
// When both are configured the local file is the source of truth and gets
// published to the bucket before the run.
func loadDefinition(ctx context.Context, cfg *config.SeedConfig) (seed.Definition, error) {
	var raw []byte
	if cfg.Bucket != "" && cfg.Object != "" {
		store, err := services.NewMinioDefinitionStore(
			os.Getenv("MINIO_ENDPOINT"),
			os.Getenv("MINIO_ACCESS_KEY"),
			os.Getenv("MINIO_SECRET_KEY"),
			os.Getenv("MINIO_USE_SSL") == "true",
		)
		if err != nil {
			return nil, fmt.Errorf("connect object store: %w", err)
		}
		if cfg.DefinitionPath != "" {
			raw, err = os.ReadFile(cfg.DefinitionPath)
			if err != nil {
				return nil, fmt.Errorf("read definition file: %w", err)
			}
			if err := services.PublishDefinition(ctx, store, cfg.Bucket, cfg.Object, raw); err != nil {
				return nil, err
			}
			log.Info().Str("bucket", cfg.Bucket).Str("object", cfg.Object).Msg("definition published")
		} else {
			raw, err = store.FetchDefinition(ctx, cfg.Bucket, cfg.Object)
			if err != nil {
				return nil, fmt.Errorf("fetch definition %s/%s: %w", cfg.Bucket, cfg.Object, err)
			}
		}
	} else {
		var err error
		raw, err = os.ReadFile(cfg.DefinitionPath)
		if err != nil {
			return nil, fmt.Errorf("read definition file: %w", err)
		}
	}
	return seed.ParseDefinition(raw)
}

func newCacheService() caching.CacheService {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisDB := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if db, err := strconv.Atoi(s); err == nil {
			redisDB = db
		}
	}
	return caching.NewRedisCacheService(redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB)
}

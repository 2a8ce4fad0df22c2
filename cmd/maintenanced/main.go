package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"procurehub/internal/caching"
	"procurehub/internal/config"
	"procurehub/internal/jobs/background"
	"procurehub/internal/repositories"
	"procurehub/internal/services"
	"procurehub/pkg/database"
	"procurehub/pkg/logger"
)

// maintenanced is the long-running shape of the maintenance tooling: the same
// legacy-department sweep the seeder runs, on a schedule, plus periodic
// rewarming of the category forest cache.
func main() {
	_ = godotenv.Load()
	logger.Setup(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	ctx := context.Background()

	configPath := os.Getenv("SEED_CONFIG")
	if configPath == "" {
		configPath = "seed.toml"
	}
	cfg, err := config.LoadSeedConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

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
	cacheSvc := caching.NewRedisCacheService(redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB)

	categoryRepo := repositories.NewCategoryRepo(pool)
	departmentRepo := repositories.NewDepartmentRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	requestRepo := repositories.NewPurchaseRequestRepo(pool)

	hierarchySvc := services.NewHierarchyService(categoryRepo, departmentRepo, cacheSvc)
	migrationSvc := services.NewMigrationService(departmentRepo, userRepo, requestRepo, hierarchySvc, cacheSvc)
	categorySvc := services.NewCategoryService(categoryRepo, cacheSvc)

	scheduler, err := background.NewMaintenanceScheduler(migrationSvc, categorySvc, departmentRepo, cfg.Migrations)
	if err != nil {
		log.Fatal().Err(err).Msg("create scheduler")
	}
	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := scheduler.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown")
	}
}

// Health Simulator API
//
// REST API for generating plausible synthetic sleep and step data for
// virtual users.
//
//	@title			Health Simulator API
//	@version		1.0
//	@description	Create virtual users with behavioral baselines and generate deterministic, plausible sleep sessions and step distributions for them.
//
//	@BasePath	/v1
//
//	@tag.name			users
//	@tag.description	Virtual user management endpoints
//
//	@tag.name			generation
//	@tag.description	Simulation engine endpoints
//
//	@tag.name			series
//	@tag.description	Generated data retrieval endpoints
//
//	@tag.name			insights
//	@tag.description	LLM realism assessment endpoints
package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/blaisecz/health-simulator/internal/api"
	"github.com/blaisecz/health-simulator/internal/api/handler"
	"github.com/blaisecz/health-simulator/internal/config"
	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/blaisecz/health-simulator/internal/llm"
	"github.com/blaisecz/health-simulator/internal/repository"
	"github.com/blaisecz/health-simulator/internal/seed"
	"github.com/blaisecz/health-simulator/internal/service"
	"github.com/blaisecz/health-simulator/internal/sim"
	"github.com/blaisecz/health-simulator/internal/telemetry"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := newLogger(cfg)
	defer logger.Sync()

	ctx := context.Background()

	// Initialize tracing (no-op when no OTLP endpoint is configured)
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, "health-simulator-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(ctx)

	// Connect to database
	db, err := config.NewDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database schema
	if err := db.AutoMigrate(&domain.VirtualUser{}, &domain.SleepRecord{}, &domain.StepsRecord{}); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	if cfg.Seed {
		logger.Info("seeding database with fixture users (SEED=true)")
		if err := seed.Run(ctx, db); err != nil {
			logger.Fatal("failed to seed database", zap.Error(err))
		}
	}

	// Initialize repositories
	userRepo := repository.NewVirtualUserRepository(db)
	healthRepo := repository.NewHealthDataRepository(db)

	// Initialize the simulation engine
	classifier := sim.NewClassifier()
	orchestrator := sim.NewOrchestrator(
		sim.WithBatchDays(cfg.BatchDays),
		sim.WithQualityBounds(sim.QualityBounds{Min: cfg.MinQualityFactor, Max: cfg.MaxQualityFactor}),
	)

	// Initialize services
	userService := service.NewVirtualUserService(userRepo, classifier)
	generationService := service.NewGenerationService(orchestrator, userRepo, healthRepo, logger)

	// Initialize OpenAI client (may be nil if not configured)
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIInsightsModel)
	if openaiClient == nil {
		logger.Warn("OpenAI API key not configured, insights endpoint will be unavailable")
	}
	insightsService := service.NewInsightsService(openaiClient, classifier, userRepo, healthRepo)

	// Initialize handlers
	userHandler := handler.NewVirtualUserHandler(userService)
	generationHandler := handler.NewGenerationHandler(generationService)
	insightsHandler := handler.NewInsightsHandler(insightsService)

	// Setup router
	router := api.NewRouter(userHandler, generationHandler, insightsHandler, logger)
	routerHandler := router.Setup()

	// Start server
	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, routerHandler); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	if cfg.LogLevel == "debug" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/common"
	"github.com/ternarybob/trendboard/internal/handlers"
	"github.com/ternarybob/trendboard/internal/interfaces"
	"github.com/ternarybob/trendboard/internal/services/batch"
	"github.com/ternarybob/trendboard/internal/services/leaderboard"
	"github.com/ternarybob/trendboard/internal/services/platform"
	"github.com/ternarybob/trendboard/internal/services/scheduler"
	"github.com/ternarybob/trendboard/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Core services
	BatchService       interfaces.BatchService
	LeaderboardService interfaces.LeaderboardService
	PlatformService    interfaces.PlatformService
	SchedulerService   interfaces.SchedulerService

	// HTTP handlers
	APIHandler         *handlers.APIHandler
	BatchHandler       *handlers.BatchHandler
	LeaderboardHandler *handlers.LeaderboardHandler
	PlatformHandler    *handlers.PlatformHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Storage
	storageManager, err := badger.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	clock := common.SystemClock{}

	// Batch orchestration: freshness detector + workflow runner + orchestrator
	freshness := batch.NewFreshnessDetector(
		storageManager.RawSignalStorage(),
		storageManager.JobLogStorage(),
		logger,
	)
	runner := batch.NewProcessRunner(&cfg.Batch.Workflow, logger)
	app.BatchService = batch.NewService(freshness, runner, storageManager.JobLogStorage(), clock, logger)

	// Aggregation services
	app.LeaderboardService = leaderboard.NewService(storageManager.TrendStorage(), logger)
	app.PlatformService = platform.NewService(storageManager.PlatformStatStorage(), clock, logger)

	// Daily scheduler drives the same orchestrator as the manual trigger
	schedulerService, err := scheduler.NewService(app.BatchService, &cfg.Batch, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
	}
	app.SchedulerService = schedulerService

	// HTTP handlers
	app.APIHandler = handlers.NewAPIHandler()
	app.BatchHandler = handlers.NewBatchHandler(app.BatchService, &cfg.Batch, logger)
	app.LeaderboardHandler = handlers.NewLeaderboardHandler(app.LeaderboardService, &cfg.Batch, logger)
	app.PlatformHandler = handlers.NewPlatformHandler(app.PlatformService, &cfg.Batch, logger)

	logger.Info().Msg("Application initialized")

	return app, nil
}

// Start begins background services (the daily batch scheduler)
func (a *App) Start() error {
	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return nil
}

// Close shuts down background services and storage
func (a *App) Close() error {
	if a.SchedulerService != nil && a.SchedulerService.IsRunning() {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}

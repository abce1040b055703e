package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/common"
	"github.com/ternarybob/trendboard/internal/interfaces"
	"github.com/ternarybob/trendboard/internal/services/batch"
)

// Service implements the SchedulerService interface. It triggers the daily
// batch run through the same orchestrator entry point the manual trigger
// uses, so both paths share one skip/execute decision.
type Service struct {
	batchService interfaces.BatchService
	config       *common.BatchConfig
	cron         *cron.Cron
	logger       arbor.ILogger
	running      bool
}

// NewService creates a new scheduler service
func NewService(batchService interfaces.BatchService, config *common.BatchConfig, logger arbor.ILogger) (interfaces.SchedulerService, error) {
	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %s: %w", config.Timezone, err)
	}

	return &Service{
		batchService: batchService,
		config:       config,
		cron:         cron.New(cron.WithLocation(location)),
		logger:       logger,
	}, nil
}

// Start registers the daily batch job and begins the scheduler
func (s *Service) Start() error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := s.cron.AddFunc(s.config.Schedule, s.runScheduledBatch); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", s.config.Schedule).
		Str("timezone", s.config.Timezone).
		Msg("Daily batch scheduler started")

	return nil
}

// Stop halts the scheduler
func (s *Service) Stop() error {
	if !s.running {
		return nil
	}

	s.cron.Stop()
	s.running = false

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// IsRunning returns true if scheduler is active
func (s *Service) IsRunning() bool {
	return s.running
}

// runScheduledBatch executes the daily batch run with the configured defaults
func (s *Service) runScheduledBatch() {
	// Panic recovery to prevent service crash
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("PANIC RECOVERED in scheduled batch run")
		}
	}()

	s.logger.Info().Msg("Scheduled batch run triggered")

	params := interfaces.BatchParams{
		Country:  s.config.DefaultCountry,
		Category: s.config.DefaultCategory,
		Weeks:    s.config.DefaultWeeks,
	}

	result, err := s.batchService.Run(context.Background(), params)
	if err != nil {
		if errors.Is(err, batch.ErrJobAlreadyRunning) {
			s.logger.Warn().Msg("Scheduled batch run skipped, job already in flight")
			return
		}
		s.logger.Error().Err(err).Msg("Scheduled batch run failed")
		return
	}

	if result.Skipped {
		s.logger.Info().Str("reason", result.Reason).Msg("Scheduled batch run skipped")
		return
	}

	s.logger.Info().
		Int64("duration_ms", result.Duration).
		Msg("Scheduled batch run completed")
}

package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/common"
	"github.com/ternarybob/trendboard/internal/interfaces"
	"github.com/ternarybob/trendboard/internal/models"
)

// ErrJobAlreadyRunning is returned when an orchestration attempt for the same
// (country, category) pair is already in flight.
var ErrJobAlreadyRunning = errors.New("batch job already running for this country and category")

// Service implements the BatchService interface: the skip-or-run decision,
// workflow execution and append-only job log accounting.
type Service struct {
	freshness *FreshnessDetector
	runner    interfaces.WorkflowRunner
	jobLogs   interfaces.JobLogStorage
	clock     common.Clock
	logger    arbor.ILogger

	mu       sync.Mutex
	inFlight map[string]bool // keyed by country|category
}

// NewService creates a new batch orchestration service
func NewService(
	freshness *FreshnessDetector,
	runner interfaces.WorkflowRunner,
	jobLogs interfaces.JobLogStorage,
	clock common.Clock,
	logger arbor.ILogger,
) *Service {
	return &Service{
		freshness: freshness,
		runner:    runner,
		jobLogs:   jobLogs,
		clock:     clock,
		logger:    logger,
		inFlight:  make(map[string]bool),
	}
}

// Run executes one orchestration attempt for the given parameters.
//
// Exactly one terminal job log (completed, failed or skipped) is written per
// attempt. A second invocation for the same (country, category) pair while one
// is in flight fails fast with ErrJobAlreadyRunning instead of launching a
// duplicate workflow.
func (s *Service) Run(ctx context.Context, params interfaces.BatchParams) (*interfaces.BatchResult, error) {
	key := params.Country + "|" + params.Category
	if !s.acquire(key) {
		return nil, ErrJobAlreadyRunning
	}
	defer s.release(key)

	return s.run(ctx, params)
}

// StartAsync acquires the in-flight slot synchronously, then resolves the
// attempt in the background. The synchronous acquisition lets HTTP callers
// reject a duplicate trigger immediately while still acking before the
// workflow finishes.
func (s *Service) StartAsync(params interfaces.BatchParams) error {
	key := params.Country + "|" + params.Category
	if !s.acquire(key) {
		return ErrJobAlreadyRunning
	}

	go func() {
		defer s.release(key)
		if _, err := s.run(context.Background(), params); err != nil {
			s.logger.Error().Err(err).Msg("Background batch run failed")
		}
	}()

	return nil
}

func (s *Service) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[key] {
		return false
	}
	s.inFlight[key] = true
	return true
}

func (s *Service) release(key string) {
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}

// run resolves one attempt; the caller holds the in-flight slot
func (s *Service) run(ctx context.Context, params interfaces.BatchParams) (*interfaces.BatchResult, error) {
	startedAt := s.clock.Now()

	s.logger.Info().
		Str("country", params.Country).
		Str("category", params.Category).
		Int("weeks", params.Weeks).
		Msg("Batch job started")

	lastProcessed := s.freshness.LastProcessedTime(ctx)
	if lastProcessed == nil {
		s.logger.Info().Msg("No completed run found, treating as first run")
	} else {
		s.logger.Info().Str("last_processed", lastProcessed.Format(time.RFC3339)).Msg("Last processed time resolved")
	}

	// Skip only when a completed run already exists; the first run executes
	// even with zero raw records.
	if !s.freshness.HasNewData(ctx, lastProcessed) && lastProcessed != nil {
		return s.skip(ctx, startedAt)
	}

	return s.execute(ctx, params, startedAt)
}

// skip records a skipped attempt and returns a skipped result without
// invoking the workflow runner.
func (s *Service) skip(ctx context.Context, startedAt time.Time) (*interfaces.BatchResult, error) {
	completedAt := s.clock.Now()
	duration := completedAt.Sub(startedAt).Milliseconds()

	s.logger.Info().Msg("No new data since last run, skipping batch job")

	log := &models.BatchJobLog{
		JobType:     models.JobTypeLLMWorkflow,
		Status:      models.BatchJobStatusSkipped,
		Reason:      models.SkipReasonNoNewData,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    duration,
	}
	if err := s.jobLogs.AppendLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to record skipped batch job: %w", err)
	}

	return &interfaces.BatchResult{
		Skipped:  true,
		Reason:   models.SkipReasonNoNewData,
		Duration: duration,
	}, nil
}

// execute invokes the workflow runner and records the terminal outcome
func (s *Service) execute(ctx context.Context, params interfaces.BatchParams, startedAt time.Time) (*interfaces.BatchResult, error) {
	s.logger.Info().Msg("New data found, executing trend-extraction workflow")

	result, err := s.runner.Run(ctx, params.Country, params.Category, params.Weeks)

	completedAt := s.clock.Now()
	duration := completedAt.Sub(startedAt).Milliseconds()

	if err != nil {
		// The process could not be launched or tracked; record the attempt
		// as failed so it still resolves to exactly one terminal log.
		logErr := s.jobLogs.AppendLog(ctx, &models.BatchJobLog{
			JobType:     models.JobTypeLLMWorkflow,
			Status:      models.BatchJobStatusFailed,
			Error:       err.Error(),
			StartedAt:   startedAt,
			CompletedAt: completedAt,
			Duration:    duration,
		})
		if logErr != nil {
			s.logger.Error().Err(logErr).Msg("Failed to record failed batch job")
		}
		return nil, fmt.Errorf("workflow execution failed: %w", err)
	}

	if result.ExitCode != 0 {
		s.logger.Error().
			Int("exit_code", result.ExitCode).
			Msg("Batch job failed")

		logErr := s.jobLogs.AppendLog(ctx, &models.BatchJobLog{
			JobType:     models.JobTypeLLMWorkflow,
			Status:      models.BatchJobStatusFailed,
			Error:       result.Stderr,
			StartedAt:   startedAt,
			CompletedAt: completedAt,
			Duration:    duration,
		})
		if logErr != nil {
			s.logger.Error().Err(logErr).Msg("Failed to record failed batch job")
		}
		return nil, fmt.Errorf("workflow exited with code %d: %s", result.ExitCode, result.Stderr)
	}

	s.logger.Info().
		Int64("duration_ms", duration).
		Msg("Batch job completed")

	log := &models.BatchJobLog{
		JobType:     models.JobTypeLLMWorkflow,
		Status:      models.BatchJobStatusCompleted,
		Country:     params.Country,
		Category:    params.Category,
		Weeks:       params.Weeks,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    duration,
		Output:      result.Stdout,
	}
	if err := s.jobLogs.AppendLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to record completed batch job: %w", err)
	}

	return &interfaces.BatchResult{
		Duration: duration,
		Output:   result.Stdout,
	}, nil
}

// Status returns the most recent job log plus the last 10 logs
func (s *Service) Status(ctx context.Context) (*interfaces.BatchStatus, error) {
	logs, err := s.jobLogs.GetRecent(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent job logs: %w", err)
	}

	status := &interfaces.BatchStatus{RecentLogs: logs}
	if len(logs) > 0 {
		status.LastRun = logs[0]
	}
	return status, nil
}

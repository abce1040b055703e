package interfaces

import (
	"context"

	"github.com/ternarybob/trendboard/internal/models"
)

// BatchParams are the run parameters of one orchestration attempt
type BatchParams struct {
	Country  string `json:"country"`
	Category string `json:"category"`
	Weeks    int    `json:"weeks"`
}

// BatchResult is what an orchestration attempt resolved to
type BatchResult struct {
	Skipped  bool   `json:"skipped"`
	Reason   string `json:"reason,omitempty"`
	Duration int64  `json:"duration"` // Milliseconds
	Output   string `json:"output,omitempty"`
}

// BatchStatus is the orchestrator's view of recent attempts
type BatchStatus struct {
	LastRun    *models.BatchJobLog   `json:"last_run"`
	RecentLogs []*models.BatchJobLog `json:"recent_logs"`
}

// WorkflowResult captures the outcome of one external workflow process
type WorkflowResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// WorkflowRunner launches the external trend-extraction process.
// Completion is signaled exactly once via the process exit code; the runner
// never retries.
type WorkflowRunner interface {
	Run(ctx context.Context, country, category string, weeks int) (*WorkflowResult, error)
}

// BatchService is the orchestration engine: skip-or-run decision, workflow
// execution and job log accounting for one (country, category, weeks) window.
type BatchService interface {
	// Run executes one orchestration attempt. At most one attempt per
	// (country, category) pair may be in flight; concurrent invocations for
	// the same pair fail fast with ErrJobAlreadyRunning.
	Run(ctx context.Context, params BatchParams) (*BatchResult, error)

	// StartAsync acquires the in-flight slot synchronously and resolves the
	// attempt in the background. Returns ErrJobAlreadyRunning immediately
	// when the (country, category) pair is already in flight.
	StartAsync(params BatchParams) error

	// Status returns the most recent job log plus the last 10 logs
	Status(ctx context.Context) (*BatchStatus, error)
}

// SchedulerService runs the batch orchestration on a fixed daily cadence
type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// LeaderboardService aggregates trend records into ranked keyword leaderboards
type LeaderboardService interface {
	Aggregate(ctx context.Context, country, category, itemType, trendLevel string) (*models.Leaderboard, error)
}

// PlatformService derives per-platform keyword rankings from platform stats
type PlatformService interface {
	Rankings(ctx context.Context, country, platform string) ([]models.PlatformRanking, error)
	Latest(ctx context.Context, platform, country string) (*models.PlatformStat, error)
}

package models

import "time"

// BatchJobStatus represents the terminal (or in-flight) state of a batch attempt
type BatchJobStatus string

const (
	BatchJobStatusRunning   BatchJobStatus = "running"
	BatchJobStatusCompleted BatchJobStatus = "completed"
	BatchJobStatusFailed    BatchJobStatus = "failed"
	BatchJobStatusSkipped   BatchJobStatus = "skipped"
)

// JobTypeLLMWorkflow tags batch job logs written by the trend-extraction orchestration
const JobTypeLLMWorkflow = "llm_workflow"

// SkipReasonNoNewData is recorded when a run is skipped because no raw data
// arrived since the last completed run
const SkipReasonNoNewData = "no_new_data"

// BatchJobLog is an immutable audit record of one orchestration attempt.
// Logs are append-only; exactly one terminal status is written per attempt.
type BatchJobLog struct {
	ID          string         `json:"id" badgerhold:"key"`
	JobType     string         `json:"job_type" badgerhold:"index"`
	Status      BatchJobStatus `json:"status" badgerhold:"index"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at" badgerhold:"index"`
	Duration    int64          `json:"duration"` // Milliseconds
	Country     string         `json:"country,omitempty"`
	Category    string         `json:"category,omitempty"`
	Weeks       int            `json:"weeks,omitempty"`
	Reason      string         `json:"reason,omitempty"` // Present when skipped
	Output      string         `json:"output,omitempty"` // Truncated workflow stdout
	Error       string         `json:"error,omitempty"`  // Workflow stderr on failure
}

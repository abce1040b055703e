package badger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/interfaces"
	"github.com/ternarybob/trendboard/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// JobLogStorage implements the JobLogStorage interface for Badger.
// Batch job logs are append-only; records are never mutated after insert.
type JobLogStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewJobLogStorage creates a new JobLogStorage instance
func NewJobLogStorage(db *BadgerDB, logger arbor.ILogger) interfaces.JobLogStorage {
	return &JobLogStorage{
		db:     db,
		logger: logger,
	}
}

func (s *JobLogStorage) AppendLog(ctx context.Context, log *models.BatchJobLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	if err := s.db.Store().Insert(log.ID, log); err != nil {
		return fmt.Errorf("failed to append batch job log: %w", err)
	}

	s.logger.Debug().
		Str("log_id", log.ID).
		Str("status", string(log.Status)).
		Msg("Batch job log appended")

	return nil
}

func (s *JobLogStorage) GetLastCompleted(ctx context.Context) (*models.BatchJobLog, error) {
	var logs []*models.BatchJobLog
	query := badgerhold.Where("JobType").Eq(models.JobTypeLLMWorkflow).
		And("Status").Eq(models.BatchJobStatusCompleted).
		SortBy("CompletedAt").Reverse().Limit(1)

	if err := s.db.Store().Find(&logs, query); err != nil {
		return nil, fmt.Errorf("failed to get last completed job log: %w", err)
	}
	if len(logs) == 0 {
		return nil, nil
	}
	return logs[0], nil
}

func (s *JobLogStorage) GetRecent(ctx context.Context, limit int) ([]*models.BatchJobLog, error) {
	var logs []*models.BatchJobLog
	query := badgerhold.Where("JobType").Eq(models.JobTypeLLMWorkflow).
		SortBy("CompletedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := s.db.Store().Find(&logs, query); err != nil {
		return nil, fmt.Errorf("failed to get recent job logs: %w", err)
	}
	return logs, nil
}

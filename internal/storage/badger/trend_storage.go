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

// TrendStorage implements the TrendStorage interface for Badger
type TrendStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewTrendStorage creates a new TrendStorage instance
func NewTrendStorage(db *BadgerDB, logger arbor.ILogger) interfaces.TrendStorage {
	return &TrendStorage{
		db:     db,
		logger: logger,
	}
}

func (s *TrendStorage) GetTopByCountry(ctx context.Context, country string, limit int) ([]*models.TrendRecord, error) {
	var trends []*models.TrendRecord
	query := badgerhold.Where("Country").Eq(country).SortBy("Score").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := s.db.Store().Find(&trends, query); err != nil {
		return nil, fmt.Errorf("failed to get trends for country %s: %w", country, err)
	}
	return trends, nil
}

func (s *TrendStorage) StoreTrend(ctx context.Context, trend *models.TrendRecord) error {
	if trend.ID == "" {
		trend.ID = uuid.New().String()
	}

	if err := s.db.Store().Upsert(trend.ID, trend); err != nil {
		return fmt.Errorf("failed to store trend record: %w", err)
	}
	return nil
}

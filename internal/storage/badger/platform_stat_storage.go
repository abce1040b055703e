package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/interfaces"
	"github.com/ternarybob/trendboard/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// PlatformStatStorage implements the PlatformStatStorage interface for Badger
type PlatformStatStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewPlatformStatStorage creates a new PlatformStatStorage instance
func NewPlatformStatStorage(db *BadgerDB, logger arbor.ILogger) interfaces.PlatformStatStorage {
	return &PlatformStatStorage{
		db:     db,
		logger: logger,
	}
}

func (s *PlatformStatStorage) GetByCountrySince(ctx context.Context, country string, since time.Time, platform string) ([]*models.PlatformStat, error) {
	query := badgerhold.Where("Country").Eq(country).
		And("Date").Ge(since).
		SortBy("Date").Reverse()
	if platform != "" {
		query = query.And("Platform").Eq(platform)
	}

	var stats []*models.PlatformStat
	if err := s.db.Store().Find(&stats, query); err != nil {
		return nil, fmt.Errorf("failed to get platform stats for country %s: %w", country, err)
	}
	return stats, nil
}

func (s *PlatformStatStorage) GetLatest(ctx context.Context, platform, country string) (*models.PlatformStat, error) {
	var stats []*models.PlatformStat
	query := badgerhold.Where("Platform").Eq(platform).
		And("Country").Eq(country).
		SortBy("Date").Reverse().Limit(1)

	if err := s.db.Store().Find(&stats, query); err != nil {
		return nil, fmt.Errorf("failed to get latest platform stat for %s: %w", platform, err)
	}
	if len(stats) == 0 {
		return nil, nil
	}
	return stats[0], nil
}

func (s *PlatformStatStorage) StoreStat(ctx context.Context, stat *models.PlatformStat) error {
	if stat.ID == "" {
		stat.ID = uuid.New().String()
	}

	if err := s.db.Store().Upsert(stat.ID, stat); err != nil {
		return fmt.Errorf("failed to store platform stat: %w", err)
	}
	return nil
}

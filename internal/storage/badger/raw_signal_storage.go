package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/interfaces"
	"github.com/ternarybob/trendboard/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// RawSignalStorage implements read access over the three raw market-signal
// collections. External collectors own the writes.
type RawSignalStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRawSignalStorage creates a new RawSignalStorage instance
func NewRawSignalStorage(db *BadgerDB, logger arbor.ILogger) interfaces.RawSignalStorage {
	return &RawSignalStorage{
		db:     db,
		logger: logger,
	}
}

func (s *RawSignalStorage) CountSales(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.RawSalesRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count raw sales records: %w", err)
	}
	return int(count), nil
}

func (s *RawSignalStorage) CountSalesNewerThan(ctx context.Context, t time.Time) (int, error) {
	count, err := s.db.Store().Count(&models.RawSalesRecord{}, badgerhold.Where("Date").Gt(t))
	if err != nil {
		return 0, fmt.Errorf("failed to count new raw sales records: %w", err)
	}
	return int(count), nil
}

func (s *RawSignalStorage) CountReviewsNewerThan(ctx context.Context, t time.Time) (int, error) {
	count, err := s.db.Store().Count(&models.RawReview{}, badgerhold.Where("PostedAt").Gt(t))
	if err != nil {
		return 0, fmt.Errorf("failed to count new raw reviews: %w", err)
	}
	return int(count), nil
}

func (s *RawSignalStorage) CountPostsNewerThan(ctx context.Context, t time.Time) (int, error) {
	count, err := s.db.Store().Count(&models.RawSocialPost{}, badgerhold.Where("PostedAt").Gt(t))
	if err != nil {
		return 0, fmt.Errorf("failed to count new raw social posts: %w", err)
	}
	return int(count), nil
}

package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/trendboard/internal/models"
)

// JobLogStorage - append-only persistence for batch job logs
type JobLogStorage interface {
	// AppendLog writes one terminal (or running) log record. Logs are
	// immutable once written; there is no update operation.
	AppendLog(ctx context.Context, log *models.BatchJobLog) error

	// GetLastCompleted returns the most recent log with status=completed,
	// ordered by CompletedAt descending, or nil when none exists.
	GetLastCompleted(ctx context.Context) (*models.BatchJobLog, error)

	// GetRecent returns the most recent logs of any status, ordered by
	// CompletedAt descending.
	GetRecent(ctx context.Context, limit int) ([]*models.BatchJobLog, error)
}

// RawSignalStorage - read access to the raw market-signal collections
type RawSignalStorage interface {
	// CountSales returns the total number of raw retail sales records
	CountSales(ctx context.Context) (int, error)

	// CountSalesNewerThan returns the number of raw retail sales records with
	// a date strictly after t
	CountSalesNewerThan(ctx context.Context, t time.Time) (int, error)

	// CountReviewsNewerThan returns the number of raw reviews posted strictly after t
	CountReviewsNewerThan(ctx context.Context, t time.Time) (int, error)

	// CountPostsNewerThan returns the number of raw social posts posted strictly after t
	CountPostsNewerThan(ctx context.Context, t time.Time) (int, error)
}

// TrendStorage - read access to trend records written by the external workflow
type TrendStorage interface {
	// GetTopByCountry returns up to limit trend records for the country,
	// ordered by descending score.
	GetTopByCountry(ctx context.Context, country string, limit int) ([]*models.TrendRecord, error)

	// StoreTrend persists a trend record (used by seeding and tests; the
	// running system only reads this collection)
	StoreTrend(ctx context.Context, trend *models.TrendRecord) error
}

// PlatformStatStorage - read access to per-platform keyword statistics
type PlatformStatStorage interface {
	// GetByCountrySince returns stats for the country with Date >= since,
	// optionally filtered to one platform, ordered by descending date.
	GetByCountrySince(ctx context.Context, country string, since time.Time, platform string) ([]*models.PlatformStat, error)

	// GetLatest returns the most recent stat for the (platform, country)
	// pair regardless of window, or nil when none exists.
	GetLatest(ctx context.Context, platform, country string) (*models.PlatformStat, error)

	// StoreStat persists a platform stat (seeding and tests)
	StoreStat(ctx context.Context, stat *models.PlatformStat) error
}

// StorageManager - access to all storage interfaces
type StorageManager interface {
	JobLogStorage() JobLogStorage
	RawSignalStorage() RawSignalStorage
	TrendStorage() TrendStorage
	PlatformStatStorage() PlatformStatStorage
	Close() error
}

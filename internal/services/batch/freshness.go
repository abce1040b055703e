package batch

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/interfaces"
)

// FreshnessDetector decides whether unprocessed raw data exists since the last
// completed run.
type FreshnessDetector struct {
	rawSignals interfaces.RawSignalStorage
	jobLogs    interfaces.JobLogStorage
	logger     arbor.ILogger
}

// NewFreshnessDetector creates a new freshness detector
func NewFreshnessDetector(rawSignals interfaces.RawSignalStorage, jobLogs interfaces.JobLogStorage, logger arbor.ILogger) *FreshnessDetector {
	return &FreshnessDetector{
		rawSignals: rawSignals,
		jobLogs:    jobLogs,
		logger:     logger,
	}
}

// LastProcessedTime returns the CompletedAt of the most recent completed batch
// job log, or nil when no run has ever completed (first run).
func (d *FreshnessDetector) LastProcessedTime(ctx context.Context) *time.Time {
	lastRun, err := d.jobLogs.GetLastCompleted(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("Failed to query last completed job log, treating as first run")
		return nil
	}
	if lastRun == nil {
		return nil
	}
	return &lastRun.CompletedAt
}

// HasNewData reports whether raw input data has advanced since lastProcessed.
//
// On the first run ever (nil lastProcessed) it is true iff the primary raw
// collection holds at least one record. Otherwise it is true iff any raw
// collection holds a record strictly newer than lastProcessed.
//
// Storage failures fail closed: the detector reports no new data rather than
// propagating the error, preferring a skipped cycle over corrupted job
// accounting. The failure is logged so operators can spot storage outages.
func (d *FreshnessDetector) HasNewData(ctx context.Context, lastProcessed *time.Time) bool {
	if lastProcessed == nil {
		count, err := d.rawSignals.CountSales(ctx)
		if err != nil {
			d.logger.Warn().Err(err).Msg("Raw sales count failed, reporting no new data")
			return false
		}
		return count > 0
	}

	newSales, err := d.rawSignals.CountSalesNewerThan(ctx, *lastProcessed)
	if err != nil {
		d.logger.Warn().Err(err).Msg("New sales count failed, reporting no new data")
		return false
	}

	newReviews, err := d.rawSignals.CountReviewsNewerThan(ctx, *lastProcessed)
	if err != nil {
		d.logger.Warn().Err(err).Msg("New reviews count failed, reporting no new data")
		return false
	}

	newPosts, err := d.rawSignals.CountPostsNewerThan(ctx, *lastProcessed)
	if err != nil {
		d.logger.Warn().Err(err).Msg("New posts count failed, reporting no new data")
		return false
	}

	return newSales > 0 || newReviews > 0 || newPosts > 0
}

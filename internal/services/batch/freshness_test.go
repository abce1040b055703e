package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/models"
)

// fakeRawSignals is an in-memory RawSignalStorage for tests
type fakeRawSignals struct {
	sales   []time.Time
	reviews []time.Time
	posts   []time.Time
	err     error
}

func (f *fakeRawSignals) CountSales(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.sales), nil
}

func countNewer(times []time.Time, t time.Time) int {
	count := 0
	for _, ts := range times {
		if ts.After(t) {
			count++
		}
	}
	return count
}

func (f *fakeRawSignals) CountSalesNewerThan(ctx context.Context, t time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return countNewer(f.sales, t), nil
}

func (f *fakeRawSignals) CountReviewsNewerThan(ctx context.Context, t time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return countNewer(f.reviews, t), nil
}

func (f *fakeRawSignals) CountPostsNewerThan(ctx context.Context, t time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return countNewer(f.posts, t), nil
}

// fakeJobLogs is an in-memory JobLogStorage for tests
type fakeJobLogs struct {
	logs []*models.BatchJobLog
	err  error
}

func (f *fakeJobLogs) AppendLog(ctx context.Context, log *models.BatchJobLog) error {
	if f.err != nil {
		return f.err
	}
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeJobLogs) GetLastCompleted(ctx context.Context) (*models.BatchJobLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var last *models.BatchJobLog
	for _, log := range f.logs {
		if log.Status != models.BatchJobStatusCompleted {
			continue
		}
		if last == nil || log.CompletedAt.After(last.CompletedAt) {
			last = log
		}
	}
	return last, nil
}

func (f *fakeJobLogs) GetRecent(ctx context.Context, limit int) ([]*models.BatchJobLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	recent := make([]*models.BatchJobLog, len(f.logs))
	copy(recent, f.logs)
	// Newest first
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", value, err)
	}
	return parsed
}

func TestHasNewDataFirstRun(t *testing.T) {
	logger := arbor.NewLogger()

	tests := []struct {
		name  string
		sales []time.Time
		want  bool
	}{
		{"no raw records", nil, false},
		{"one raw record", []time.Time{time.Now()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := NewFreshnessDetector(&fakeRawSignals{sales: tt.sales}, &fakeJobLogs{}, logger)
			got := detector.HasNewData(context.Background(), nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasNewDataAfterLastProcessed(t *testing.T) {
	logger := arbor.NewLogger()
	last := mustTime(t, "2026-01-10T00:00:00Z")
	before := mustTime(t, "2026-01-09T00:00:00Z")
	after := mustTime(t, "2026-01-11T00:00:00Z")

	tests := []struct {
		name    string
		signals *fakeRawSignals
		want    bool
	}{
		{"everything older", &fakeRawSignals{sales: []time.Time{before}, reviews: []time.Time{before}, posts: []time.Time{before}}, false},
		{"newer sales only", &fakeRawSignals{sales: []time.Time{after}}, true},
		{"newer reviews only", &fakeRawSignals{reviews: []time.Time{after}}, true},
		{"newer posts only", &fakeRawSignals{posts: []time.Time{after}}, true},
		{"record at exactly lastProcessed", &fakeRawSignals{sales: []time.Time{last}}, false},
		{"empty collections", &fakeRawSignals{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := NewFreshnessDetector(tt.signals, &fakeJobLogs{}, logger)
			got := detector.HasNewData(context.Background(), &last)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasNewDataFailsClosed(t *testing.T) {
	logger := arbor.NewLogger()
	storeErr := errors.New("store unavailable")
	last := mustTime(t, "2026-01-10T00:00:00Z")

	detector := NewFreshnessDetector(&fakeRawSignals{err: storeErr}, &fakeJobLogs{}, logger)

	assert.False(t, detector.HasNewData(context.Background(), nil))
	assert.False(t, detector.HasNewData(context.Background(), &last))
}

func TestLastProcessedTime(t *testing.T) {
	logger := arbor.NewLogger()
	signals := &fakeRawSignals{}

	t.Run("no completed run", func(t *testing.T) {
		jobLogs := &fakeJobLogs{logs: []*models.BatchJobLog{
			{Status: models.BatchJobStatusFailed, CompletedAt: mustTime(t, "2026-01-09T00:00:00Z")},
			{Status: models.BatchJobStatusSkipped, CompletedAt: mustTime(t, "2026-01-10T00:00:00Z")},
		}}
		detector := NewFreshnessDetector(signals, jobLogs, logger)
		assert.Nil(t, detector.LastProcessedTime(context.Background()))
	})

	t.Run("most recent completed wins", func(t *testing.T) {
		newest := mustTime(t, "2026-01-10T00:00:00Z")
		jobLogs := &fakeJobLogs{logs: []*models.BatchJobLog{
			{Status: models.BatchJobStatusCompleted, CompletedAt: mustTime(t, "2026-01-05T00:00:00Z")},
			{Status: models.BatchJobStatusCompleted, CompletedAt: newest},
			{Status: models.BatchJobStatusFailed, CompletedAt: mustTime(t, "2026-01-12T00:00:00Z")},
		}}
		detector := NewFreshnessDetector(signals, jobLogs, logger)
		got := detector.LastProcessedTime(context.Background())
		assert.NotNil(t, got)
		assert.True(t, got.Equal(newest))
	})

	t.Run("query failure treated as first run", func(t *testing.T) {
		jobLogs := &fakeJobLogs{err: errors.New("store unavailable")}
		detector := NewFreshnessDetector(signals, jobLogs, logger)
		assert.Nil(t, detector.LastProcessedTime(context.Background()))
	})
}

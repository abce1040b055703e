package platform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/common"
	"github.com/ternarybob/trendboard/internal/interfaces"
	"github.com/ternarybob/trendboard/internal/models"
)

// ErrPlatformNotFound is returned when no stat exists for a (platform, country) pair
var ErrPlatformNotFound = errors.New("platform stats not found")

const (
	// recencyWindow bounds how far back platform stats are considered
	recencyWindow = 7 * 24 * time.Hour

	// maxKeywordsPerPlatform is the ranking depth per platform
	maxKeywordsPerPlatform = 5
)

// Service implements the PlatformService interface
type Service struct {
	stats  interfaces.PlatformStatStorage
	clock  common.Clock
	logger arbor.ILogger
}

// NewService creates a new platform ranking service
func NewService(stats interfaces.PlatformStatStorage, clock common.Clock, logger arbor.ILogger) *Service {
	return &Service{
		stats:  stats,
		clock:  clock,
		logger: logger,
	}
}

// Rankings returns the top keyword list per platform for the country within
// the last 7 days, optionally filtered to one platform. Per platform, the
// first-seen record in the descending-date query supplies the keyword list;
// records are not merged across days.
func (s *Service) Rankings(ctx context.Context, country, platform string) ([]models.PlatformRanking, error) {
	since := s.clock.Now().Add(-recencyWindow)

	stats, err := s.stats.GetByCountrySince(ctx, country, since, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform stats: %w", err)
	}

	seen := make(map[string]bool)
	rankings := make([]models.PlatformRanking, 0, len(stats))
	for _, stat := range stats {
		if seen[stat.Platform] {
			continue
		}
		seen[stat.Platform] = true
		rankings = append(rankings, models.PlatformRanking{
			Platform: stat.Platform,
			Keywords: topKeywords(stat.Keywords),
		})
	}

	s.logger.Debug().
		Str("country", country).
		Int("platforms", len(rankings)).
		Msg("Platform rankings computed")

	return rankings, nil
}

// Latest returns the most recent stat document for the (platform, country)
// pair regardless of window, or ErrPlatformNotFound.
func (s *Service) Latest(ctx context.Context, platform, country string) (*models.PlatformStat, error) {
	stat, err := s.stats.GetLatest(ctx, platform, country)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest platform stat: %w", err)
	}
	if stat == nil {
		return nil, ErrPlatformNotFound
	}
	return stat, nil
}

// topKeywords sorts a platform's keywords by descending value and truncates
// to the ranking depth.
func topKeywords(keywords []models.PlatformKeyword) []models.PlatformKeyword {
	sorted := make([]models.PlatformKeyword, len(keywords))
	copy(sorted, keywords)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})
	if len(sorted) > maxKeywordsPerPlatform {
		sorted = sorted[:maxKeywordsPerPlatform]
	}
	return sorted
}

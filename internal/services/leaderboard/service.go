package leaderboard

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/interfaces"
	"github.com/ternarybob/trendboard/internal/models"
)

const (
	// maxTrendRecords bounds how many trend records one aggregation reads,
	// which in turn bounds accumulator memory and latency.
	maxTrendRecords = 100

	// maxEntriesPerFacet is the leaderboard depth per facet
	maxEntriesPerFacet = 20

	// sentinelAvgRank is reported for a keyword seen only in records with no
	// rank data. A defensive default, not a real rank.
	sentinelAvgRank = 1000
)

// itemTypeFacets maps the caller-facing item type names to facet keys
var itemTypeFacets = map[string]string{
	"Ingredients": models.FacetIngredients,
	"Texture":     models.FacetFormulas,
	"Effects":     models.FacetEffects,
	"Visual/Mood": models.FacetMood,
}

// keywordScore accumulates one keyword's contributions across trend records.
// Transient: recomputed per leaderboard request, never persisted.
type keywordScore struct {
	keyword string
	score   float64
	count   int
	ranks   []float64
}

// Service implements the LeaderboardService interface
type Service struct {
	trends interfaces.TrendStorage
	logger arbor.ILogger
}

// NewService creates a new leaderboard aggregation service
func NewService(trends interfaces.TrendStorage, logger arbor.ILogger) *Service {
	return &Service{
		trends: trends,
		logger: logger,
	}
}

// Aggregate reads the top trend records for the country and derives the
// four-facet keyword leaderboard. When itemType names a single facet, only
// that facet is populated in the result.
//
// Storage read failures propagate; no partial or stale leaderboard is
// fabricated.
func (s *Service) Aggregate(ctx context.Context, country, category, itemType, trendLevel string) (*models.Leaderboard, error) {
	trends, err := s.trends.GetTopByCountry(ctx, country, maxTrendRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to load trend records: %w", err)
	}

	s.logger.Debug().
		Str("country", country).
		Int("records", len(trends)).
		Msg("Aggregating keyword leaderboard")

	facets := map[string]map[string]*keywordScore{
		models.FacetIngredients: {},
		models.FacetFormulas:    {},
		models.FacetEffects:     {},
		models.FacetMood:        {},
	}

	for _, trend := range trends {
		accumulate(facets[models.FacetIngredients], trend.Ingredients, trend)
		accumulate(facets[models.FacetFormulas], trend.Formulas, trend)
		accumulate(facets[models.FacetEffects], trend.Effects, trend)
		accumulate(facets[models.FacetMood], trend.Mood, trend)
	}

	board := &models.Leaderboard{}
	if itemType != "" {
		facet, ok := itemTypeFacets[itemType]
		if !ok {
			facet = models.FacetIngredients
		}
		setFacet(board, facet, rankKeywords(facets[facet]))
		return board, nil
	}

	board.Ingredients = rankKeywords(facets[models.FacetIngredients])
	board.Formulas = rankKeywords(facets[models.FacetFormulas])
	board.Effects = rankKeywords(facets[models.FacetEffects])
	board.Mood = rankKeywords(facets[models.FacetMood])
	return board, nil
}

// accumulate folds one trend record's score and rank into every keyword of a
// facet array. A keyword absent from the record contributes nothing.
func accumulate(scores map[string]*keywordScore, keywords []string, trend *models.TrendRecord) {
	for _, keyword := range keywords {
		kw, ok := scores[keyword]
		if !ok {
			kw = &keywordScore{keyword: keyword}
			scores[keyword] = kw
		}
		kw.score += trend.Score
		kw.count++
		// Zero means the record carried no rank data; it must not drag the
		// mean toward zero.
		if trend.AvgRank > 0 {
			kw.ranks = append(kw.ranks, trend.AvgRank)
		}
	}
}

// rankKeywords turns a facet's accumulators into the sorted, truncated,
// densely ranked leaderboard entries.
func rankKeywords(scores map[string]*keywordScore) []models.LeaderboardEntry {
	keywords := make([]*keywordScore, 0, len(scores))
	for _, kw := range scores {
		keywords = append(keywords, kw)
	}

	// Deterministic base order before the score sort so equal scores rank
	// identically across repeated calls.
	sort.Slice(keywords, func(i, j int) bool {
		return keywords[i].keyword < keywords[j].keyword
	})
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].score/float64(keywords[i].count) > keywords[j].score/float64(keywords[j].count)
	})

	if len(keywords) > maxEntriesPerFacet {
		keywords = keywords[:maxEntriesPerFacet]
	}

	entries := make([]models.LeaderboardEntry, 0, len(keywords))
	for i, kw := range keywords {
		meanScore := kw.score / float64(kw.count)

		avgRank := float64(sentinelAvgRank)
		if len(kw.ranks) > 0 {
			sum := 0.0
			for _, r := range kw.ranks {
				sum += r
			}
			avgRank = sum / float64(len(kw.ranks))
		}

		entries = append(entries, models.LeaderboardEntry{
			Rank:    i + 1,
			Keyword: kw.keyword,
			Score:   int(math.Round(meanScore)),
			Change:  0, // Week-over-week comparison is a future extension
			Metadata: models.EntryMetadata{
				Count:   kw.count,
				AvgRank: int(math.Round(avgRank)),
			},
		})
	}
	return entries
}

func setFacet(board *models.Leaderboard, facet string, entries []models.LeaderboardEntry) {
	switch facet {
	case models.FacetIngredients:
		board.Ingredients = entries
	case models.FacetFormulas:
		board.Formulas = entries
	case models.FacetEffects:
		board.Effects = entries
	case models.FacetMood:
		board.Mood = entries
	}
}

package models

// TrendRecord is one scored, ranked market signal written by the external
// trend-extraction workflow. The core treats these as read-only.
//
// Score and AvgRank are defined per record and contribute identically to every
// keyword in every facet array the record carries: a record with 3 ingredients
// and 2 effects contributes its score to all 5 keyword accumulators.
type TrendRecord struct {
	ID          string   `json:"id" badgerhold:"key"`
	Country     string   `json:"country" badgerhold:"index"`
	Category    string   `json:"category,omitempty"`
	Score       float64  `json:"score"`
	AvgRank     float64  `json:"avg_rank"`
	Ingredients []string `json:"ingredients,omitempty"`
	Formulas    []string `json:"formulas,omitempty"`
	Effects     []string `json:"effects,omitempty"`
	Mood        []string `json:"mood,omitempty"`
}

// Facet names for the four keyword categories of a leaderboard
const (
	FacetIngredients = "ingredients"
	FacetFormulas    = "formulas"
	FacetEffects     = "effects"
	FacetMood        = "mood"
)

// LeaderboardEntry is one ranked keyword in a facet leaderboard
type LeaderboardEntry struct {
	Rank     int           `json:"rank"` // 1-based, dense
	Keyword  string        `json:"keyword"`
	Score    int           `json:"score"`  // Rounded mean of contributing trend scores
	Change   int           `json:"change"` // Week-over-week delta; reserved, always 0
	Metadata EntryMetadata `json:"metadata"`
}

// EntryMetadata carries the accumulation detail behind a leaderboard entry
type EntryMetadata struct {
	Count   int `json:"count"`    // Number of trend records contributing
	AvgRank int `json:"avg_rank"` // Rounded mean rank, or 1000 when no rank data exists
}

// Leaderboard is the set of top-20 ranked keywords per facet, derived fresh
// from current trend records on every request.
type Leaderboard struct {
	Ingredients []LeaderboardEntry `json:"ingredients,omitempty"`
	Formulas    []LeaderboardEntry `json:"formulas,omitempty"`
	Effects     []LeaderboardEntry `json:"effects,omitempty"`
	Mood        []LeaderboardEntry `json:"mood,omitempty"`
}

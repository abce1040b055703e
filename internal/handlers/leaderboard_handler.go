package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/common"
	"github.com/ternarybob/trendboard/internal/interfaces"
)

// LeaderboardHandler exposes the aggregated keyword leaderboard
type LeaderboardHandler struct {
	leaderboardService interfaces.LeaderboardService
	config             *common.BatchConfig
	logger             arbor.ILogger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService interfaces.LeaderboardService, config *common.BatchConfig, logger arbor.ILogger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		config:             config,
		logger:             logger,
	}
}

// GetHandler returns the keyword leaderboard for the requested country and
// category, recomputed from current trend records on every request.
func (h *LeaderboardHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query()
	country := query.Get("country")
	if country == "" {
		country = h.config.DefaultCountry
	}
	category := query.Get("category")
	if category == "" {
		category = h.config.DefaultCategory
	}
	itemType := query.Get("itemType")
	trendLevel := query.Get("trendLevel")

	leaderboard, err := h.leaderboardService.Aggregate(r.Context(), country, category, itemType, trendLevel)
	if err != nil {
		WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"country":     country,
		"category":    category,
		"itemType":    itemType,
		"trendLevel":  trendLevel,
		"leaderboard": leaderboard,
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/common"
	"github.com/ternarybob/trendboard/internal/interfaces"
	"github.com/ternarybob/trendboard/internal/services/platform"
)

// PlatformHandler exposes per-platform keyword rankings
type PlatformHandler struct {
	platformService interfaces.PlatformService
	config          *common.BatchConfig
	logger          arbor.ILogger
}

// NewPlatformHandler creates a new platform handler
func NewPlatformHandler(platformService interfaces.PlatformService, config *common.BatchConfig, logger arbor.ILogger) *PlatformHandler {
	return &PlatformHandler{
		platformService: platformService,
		config:          config,
		logger:          logger,
	}
}

// RankingsHandler returns the ranked keyword lists per platform within the
// recency window, optionally filtered to a single platform.
func (h *PlatformHandler) RankingsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query()
	country := query.Get("country")
	if country == "" {
		country = h.config.DefaultCountry
	}
	platformName := query.Get("platform")

	rankings, err := h.platformService.Rankings(r.Context(), country, platformName)
	if err != nil {
		WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"country":   country,
		"platforms": rankings,
	})
}

// LatestHandler returns the most recent stat document for one platform,
// routed as /api/sns-platform/{platform}.
func (h *PlatformHandler) LatestHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	platformName := strings.TrimPrefix(r.URL.Path, "/api/sns-platform/")
	if platformName == "" || strings.Contains(platformName, "/") {
		WriteError(w, http.StatusBadRequest, "platform is required")
		return
	}

	country := r.URL.Query().Get("country")
	if country == "" {
		country = h.config.DefaultCountry
	}

	stat, err := h.platformService.Latest(r.Context(), platformName, country)
	if err != nil {
		if errors.Is(err, platform.ErrPlatformNotFound) {
			WriteError(w, http.StatusNotFound, "platform stats not found")
			return
		}
		WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"platform": stat.Platform,
		"country":  stat.Country,
		"keywords": stat.Keywords,
		"date":     stat.Date,
	})
}

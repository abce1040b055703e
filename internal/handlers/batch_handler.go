package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/trendboard/internal/common"
	"github.com/ternarybob/trendboard/internal/interfaces"
	"github.com/ternarybob/trendboard/internal/services/batch"
)

// BatchHandler exposes the manual batch trigger and status endpoints
type BatchHandler struct {
	batchService interfaces.BatchService
	config       *common.BatchConfig
	logger       arbor.ILogger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(batchService interfaces.BatchService, config *common.BatchConfig, logger arbor.ILogger) *BatchHandler {
	return &BatchHandler{
		batchService: batchService,
		config:       config,
		logger:       logger,
	}
}

type runBatchRequest struct {
	Country  string `json:"country"`
	Category string `json:"category"`
	Weeks    int    `json:"weeks"`
}

// RunHandler starts an orchestration attempt in the background and responds
// immediately with an acknowledgment. The eventual outcome is only visible
// through the status endpoint; a failed run never blocks the trigger.
func (h *BatchHandler) RunHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	req := runBatchRequest{}
	if r.Body != nil {
		// An empty body means run with defaults
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	params := interfaces.BatchParams{
		Country:  req.Country,
		Category: req.Category,
		Weeks:    req.Weeks,
	}
	if params.Country == "" {
		params.Country = h.config.DefaultCountry
	}
	if params.Category == "" {
		params.Category = h.config.DefaultCategory
	}
	if params.Weeks <= 0 {
		params.Weeks = h.config.DefaultWeeks
	}

	h.logger.Info().
		Str("country", params.Country).
		Str("category", params.Category).
		Int("weeks", params.Weeks).
		Msg("Manual batch run requested")

	// Duplicate in-flight runs are rejected synchronously; everything else
	// resolves in the background and is visible via the status endpoint.
	if err := h.batchService.StartAsync(params); err != nil {
		if errors.Is(err, batch.ErrJobAlreadyRunning) {
			WriteError(w, http.StatusConflict, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "started",
		"message":  "Batch job started, running in background",
		"country":  params.Country,
		"category": params.Category,
		"weeks":    params.Weeks,
	})
}

// StatusHandler returns the most recent job log plus the last 10 logs
func (h *BatchHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status, err := h.batchService.Status(r.Context())
	if err != nil {
		WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, status)
}

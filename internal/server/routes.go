package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Batch orchestration
	mux.HandleFunc("/api/batch/run", s.app.BatchHandler.RunHandler)       // POST - manual trigger (async)
	mux.HandleFunc("/api/batch/status", s.app.BatchHandler.StatusHandler) // GET - last run + recent logs

	// API routes - Leaderboard
	mux.HandleFunc("/api/leaderboard", s.app.LeaderboardHandler.GetHandler)

	// API routes - SNS platform rankings
	mux.HandleFunc("/api/sns-platform/rankings", s.app.PlatformHandler.RankingsHandler)
	mux.HandleFunc("/api/sns-platform/", s.app.PlatformHandler.LatestHandler) // GET /{platform}

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

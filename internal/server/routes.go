package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/jkwon/wondash/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// Market data
	mux.HandleFunc("/api/market/indices", s.handleMarketIndices)
	mux.HandleFunc("/api/market/search", s.handleMarketSearch)
	mux.HandleFunc("/api/market/series/", s.handleMarketSeries)

	// Portfolios (authenticated)
	mux.HandleFunc("/api/portfolios/", s.requireAuth(s.routePortfolios))
	mux.HandleFunc("/api/portfolios", s.requireAuth(s.handlePortfolioList))

	// Presets
	mux.HandleFunc("/api/presets/scores", s.handlePresetScores)
	mux.HandleFunc("/api/presets/", s.routePresets)
	mux.HandleFunc("/api/presets", s.handlePresetList)

	// Client-state sync (authenticated)
	mux.HandleFunc("/api/sync/", s.requireAuth(s.routeSync))
	mux.HandleFunc("/api/sync", s.requireAuth(s.handleSyncList))
}

// routePortfolios dispatches /api/portfolios/{name}/* to the appropriate handler.
func (s *Server) routePortfolios(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/portfolios/")
	if path == "" {
		s.handlePortfolioList(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	name := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "":
		s.handlePortfolioGet(w, r, name)
	case "analyze":
		s.handlePortfolioAnalyze(w, r, name)
	case "chart":
		s.handlePortfolioChart(w, r, name)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// routePresets dispatches /api/presets/{id}/score.
func (s *Server) routePresets(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/presets/")
	if path == "" {
		s.handlePresetList(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 2 && parts[1] == "score" {
		s.handlePresetScore(w, r, parts[0])
		return
	}
	WriteError(w, http.StatusNotFound, "Not found")
}

// routeSync dispatches /api/sync/{key}.
func (s *Server) routeSync(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/sync/")
	if key == "" {
		s.handleSyncList(w, r)
		return
	}
	if strings.Contains(key, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleSyncKey(w, r, key)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       s.config.Environment,
		"storage_backend":   s.config.Storage.Backend,
		"indices":           s.config.Market.Indices,
		"fx_pair":           s.config.Market.FXPair,
		"fx_fallback_rate":  s.config.Market.FXFallbackRate,
		"timezone":          s.config.Market.Timezone,
		"default_range":     s.config.Analytics.DefaultRange,
		"probe_ranges":      s.config.Analytics.ProbeRanges,
		"logging_level":     s.config.Logging.Level,
		"gemini_configured": s.geminiConfigured,
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

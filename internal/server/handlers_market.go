package server

import "net/http"

// handleMarketIndices handles GET /api/market/indices.
func (s *Server) handleMarketIndices(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	quotes, err := s.market.GetIndices(r.Context())
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"indices": quotes})
}

// handleMarketSearch handles GET /api/market/search?q=...
func (s *Server) handleMarketSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	matches, err := s.market.Search(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// handleMarketSeries handles GET /api/market/series/{symbol}?range=...
func (s *Server) handleMarketSeries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/market/series/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required in path")
		return
	}

	rng := r.URL.Query().Get("range")
	if rng == "" {
		rng = s.config.Analytics.DefaultRange
	}

	series, err := s.market.GetSeries(r.Context(), symbol, rng)
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, series)
}

package server

import (
	"errors"
	"net/http"

	"github.com/jkwon/wondash/internal/models"
	"github.com/jkwon/wondash/internal/storage"
)

// handlePortfolioList handles /api/portfolios: GET lists the caller's
// portfolios, POST creates or replaces one.
func (s *Server) handlePortfolioList(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		portfolios, err := s.portfolios.ListPortfolios(r.Context(), userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"portfolios": portfolios})

	case http.MethodPost:
		var req struct {
			Name     string           `json:"name"`
			Holdings []models.Holding `json:"holdings"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		portfolio, err := s.portfolios.SavePortfolio(r.Context(), userID, req.Name, req.Holdings)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, portfolio)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handlePortfolioGet handles /api/portfolios/{name}: GET, PUT, DELETE.
func (s *Server) handlePortfolioGet(w http.ResponseWriter, r *http.Request, name string) {
	userID := userIDFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		portfolio, err := s.portfolios.GetPortfolio(r.Context(), userID, name)
		if err != nil {
			writeStorageError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, portfolio)

	case http.MethodPut:
		var req struct {
			Holdings []models.Holding `json:"holdings"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		portfolio, err := s.portfolios.SavePortfolio(r.Context(), userID, name, req.Holdings)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, portfolio)

	case http.MethodDelete:
		if err := s.portfolios.DeletePortfolio(r.Context(), userID, name); err != nil {
			writeStorageError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handlePortfolioAnalyze handles GET /api/portfolios/{name}/analyze?range=...
func (s *Server) handlePortfolioAnalyze(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := userIDFromContext(r.Context())
	rng := r.URL.Query().Get("range")

	report, err := s.portfolios.Analyze(r.Context(), userID, name, rng)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// handlePortfolioChart handles GET /api/portfolios/{name}/chart?range=...
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := userIDFromContext(r.Context())
	rng := r.URL.Query().Get("range")

	png, err := s.portfolios.RenderChart(r.Context(), userID, name, rng)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// writeStorageError maps missing records to 404 and everything else to 500.
func writeStorageError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteError(w, http.StatusInternalServerError, err.Error())
}

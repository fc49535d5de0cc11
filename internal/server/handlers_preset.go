package server

import "net/http"

// handlePresetList handles GET /api/presets.
func (s *Server) handlePresetList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"presets": s.presets.List()})
}

// handlePresetScores handles GET /api/presets/scores.
func (s *Server) handlePresetScores(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	scores, err := s.presets.ScoreAll(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"scores": scores})
}

// handlePresetScore handles GET /api/presets/{id}/score.
func (s *Server) handlePresetScore(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	score, err := s.presets.Score(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, score)
}

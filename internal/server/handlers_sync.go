package server

import (
	"encoding/json"
	"io"
	"net/http"
)

// handleSyncList handles GET /api/sync: list the caller's stored keys.
func (s *Server) handleSyncList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	userID := userIDFromContext(r.Context())
	keys, err := s.storage.Sync().ListKeys(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if keys == nil {
		keys = []string{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"keys": keys})
}

// handleSyncKey handles /api/sync/{key}: GET, PUT, DELETE of one opaque
// client-state blob.
func (s *Server) handleSyncKey(w http.ResponseWriter, r *http.Request, key string) {
	userID := userIDFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		rec, err := s.storage.Sync().Get(r.Context(), userID, key)
		if err != nil {
			writeStorageError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, rec)

	case http.MethodPut:
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "failed to read body")
			return
		}
		if !json.Valid(body) {
			WriteError(w, http.StatusBadRequest, "body must be valid JSON")
			return
		}
		if err := s.storage.Sync().Put(r.Context(), userID, key, body); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "saved"})

	case http.MethodDelete:
		if err := s.storage.Sync().Delete(r.Context(), userID, key); err != nil {
			writeStorageError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

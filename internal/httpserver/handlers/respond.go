package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"simplyblog/internal/service"
	"simplyblog/internal/store"
)

// pageParams reads skip/limit query parameters for list endpoints.
func pageParams(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit = store.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return skip, limit
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondError maps the service error taxonomy onto HTTP statuses. Every
// auth failure collapses to 401 for the client; the distinct kinds stay
// visible in logs and tests.
func respondError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, map[string]any{"detail": verr.Reasons})
	case errors.Is(err, service.ErrConflict):
		respondJSON(w, http.StatusConflict, map[string]any{"detail": "Another user already registered with same email."})
	case errors.Is(err, service.ErrUnauthorized):
		respondJSON(w, http.StatusUnauthorized, map[string]any{"detail": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]any{"detail": "not found"})
	case errors.Is(err, store.ErrDuplicate):
		respondJSON(w, http.StatusConflict, map[string]any{"detail": "already exists"})
	default:
		respondJSON(w, http.StatusInternalServerError, map[string]any{"detail": "internal error"})
	}
}

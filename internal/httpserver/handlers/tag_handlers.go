package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"simplyblog/internal/models"
	"simplyblog/internal/store"
)

func CreateTag(tags *store.TagStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		t := models.Tag{Name: req.Name}
		if err := tags.Create(r.Context(), &t); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondJSON(w, http.StatusConflict, map[string]any{"detail": "Tag already exists"})
				return
			}
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, t)
	}
}

func ListTags(tags *store.TagStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pageParams(r)
		ts, err := tags.List(r.Context(), skip, limit)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, ts)
	}
}

func GetTag(tags *store.TagStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := tags.FindByUID(r.Context(), chi.URLParam(r, "uid"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, t)
	}
}

func UpdateTag(tags *store.TagStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name *string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		t, err := tags.FindByUID(r.Context(), chi.URLParam(r, "uid"))
		if err != nil {
			respondError(w, err)
			return
		}
		if req.Name != nil {
			t.Name = strings.TrimSpace(*req.Name)
		}
		if err := tags.Update(r.Context(), t); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondJSON(w, http.StatusConflict, map[string]any{"detail": "Tag already exists"})
				return
			}
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, t)
	}
}

func DeleteTag(tags *store.TagStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := tags.Delete(r.Context(), chi.URLParam(r, "uid")); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"deleted": true})
	}
}

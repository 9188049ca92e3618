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

func CreateCategory(categories *store.CategoryStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description,omitempty"`
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
		c := models.Category{Name: req.Name, Description: req.Description}
		if err := categories.Create(r.Context(), &c); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondJSON(w, http.StatusConflict, map[string]any{"detail": "Category already exists"})
				return
			}
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, c)
	}
}

func ListCategories(categories *store.CategoryStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pageParams(r)
		cs, err := categories.List(r.Context(), skip, limit)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, cs)
	}
}

func GetCategory(categories *store.CategoryStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := categories.FindByUID(r.Context(), chi.URLParam(r, "uid"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}

func UpdateCategory(categories *store.CategoryStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c, err := categories.FindByUID(r.Context(), chi.URLParam(r, "uid"))
		if err != nil {
			respondError(w, err)
			return
		}
		if req.Name != nil {
			c.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			c.Description = *req.Description
		}
		if err := categories.Update(r.Context(), c); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}

func DeleteCategory(categories *store.CategoryStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := categories.Delete(r.Context(), chi.URLParam(r, "uid")); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"deleted": true})
	}
}

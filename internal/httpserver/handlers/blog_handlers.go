package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"simplyblog/internal/auth"
	"simplyblog/internal/mediastore"
	"simplyblog/internal/models"
	"simplyblog/internal/store"
)

type blogReq struct {
	Title         string   `json:"title"`
	Body          string   `json:"body"`
	Slug          string   `json:"slug,omitempty"`
	CategoryUID   string   `json:"cat_id"`
	TagUIDs       []string `json:"tags,omitempty"`
	IsFeatured    bool     `json:"is_featured,omitempty"`
	FeaturedImage string   `json:"featured_image,omitempty"` // base64 data URI
}

func CreateBlog(blogs *store.BlogStore, categories *store.CategoryStore, tags *store.TagStore,
	media mediastore.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req blogReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" || req.Body == "" {
			http.Error(w, "title and body required", http.StatusBadRequest)
			return
		}
		cat, err := categories.FindByUID(r.Context(), req.CategoryUID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondJSON(w, http.StatusBadRequest, map[string]any{"detail": "Category not found"})
				return
			}
			respondError(w, err)
			return
		}
		owner := auth.UserFromContext(r.Context())
		b := models.Blog{
			Title:       req.Title,
			Body:        req.Body,
			Slug:        req.Slug,
			CategoryUID: cat.UID,
			UserUID:     owner.UID,
			IsFeatured:  req.IsFeatured,
		}
		if req.FeaturedImage != "" {
			url, err := media.UploadImage(r.Context(), req.FeaturedImage)
			if err != nil {
				if errors.Is(err, mediastore.ErrUnsupportedImage) {
					respondJSON(w, http.StatusBadRequest, map[string]any{"detail": err.Error()})
					return
				}
				lg.Errorw("featured image upload failed", "error", err)
				respondError(w, err)
				return
			}
			b.FeaturedImage = url
		}
		if len(req.TagUIDs) > 0 {
			found, err := tags.FindByUIDs(r.Context(), req.TagUIDs)
			if err != nil {
				respondError(w, err)
				return
			}
			b.Tags = found
		}
		if err := blogs.Create(r.Context(), &b); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondJSON(w, http.StatusConflict, map[string]any{"detail": "Blog with same title already exists"})
				return
			}
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, b)
	}
}

func ListBlogs(blogs *store.BlogStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pageParams(r)
		var (
			bs  []models.Blog
			err error
		)
		switch {
		case r.URL.Query().Has("featured"):
			bs, err = blogs.ListFeatured(r.Context(), skip, limit)
		case r.URL.Query().Has("trending"):
			bs, err = blogs.ListTrending(r.Context(), skip, limit)
		default:
			bs, err = blogs.List(r.Context(), skip, limit)
		}
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, bs)
	}
}

func ListBlogsByUser(blogs *store.BlogStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pageParams(r)
		bs, err := blogs.ListByUser(r.Context(), chi.URLParam(r, "uid"), skip, limit)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, bs)
	}
}

func GetBlog(blogs *store.BlogStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := blogs.FindByUID(r.Context(), chi.URLParam(r, "uid"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, b)
	}
}

func UpdateBlog(blogs *store.BlogStore, tags *store.TagStore, media mediastore.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title         *string  `json:"title"`
			Body          *string  `json:"body"`
			Slug          *string  `json:"slug"`
			IsFeatured    *bool    `json:"is_featured"`
			FeaturedImage *string  `json:"featured_image"`
			TagUIDs       []string `json:"tags"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, err := blogs.FindByUID(r.Context(), chi.URLParam(r, "uid"))
		if err != nil {
			respondError(w, err)
			return
		}
		if req.Title != nil {
			b.Title = strings.TrimSpace(*req.Title)
		}
		if req.Body != nil {
			b.Body = *req.Body
		}
		if req.Slug != nil {
			b.Slug = *req.Slug
		}
		if req.IsFeatured != nil {
			b.IsFeatured = *req.IsFeatured
		}
		if req.FeaturedImage != nil && *req.FeaturedImage != "" {
			url, err := media.UploadImage(r.Context(), *req.FeaturedImage)
			if err != nil {
				if errors.Is(err, mediastore.ErrUnsupportedImage) {
					respondJSON(w, http.StatusBadRequest, map[string]any{"detail": err.Error()})
					return
				}
				respondError(w, err)
				return
			}
			b.FeaturedImage = url
		}
		if req.TagUIDs != nil {
			found, err := tags.FindByUIDs(r.Context(), req.TagUIDs)
			if err != nil {
				respondError(w, err)
				return
			}
			if err := blogs.ReplaceTags(r.Context(), b, found); err != nil {
				respondError(w, err)
				return
			}
		}
		// every edit bumps the trend rank, mirroring view-driven ranking
		b.TrendRank++
		if err := blogs.Update(r.Context(), b); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, b)
	}
}

func DeleteBlog(blogs *store.BlogStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := blogs.Delete(r.Context(), chi.URLParam(r, "uid")); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"deleted": true})
	}
}

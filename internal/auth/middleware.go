package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"simplyblog/internal/models"
)

// Authorizer resolves a bearer token to its owning user.
type Authorizer interface {
	Authorize(ctx context.Context, accessToken string) (*models.User, error)
}

// BearerToken extracts the raw token from an Authorization header value.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// RequireUser gates a route group on a valid, sessioned access token and puts
// the resolved user on the request context. Failures carry the authorizer's
// reason in the same {"detail": ...} shape the handlers use.
func RequireUser(a Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				respondUnauthorized(w, "Could not authorize client")
				return
			}
			u, err := a.Authorize(r.Context(), raw)
			if err != nil {
				respondUnauthorized(w, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func respondUnauthorized(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"detail": reason})
}

package auth

import (
	"context"

	"simplyblog/internal/models"
)

type ctxKey string

const userKey ctxKey = "currentUser"

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) *models.User {
	if u, ok := ctx.Value(userKey).(*models.User); ok {
		return u
	}
	return nil
}

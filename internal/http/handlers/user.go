package handlers

import (
	"context"
	"net/http"
)

type userKey struct{}

// WithUserID stores the calling user id in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID returns the calling user id set by the user scope middleware.
func UserID(r *http.Request) string {
	if value, ok := r.Context().Value(userKey{}).(string); ok {
		return value
	}
	return ""
}

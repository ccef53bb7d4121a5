package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID  ctxKey = "user_id"
	CtxKeySession ctxKey = "session"
	CtxKeyBearer  ctxKey = "bearer"
)

// UserIDFromContext returns the authenticated user, or "" for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// BearerFromContext returns the raw bearer token accepted by AuthnMiddleware.
func BearerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyBearer).(string); ok {
		return v
	}
	return ""
}

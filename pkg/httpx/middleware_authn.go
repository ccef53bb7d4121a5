package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/bananabrain/pkg/slogx"
)

// ErrNoBearer is returned by BearerToken when the request carries no usable
// Authorization header.
var ErrNoBearer = errors.New("missing bearer token")

// BearerResolver turns a bearer token into an authenticated context. It
// returns an error if the token is unknown, expired or revoked.
type BearerResolver func(ctx context.Context, token string) (context.Context, error)

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	if len(authz) < len("Bearer ") || !strings.EqualFold(authz[:len("Bearer ")], "Bearer ") {
		return "", ErrNoBearer
	}
	raw := strings.TrimSpace(authz[len("Bearer "):])
	if raw == "" {
		return "", ErrNoBearer
	}
	return raw, nil
}

// AuthnMiddleware rejects requests without a valid bearer token.
func AuthnMiddleware(resolve BearerResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, err := BearerToken(r)
			if err != nil {
				writeBearerError(w, "missing bearer token")
				return
			}

			authed, err := resolve(ctx, raw)
			if err != nil {
				log.Warn("bearer rejected", "err", err)
				writeBearerError(w, "session is invalid or expired")
				return
			}

			authed = context.WithValue(authed, CtxKeyBearer, raw)
			next.ServeHTTP(w, r.WithContext(authed))
		})
	}
}

// OptionalAuthn resolves a bearer token when one is present and otherwise
// passes the request through anonymously. An invalid token is treated as
// no token.
func OptionalAuthn(resolve BearerResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := BearerToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			authed, err := resolve(r.Context(), raw)
			if err != nil {
				slogx.FromContext(r.Context()).Debug("ignoring invalid bearer", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			authed = context.WithValue(authed, CtxKeyBearer, raw)
			next.ServeHTTP(w, r.WithContext(authed))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}

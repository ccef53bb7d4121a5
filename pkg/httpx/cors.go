package httpx

import (
	"net/http"
	"strings"
)

// CORSConfig controls the headers set by CORS.
type CORSConfig struct {
	AllowOrigin  string
	AllowHeaders []string
	AllowMethods []string
}

// PermissiveCORS lets any browser origin call the game endpoints.
var PermissiveCORS = CORSConfig{
	AllowOrigin:  "*",
	AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
}

// CORS sets the cross-origin headers on every response and answers OPTIONS
// preflight requests directly without reaching next.
func CORS(cfg CORSConfig) Middleware {
	headers := strings.Join(cfg.AllowHeaders, ", ")
	methods := strings.Join(cfg.AllowMethods, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", cfg.AllowOrigin)
			h.Set("Access-Control-Allow-Headers", headers)
			h.Set("Access-Control-Allow-Methods", methods)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/bananabrain/internal/gate/service"
	"github.com/aussiebroadwan/bananabrain/pkg/httpx"
	"github.com/aussiebroadwan/bananabrain/pkg/slogx"
)

// statusFor is the default HTTP status of each failure kind. Some endpoints
// override it to keep the status codes their clients already expect.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindInvalidToken, service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindInvalidRequest, service.KindInvalidCode,
		service.KindPasswordMismatch, service.KindWeakPassword:
		return http.StatusBadRequest
	case service.KindPhaseRequired:
		return http.StatusForbidden
	case service.KindNoVerifiedFactor, service.KindNoPendingChallenge:
		return http.StatusConflict
	case service.KindProviderError, service.KindUpstreamUnavailable:
		return http.StatusBadGateway
	case service.KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeServiceError writes err as {error, kind}. Client faults are logged at
// Warn, server faults at Error.
func writeServiceError(w http.ResponseWriter, r *http.Request, status int, err error) {
	kind := service.KindOf(err)
	msg := http.StatusText(status)

	var se *service.Error
	if errors.As(err, &se) && se.Message != "" {
		msg = se.Message
	}

	log := slogx.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "kind", kind, "status", status, "err", err)
	} else {
		log.Warn("request rejected", "kind", kind, "status", status, "err", err)
	}

	httpx.WriteError(w, status, string(kind), msg)
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Warn("invalid request body", "err", err)
	httpx.WriteError(w, http.StatusBadRequest, string(service.KindInvalidRequest), "Invalid JSON body")
}

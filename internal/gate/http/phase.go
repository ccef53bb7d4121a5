package http

import (
	"context"
	"net/http"
	"path"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/aussiebroadwan/bananabrain/internal/gate/service"
	"github.com/aussiebroadwan/bananabrain/pkg/gatesdk"
	"github.com/aussiebroadwan/bananabrain/pkg/httpx"
	"github.com/aussiebroadwan/bananabrain/pkg/slogx"
)

// PhaseHandler runs one assurance evaluation for the caller.
type PhaseHandler struct {
	Source    service.AssuranceSource
	ResetPath string
	Timeout   time.Duration
	Events    *service.SessionEvents
}

func (h *PhaseHandler) timeout() time.Duration {
	if h.Timeout <= 0 {
		return service.DefaultUpstreamTimeout
	}
	return h.Timeout
}

func (h *PhaseHandler) onResetPath(clientPath string) bool {
	return h.ResetPath != "" && clientPath != "" && path.Clean("/"+clientPath) == path.Clean(h.ResetPath)
}

// evaluate fails closed: on error the phase is needs-auth and the message
// is returned for display.
func (h *PhaseHandler) evaluate(ctx context.Context, clientPath string) gatesdk.PhaseResponse {
	var sess *domain.Session
	if s, ok := sessionFrom(ctx); ok {
		sess = &s
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout())
	defer cancel()

	phase, err := service.Evaluate(ctx, h.Source, sess, h.onResetPath(clientPath))
	if err != nil {
		slogx.FromContext(ctx).Warn("assurance evaluation failed closed", "err", err)
		return gatesdk.PhaseResponse{Phase: phase.String(), Error: err.Error()}
	}
	return gatesdk.PhaseResponse{Phase: phase.String()}
}

// HandlePhase handles GET /v1/session/phase
//
//	@Summary		Current assurance phase
//	@Description	Decides which screen the client may show: needs-auth, needs-enrollment, needs-verification, authorized
//	@Description	or needs-password-reset. The password-reset path overrides everything. Failures fall back to needs-auth.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Param			path	query		string	false	"Client route, e.g. /update-password"
//	@Success		200		{object}	gatesdk.PhaseResponse
//	@Router			/v1/session/phase [get].
func (h *PhaseHandler) HandlePhase(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.evaluate(r.Context(), r.URL.Query().Get("path")))
}

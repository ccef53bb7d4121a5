package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/aussiebroadwan/bananabrain/internal/gate/service"
	"github.com/aussiebroadwan/bananabrain/pkg/gatesdk"
	"github.com/aussiebroadwan/bananabrain/pkg/httpx"
	"github.com/aussiebroadwan/bananabrain/pkg/slogx"
)

// streamKeepAlive is the comment interval that keeps idle proxies from
// closing the stream.
const streamKeepAlive = 25 * time.Second

// HandlePhaseStream handles GET /v1/session/phase/stream
//
//	@Summary		Watch the assurance phase
//	@Description	Server-sent events. The first event is the current phase; a new one follows every change caused by
//	@Description	elevation, sign-out or a password update. The stream ends after a needs-auth event.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		text/event-stream
//	@Param			path	query		string	false	"Client route, e.g. /update-password"
//	@Success		200		{object}	gatesdk.PhaseResponse	"One per event"
//	@Failure		401		{object}	gatesdk.ErrorResponse	"Missing or invalid session"
//	@Router			/v1/session/phase/stream [get].
func (h *PhaseHandler) HandlePhaseStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeServiceError(w, r, http.StatusUnauthorized, service.ErrUnauthenticated)
		return
	}
	log := slogx.FromContext(r.Context())

	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	// Subscribe before the first evaluation so no change slips in between.
	events, unsubscribe := h.Events.Subscribe(sess.UserID, sess.ID)
	defer unsubscribe()

	first := service.Event{Kind: service.EventInitial, Session: &sess, OnResetPath: h.onResetPath(r.URL.Query().Get("path"))}
	if sess.Kind == domain.SessionRecovery {
		first.Kind = service.EventPasswordRecovery
	}

	machine := service.NewAssuranceMachine(h.Source, h.timeout())
	phase, err := machine.Handle(ctx, first)

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("X-Accel-Buffering", "no")
	httpx.NoCache(w)
	w.WriteHeader(http.StatusOK)

	send := func(p domain.Phase, err error) bool {
		res := gatesdk.PhaseResponse{Phase: p.String()}
		if err != nil {
			res.Error = err.Error()
		}
		raw, _ := json.Marshal(res)
		if _, werr := fmt.Fprintf(w, "event: phase\ndata: %s\n\n", raw); werr != nil {
			return false
		}
		return rc.Flush() == nil
	}

	if err != nil {
		log.Warn("assurance evaluation failed closed", "err", err)
	}
	if !send(phase, err) || phase == domain.PhaseNeedsAuth {
		return
	}

	phases := make(chan domain.Phase, 1)
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = machine.Run(ctx, events, func(p domain.Phase) {
			select {
			case phases <- p:
			case <-ctx.Done():
			}
		})
	}()
	defer func() {
		stop()
		<-runDone
	}()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-runDone:
			// The hub dropped us; the client reconnects and starts over.
			select {
			case p := <-phases:
				send(p, nil)
			default:
			}
			return
		case p := <-phases:
			if !send(p, nil) || p == domain.PhaseNeedsAuth {
				log.Debug("phase stream closed", "phase", p)
				return
			}
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil || rc.Flush() != nil {
				return
			}
		}
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

// ErrStaleEvaluation is returned by Handle when a newer event arrived while
// the evaluation was in flight. Its result was dropped.
var ErrStaleEvaluation = errors.New("assurance evaluation superseded by a newer event")

type EventKind int

const (
	EventInitial EventKind = iota
	EventSignedIn
	EventSignedOut
	EventPasswordRecovery
	EventElevated
	EventPasswordUpdated
)

func (k EventKind) String() string {
	switch k {
	case EventInitial:
		return "initial"
	case EventSignedIn:
		return "signed_in"
	case EventSignedOut:
		return "signed_out"
	case EventPasswordRecovery:
		return "password_recovery"
	case EventElevated:
		return "elevated"
	case EventPasswordUpdated:
		return "password_updated"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is a change in the client's session. Session is nil when there is
// none. OnResetPath is true while the client sits on the password-reset
// entry point.
type Event struct {
	Kind        EventKind
	Session     *domain.Session
	OnResetPath bool
}

// AssuranceSource is the part of the identity provider the machine queries.
type AssuranceSource interface {
	AssuranceLevel(ctx context.Context, sess domain.Session) (domain.AssuranceLevel, error)
	ListFactors(ctx context.Context, sess domain.Session) ([]domain.Factor, error)
}

// Evaluate computes the phase for one session. Any query failure fails
// closed to needs-auth and is returned alongside it.
func Evaluate(ctx context.Context, src AssuranceSource, sess *domain.Session, onResetPath bool) (domain.Phase, error) {
	if onResetPath || sess == nil {
		return domain.ResolvePhase(sess != nil, "", false, onResetPath), nil
	}

	level, err := src.AssuranceLevel(ctx, *sess)
	if err != nil {
		return domain.PhaseNeedsAuth, providerError(fmt.Errorf("assurance level: %w", err))
	}
	if level == domain.LevelElevated {
		return domain.ResolvePhase(true, level, false, false), nil
	}

	factors, err := src.ListFactors(ctx, *sess)
	if err != nil {
		return domain.PhaseNeedsAuth, providerError(fmt.Errorf("list factors: %w", err))
	}
	_, verified := domain.VerifiedTOTP(factors)
	return domain.ResolvePhase(true, level, verified, false), nil
}

// AssuranceMachine holds the displayed phase of one client. Every event
// starts a fresh evaluation; an evaluation that finishes after a newer event
// arrived is discarded, so a stale sign-in can never overwrite a sign-out.
type AssuranceMachine struct {
	Source  AssuranceSource
	Timeout time.Duration

	mu        sync.Mutex
	gen       uint64
	phase     domain.Phase
	resetPath bool
	report    func(domain.Phase)
}

func NewAssuranceMachine(src AssuranceSource, timeout time.Duration) *AssuranceMachine {
	return &AssuranceMachine{Source: src, Timeout: timeout, phase: domain.PhaseNeedsAuth}
}

// Phase returns the last committed phase.
func (m *AssuranceMachine) Phase() domain.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == "" {
		return domain.PhaseNeedsAuth
	}
	return m.phase
}

// Handle evaluates ev and commits the result unless a newer event arrived
// meanwhile, in which case the current phase and ErrStaleEvaluation are
// returned.
func (m *AssuranceMachine) Handle(ctx context.Context, ev Event) (domain.Phase, error) {
	gen, onReset := m.begin(ev)
	return m.evaluate(ctx, gen, onReset, ev)
}

// Run handles every event from events in its own evaluation, without
// coalescing, and calls report with each committed phase change. report is
// called with the machine locked and must not call back into it. Run returns
// when events is closed or ctx is done, after in-flight evaluations finish.
func (m *AssuranceMachine) Run(ctx context.Context, events <-chan Event, report func(domain.Phase)) error {
	m.mu.Lock()
	m.report = report
	m.mu.Unlock()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			gen, onReset := m.begin(ev)
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = m.evaluate(ctx, gen, onReset, ev)
			}()
		}
	}
}

// begin stamps ev with a new generation and applies the reset-path bookkeeping.
// It runs in delivery order.
func (m *AssuranceMachine) begin(ev Event) (uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	switch ev.Kind {
	case EventPasswordRecovery:
		m.resetPath = true
	case EventPasswordUpdated, EventSignedOut:
		m.resetPath = false
	}
	return m.gen, m.resetPath || ev.OnResetPath
}

func (m *AssuranceMachine) evaluate(ctx context.Context, gen uint64, onReset bool, ev Event) (domain.Phase, error) {
	var (
		next domain.Phase
		err  error
	)

	switch ev.Kind {
	case EventSignedOut, EventPasswordUpdated:
		next = domain.PhaseNeedsAuth
	case EventPasswordRecovery:
		next = domain.PhaseNeedsPasswordReset
	default:
		evalCtx, cancel := bounded(ctx, m.Timeout)
		next, err = Evaluate(evalCtx, m.Source, ev.Session, onReset)
		cancel()
	}

	return m.commit(gen, next, err)
}

func (m *AssuranceMachine) commit(gen uint64, next domain.Phase, err error) (domain.Phase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		cur := m.phase
		if cur == "" {
			cur = domain.PhaseNeedsAuth
		}
		return cur, ErrStaleEvaluation
	}

	changed := next != m.phase
	m.phase = next
	if changed && m.report != nil {
		m.report(next)
	}
	return next, err
}

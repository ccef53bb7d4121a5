package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

// Kind tells a caller how to react to a failure without parsing messages.
type Kind string

const (
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUpstreamTimeout     Kind = "upstream_timeout"
	KindInvalidToken        Kind = "invalid_token"
	KindProviderError       Kind = "provider_error"
	KindNoVerifiedFactor    Kind = "no_verified_factor"
	KindNoPendingChallenge  Kind = "no_pending_challenge"
	KindPasswordMismatch    Kind = "password_mismatch"
	KindWeakPassword        Kind = "weak_password"
	KindInvalidRequest      Kind = "invalid_request"
	KindInvalidCode         Kind = "invalid_code"
	KindUnauthenticated     Kind = "unauthenticated"
	KindPhaseRequired       Kind = "phase_required"
	KindInternal            Kind = "internal"
)

// Error is the failure type every service operation returns. Message is safe
// to show to the end user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind, so callers can write
// errors.Is(err, service.ErrInvalidToken).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is matching, one per Kind.
var (
	ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable}
	ErrUpstreamTimeout     = &Error{Kind: KindUpstreamTimeout}
	ErrInvalidToken        = &Error{Kind: KindInvalidToken}
	ErrProviderError       = &Error{Kind: KindProviderError}
	ErrNoVerifiedFactor    = &Error{Kind: KindNoVerifiedFactor}
	ErrNoPendingChallenge  = &Error{Kind: KindNoPendingChallenge}
	ErrPasswordMismatch    = &Error{Kind: KindPasswordMismatch}
	ErrWeakPassword        = &Error{Kind: KindWeakPassword}
	ErrInvalidRequest      = &Error{Kind: KindInvalidRequest}
	ErrInvalidCode         = &Error{Kind: KindInvalidCode}
	ErrUnauthenticated     = &Error{Kind: KindUnauthenticated}
	ErrPhaseRequired       = &Error{Kind: KindPhaseRequired}
	ErrInternal            = &Error{Kind: KindInternal}
)

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// providerError classifies an identity provider failure. The provider's own
// message is surfaced as is.
func providerError(err error) *Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return newError(KindUpstreamTimeout, "Identity provider timed out", err)
	case errors.Is(err, domain.ErrSessionNotFound):
		return newError(KindUnauthenticated, "Session expired, please sign in again", err)
	case errors.Is(err, domain.ErrInvalidCode):
		return newError(KindInvalidCode, "Invalid code, please try again", err)
	case errors.Is(err, domain.ErrChallengeNotFound):
		return newError(KindNoPendingChallenge, "No pending challenge, request a new one", err)
	case errors.Is(err, domain.ErrWeakPassword):
		return newError(KindWeakPassword, weakPasswordMessage, err)
	}
	return newError(KindProviderError, err.Error(), err)
}

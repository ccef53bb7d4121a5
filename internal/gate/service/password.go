package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

const weakPasswordMessage = "Password must be at least 6 characters"

type PasswordService struct {
	Provider IdentityProvider
	Timeout  time.Duration
	// Events is told when every session of the user ends. Optional.
	Events *SessionEvents
}

// UpdatePassword validates locally before touching the provider. Success
// always lands in needs-auth: the user signs in again with the new password.
func (s *PasswordService) UpdatePassword(ctx context.Context, sess domain.Session, password, confirm string) (domain.Phase, error) {
	if password != confirm {
		return "", newError(KindPasswordMismatch, "Passwords do not match", nil)
	}
	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return "", newError(KindWeakPassword, weakPasswordMessage, nil)
	}

	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	if err := s.Provider.UpdatePassword(ctx, sess, password); err != nil {
		return "", providerError(err)
	}
	s.Events.Publish(sess.UserID, Event{Kind: EventPasswordUpdated, Session: &sess})
	return domain.PhaseNeedsAuth, nil
}

package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

// DefaultUpstreamTimeout bounds every call to the identity provider and the
// puzzle source unless a service sets its own.
const DefaultUpstreamTimeout = 5 * time.Second

// IdentityProvider is what the gate needs from whoever owns accounts,
// sessions and factors. Errors use the domain sentinels.
type IdentityProvider interface {
	AssuranceLevel(ctx context.Context, sess domain.Session) (domain.AssuranceLevel, error)
	ListFactors(ctx context.Context, sess domain.Session) ([]domain.Factor, error)
	EnrollTOTP(ctx context.Context, sess domain.Session, friendlyName string) (domain.TOTPEnrollment, error)
	Unenroll(ctx context.Context, sess domain.Session, factorID string) error
	Challenge(ctx context.Context, sess domain.Session, factorID string) (domain.MFAChallenge, error)
	Verify(ctx context.Context, sess domain.Session, factorID, challengeID, code string) error
	ChallengeAndVerify(ctx context.Context, sess domain.Session, factorID, code string) error
	UpdatePassword(ctx context.Context, sess domain.Session, password string) error
}

func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultUpstreamTimeout
	}
	return context.WithTimeout(ctx, d)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

// FactorNamePrefix starts the friendly name of every factor the gate enrolls.
const FactorNamePrefix = "BananaBrain-TOTP-"

// MFAService drives TOTP enrollment and step-up verification against the
// identity provider. Nothing is retried; the user resubmits instead.
type MFAService struct {
	Provider IdentityProvider
	Timeout  time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
	// Events is told about every elevation. Optional.
	Events *SessionEvents
}

func (s *MFAService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *MFAService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// StartEnrollment discards abandoned enrollments and registers a new TOTP
// factor. Verified factors are left alone.
func (s *MFAService) StartEnrollment(ctx context.Context, sess domain.Session) (domain.TOTPEnrollment, error) {
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	factors, err := s.Provider.ListFactors(ctx, sess)
	if err != nil {
		return domain.TOTPEnrollment{}, providerError(fmt.Errorf("list factors: %w", err))
	}

	for _, f := range factors {
		if f.Type != domain.FactorTOTP || f.Status != domain.FactorUnverified {
			continue
		}
		if err := s.Provider.Unenroll(ctx, sess, f.ID); err != nil {
			return domain.TOTPEnrollment{}, providerError(fmt.Errorf("unenroll %s: %w", f.ID, err))
		}
		s.logger().DebugContext(ctx, "discarded pending factor", "user_id", sess.UserID, "factor_id", f.ID)
	}

	name := fmt.Sprintf("%s%d", FactorNamePrefix, s.now().UnixMilli())
	enr, err := s.Provider.EnrollTOTP(ctx, sess, name)
	if err != nil {
		return domain.TOTPEnrollment{}, providerError(fmt.Errorf("enroll: %w", err))
	}

	s.logger().InfoContext(ctx, "totp enrollment started", "user_id", sess.UserID, "factor_id", enr.FactorID)
	return enr, nil
}

// CompleteEnrollment verifies the first code of a pending factor. On failure
// the factor stays pending and may be retried with a new code.
func (s *MFAService) CompleteEnrollment(ctx context.Context, sess domain.Session, factorID, code string) error {
	factorID, code = strings.TrimSpace(factorID), strings.TrimSpace(code)
	if factorID == "" || code == "" {
		return newError(KindInvalidRequest, "factor_id and code are required", nil)
	}

	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	if err := s.Provider.ChallengeAndVerify(ctx, sess, factorID, code); err != nil {
		return providerError(err)
	}

	s.logger().InfoContext(ctx, "totp enrollment completed", "user_id", sess.UserID, "factor_id", factorID)
	s.Events.Publish(sess.UserID, Event{Kind: EventElevated, Session: &sess})
	return nil
}

// StartVerification opens a challenge on the user's verified TOTP factor.
func (s *MFAService) StartVerification(ctx context.Context, sess domain.Session) (domain.MFAChallenge, error) {
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	factors, err := s.Provider.ListFactors(ctx, sess)
	if err != nil {
		return domain.MFAChallenge{}, providerError(fmt.Errorf("list factors: %w", err))
	}

	f, ok := domain.VerifiedTOTP(factors)
	if !ok {
		return domain.MFAChallenge{}, newError(KindNoVerifiedFactor, "No verified authenticator, enroll one first", nil)
	}

	c, err := s.Provider.Challenge(ctx, sess, f.ID)
	if err != nil {
		return domain.MFAChallenge{}, providerError(fmt.Errorf("challenge: %w", err))
	}
	return c, nil
}

// CompleteVerification submits a code for a specific challenge. On success
// the provider has elevated the session; callers re-query the level.
func (s *MFAService) CompleteVerification(ctx context.Context, sess domain.Session, challengeID, factorID, code string) error {
	challengeID = strings.TrimSpace(challengeID)
	factorID = strings.TrimSpace(factorID)
	code = strings.TrimSpace(code)
	if challengeID == "" || factorID == "" || code == "" {
		return newError(KindInvalidRequest, "challenge_id, factor_id and code are required", nil)
	}

	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	if err := s.Provider.Verify(ctx, sess, factorID, challengeID, code); err != nil {
		return providerError(err)
	}

	s.logger().InfoContext(ctx, "mfa verification completed", "user_id", sess.UserID, "factor_id", factorID)
	s.Events.Publish(sess.UserID, Event{Kind: EventElevated, Session: &sess})
	return nil
}

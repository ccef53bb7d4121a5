package identity

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/aussiebroadwan/bananabrain/internal/gate/store"
	"github.com/aussiebroadwan/bananabrain/pkg/idx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	totpPeriod = 30
	totpSkew   = 1 // accept one step either side for clock drift
)

var totpValidateOpts = totp.ValidateOpts{
	Period:    totpPeriod,
	Skew:      totpSkew,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

func (l *Local) ListFactors(ctx context.Context, sess domain.Session) ([]domain.Factor, error) {
	factors, err := l.store.Factors().ListFactorsByUser(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("list factors: %w", err)
	}
	return factors, nil
}

// EnrollTOTP creates an unverified TOTP factor and returns what the user
// needs to configure an authenticator app.
func (l *Local) EnrollTOTP(ctx context.Context, sess domain.Session, friendlyName string) (domain.TOTPEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      l.cfg.Issuer,
		AccountName: sess.Email,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	qr, err := qrDataURI(key, l.cfg.QRSize)
	if err != nil {
		return domain.TOTPEnrollment{}, err
	}

	now := l.now()
	f := domain.Factor{
		ID:           idx.NewAt(now).String(),
		UserID:       sess.UserID,
		Type:         domain.FactorTOTP,
		Status:       domain.FactorUnverified,
		FriendlyName: friendlyName,
		Secret:       key.Secret(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := l.store.Factors().CreateFactor(ctx, f); err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("create factor: %w", err)
	}

	return domain.TOTPEnrollment{
		FactorID: f.ID,
		QRCode:   qr,
		Secret:   key.Secret(),
		URI:      key.URL(),
	}, nil
}

func qrDataURI(key *otp.Key, size int) (string, error) {
	img, err := key.Image(size, size)
	if err != nil {
		return "", fmt.Errorf("render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ownedFactor loads a factor and hides factors of other users.
func (l *Local) ownedFactor(ctx context.Context, st store.Store, sess domain.Session, factorID string) (domain.Factor, error) {
	f, err := st.Factors().GetFactor(ctx, factorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Factor{}, domain.ErrFactorNotFound
		}
		return domain.Factor{}, fmt.Errorf("load factor: %w", err)
	}
	if f.UserID != sess.UserID {
		return domain.Factor{}, domain.ErrFactorNotFound
	}
	return f, nil
}

// Unenroll deletes a factor. Removing a verified factor needs an elevated
// session.
func (l *Local) Unenroll(ctx context.Context, sess domain.Session, factorID string) error {
	f, err := l.ownedFactor(ctx, l.store, sess, factorID)
	if err != nil {
		return err
	}
	if f.Status == domain.FactorVerified {
		level, err := l.AssuranceLevel(ctx, sess)
		if err != nil {
			return err
		}
		if level != domain.LevelElevated {
			return domain.ErrInsufficientAssurance
		}
	}

	if err := l.store.Factors().DeleteFactor(ctx, f.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrFactorNotFound
		}
		return fmt.Errorf("delete factor: %w", err)
	}
	return nil
}

// Challenge opens a verification window for a factor.
func (l *Local) Challenge(ctx context.Context, sess domain.Session, factorID string) (domain.MFAChallenge, error) {
	f, err := l.ownedFactor(ctx, l.store, sess, factorID)
	if err != nil {
		return domain.MFAChallenge{}, err
	}

	now := l.now()
	c := domain.MFAChallenge{
		ID:        idx.NewAt(now).String(),
		FactorID:  f.ID,
		UserID:    sess.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(l.cfg.ChallengeTTL),
	}
	if err := l.store.Challenges().CreateChallenge(ctx, c); err != nil {
		return domain.MFAChallenge{}, fmt.Errorf("create challenge: %w", err)
	}
	return c, nil
}

func (l *Local) validCode(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, totpValidateOpts)
	return err == nil && ok
}

// Verify checks code against a pending challenge. A wrong code spends one
// of the challenge's attempts; a right one consumes the challenge, marks the
// factor verified and elevates the session.
func (l *Local) Verify(ctx context.Context, sess domain.Session, factorID, challengeID, code string) error {
	now := l.now()

	c, err := l.store.Challenges().GetChallenge(ctx, challengeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrChallengeNotFound
		}
		return fmt.Errorf("load challenge: %w", err)
	}
	if c.UserID != sess.UserID || c.FactorID != factorID ||
		!now.Before(c.ExpiresAt) || c.Attempts >= domain.MaxChallengeAttempts {
		return domain.ErrChallengeNotFound
	}

	f, err := l.ownedFactor(ctx, l.store, sess, factorID)
	if err != nil {
		return err
	}

	if !l.validCode(code, f.Secret, now) {
		if _, err := l.store.Challenges().IncrementChallengeAttempts(ctx, c.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("record attempt: %w", err)
		}
		l.logger.WarnContext(ctx, "mfa code rejected", "user_id", sess.UserID, "factor_id", f.ID, "attempt", c.Attempts+1)
		return domain.ErrInvalidCode
	}

	return l.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Challenges().DeleteChallenge(ctx, c.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Consumed by a concurrent request.
				return domain.ErrChallengeNotFound
			}
			return fmt.Errorf("consume challenge: %w", err)
		}
		return l.elevate(ctx, tx, sess, f, now)
	})
}

// ChallengeAndVerify is the enrollment shortcut: challenge and verify in one
// step against a pending factor. A verified factor only elevates through
// Challenge and Verify, where attempts are capped.
func (l *Local) ChallengeAndVerify(ctx context.Context, sess domain.Session, factorID, code string) error {
	f, err := l.ownedFactor(ctx, l.store, sess, factorID)
	if err != nil {
		return err
	}
	if f.Status != domain.FactorUnverified {
		return domain.ErrFactorNotFound
	}

	now := l.now()
	if !l.validCode(code, f.Secret, now) {
		l.logger.WarnContext(ctx, "enrollment code rejected", "user_id", sess.UserID, "factor_id", f.ID)
		return domain.ErrInvalidCode
	}

	return l.store.WithTx(ctx, func(tx store.Tx) error {
		return l.elevate(ctx, tx, sess, f, now)
	})
}

func (l *Local) elevate(ctx context.Context, tx store.Tx, sess domain.Session, f domain.Factor, now time.Time) error {
	if f.Status != domain.FactorVerified {
		if err := tx.Factors().MarkFactorVerified(ctx, f.ID, now); err != nil {
			switch {
			case errors.Is(err, store.ErrAlreadyExists):
				return domain.ErrFactorConflict
			case errors.Is(err, store.ErrNotFound):
				return domain.ErrFactorNotFound
			}
			return fmt.Errorf("verify factor: %w", err)
		}
	}

	if err := tx.Sessions().UpdateSessionLevel(ctx, sess.ID, domain.LevelElevated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("elevate session: %w", err)
	}

	l.logger.InfoContext(ctx, "session elevated", "user_id", sess.UserID, "session_id", sess.ID, "factor_id", f.ID)
	return nil
}

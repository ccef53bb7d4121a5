package identity_test

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/aussiebroadwan/bananabrain/internal/gate/identity"
	"github.com/aussiebroadwan/bananabrain/internal/gate/mail"
	"github.com/aussiebroadwan/bananabrain/internal/gate/store/drivers/sqlite"
	"github.com/aussiebroadwan/bananabrain/pkg/cryptox"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	idp    *identity.Local
	outbox *mail.Outbox
	clock  *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	c := &clock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	outbox := &mail.Outbox{}
	idp := identity.NewLocal(st, cryptox.NewPasswordHasher("test-pepper"), outbox, slog.Default(), identity.Config{
		Issuer:       "BananaBrain",
		SessionTTL:   time.Hour,
		RecoveryTTL:  30 * time.Minute,
		ChallengeTTL: 5 * time.Minute,
		ResetURL:     "https://game.example/update-password",
		QRSize:       64,
	}, identity.WithClock(c.Now))

	return &fixture{idp: idp, outbox: outbox, clock: c}
}

func (f *fixture) signUp(t *testing.T, email string) domain.IssuedSession {
	t.Helper()
	issued, err := f.idp.SignUp(context.Background(), email, "banana-split")
	require.NoError(t, err)
	return issued
}

func (f *fixture) code(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, f.clock.Now())
	require.NoError(t, err)
	return code
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	issued := f.signUp(t, "  Alice@Example.com ")
	require.NotEmpty(t, issued.Token)
	require.Equal(t, "alice@example.com", issued.Session.Email)
	require.Equal(t, domain.LevelBase, issued.Session.Level)

	_, err := f.idp.SignUp(ctx, "alice@example.com", "another-pass")
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = f.idp.SignUp(ctx, "bob@example.com", "short")
	require.ErrorIs(t, err, domain.ErrWeakPassword)

	_, err = f.idp.SignUp(ctx, "not-an-email", "long-enough")
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	again, err := f.idp.SignIn(ctx, "ALICE@example.com", "banana-split")
	require.NoError(t, err)
	require.NotEqual(t, issued.Token, again.Token)

	_, err = f.idp.SignIn(ctx, "alice@example.com", "wrong-password")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.idp.SignIn(ctx, "nobody@example.com", "banana-split")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestResolveAndSignOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	issued := f.signUp(t, "carol@example.com")

	sess, err := f.idp.Resolve(ctx, issued.Token)
	require.NoError(t, err)
	require.Equal(t, issued.Session.ID, sess.ID)

	_, err = f.idp.Resolve(ctx, issued.Token+"x")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, f.idp.SignOut(ctx, sess))
	require.NoError(t, f.idp.SignOut(ctx, sess))

	_, err = f.idp.Resolve(ctx, issued.Token)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestResolveExpired(t *testing.T) {
	f := newFixture(t)
	issued := f.signUp(t, "dan@example.com")

	f.clock.Advance(time.Hour)
	_, err := f.idp.Resolve(context.Background(), issued.Token)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEnrollAndChallengeAndVerify(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sess := f.signUp(t, "erin@example.com").Session

	enr, err := f.idp.EnrollTOTP(ctx, sess, "BananaBrain-TOTP-1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(enr.QRCode, "data:image/png;base64,"))
	require.True(t, strings.HasPrefix(enr.URI, "otpauth://totp/"))
	require.NotEmpty(t, enr.Secret)

	require.ErrorIs(t, f.idp.ChallengeAndVerify(ctx, sess, enr.FactorID, "000000x"), domain.ErrInvalidCode)

	factors, err := f.idp.ListFactors(ctx, sess)
	require.NoError(t, err)
	require.Len(t, factors, 1)
	require.Equal(t, domain.FactorUnverified, factors[0].Status)

	require.NoError(t, f.idp.ChallengeAndVerify(ctx, sess, enr.FactorID, f.code(t, enr.Secret)))

	level, err := f.idp.AssuranceLevel(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, domain.LevelElevated, level)

	factors, err = f.idp.ListFactors(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, domain.FactorVerified, factors[0].Status)
}

func TestChallengeVerifyFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.signUp(t, "fran@example.com")

	enr, err := f.idp.EnrollTOTP(ctx, first.Session, "app")
	require.NoError(t, err)
	require.NoError(t, f.idp.ChallengeAndVerify(ctx, first.Session, enr.FactorID, f.code(t, enr.Secret)))

	// A fresh sign-in starts at the base level.
	second, err := f.idp.SignIn(ctx, "fran@example.com", "banana-split")
	require.NoError(t, err)
	sess := second.Session

	level, err := f.idp.AssuranceLevel(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, domain.LevelBase, level)

	ch, err := f.idp.Challenge(ctx, sess, enr.FactorID)
	require.NoError(t, err)
	require.Equal(t, enr.FactorID, ch.FactorID)

	t.Run("mismatched factor", func(t *testing.T) {
		err := f.idp.Verify(ctx, sess, "other-factor", ch.ID, f.code(t, enr.Secret))
		require.ErrorIs(t, err, domain.ErrChallengeNotFound)
	})

	t.Run("wrong code", func(t *testing.T) {
		err := f.idp.Verify(ctx, sess, enr.FactorID, ch.ID, "000000")
		require.ErrorIs(t, err, domain.ErrInvalidCode)
	})

	t.Run("right code elevates and consumes", func(t *testing.T) {
		require.NoError(t, f.idp.Verify(ctx, sess, enr.FactorID, ch.ID, f.code(t, enr.Secret)))

		level, err := f.idp.AssuranceLevel(ctx, sess)
		require.NoError(t, err)
		require.Equal(t, domain.LevelElevated, level)

		err = f.idp.Verify(ctx, sess, enr.FactorID, ch.ID, f.code(t, enr.Secret))
		require.ErrorIs(t, err, domain.ErrChallengeNotFound)
	})
}

func TestEnrollmentShortcutRejectsVerifiedFactor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.signUp(t, "gil@example.com")

	enr, err := f.idp.EnrollTOTP(ctx, first.Session, "app")
	require.NoError(t, err)
	require.NoError(t, f.idp.ChallengeAndVerify(ctx, first.Session, enr.FactorID, f.code(t, enr.Secret)))

	base, err := f.idp.SignIn(ctx, "gil@example.com", "banana-split")
	require.NoError(t, err)
	sess := base.Session

	ch, err := f.idp.Challenge(ctx, sess, enr.FactorID)
	require.NoError(t, err)
	for range domain.MaxChallengeAttempts {
		require.ErrorIs(t, f.idp.Verify(ctx, sess, enr.FactorID, ch.ID, "000000"), domain.ErrInvalidCode)
	}

	for range 20 {
		require.ErrorIs(t, f.idp.ChallengeAndVerify(ctx, sess, enr.FactorID, "000000"), domain.ErrFactorNotFound)
	}
	require.ErrorIs(t, f.idp.ChallengeAndVerify(ctx, sess, enr.FactorID, f.code(t, enr.Secret)), domain.ErrFactorNotFound)

	level, err := f.idp.AssuranceLevel(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, domain.LevelBase, level)
}

func TestChallengeExhaustionAndExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sess := f.signUp(t, "gus@example.com").Session

	enr, err := f.idp.EnrollTOTP(ctx, sess, "app")
	require.NoError(t, err)

	ch, err := f.idp.Challenge(ctx, sess, enr.FactorID)
	require.NoError(t, err)

	for range domain.MaxChallengeAttempts {
		require.ErrorIs(t, f.idp.Verify(ctx, sess, enr.FactorID, ch.ID, "000000"), domain.ErrInvalidCode)
	}
	require.ErrorIs(t, f.idp.Verify(ctx, sess, enr.FactorID, ch.ID, f.code(t, enr.Secret)), domain.ErrChallengeNotFound)

	ch, err = f.idp.Challenge(ctx, sess, enr.FactorID)
	require.NoError(t, err)
	f.clock.Advance(5 * time.Minute)
	require.ErrorIs(t, f.idp.Verify(ctx, sess, enr.FactorID, ch.ID, f.code(t, enr.Secret)), domain.ErrChallengeNotFound)
}

func TestFactorsAreScopedToUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.signUp(t, "hal@example.com").Session
	other := f.signUp(t, "ivy@example.com").Session

	enr, err := f.idp.EnrollTOTP(ctx, owner, "app")
	require.NoError(t, err)

	_, err = f.idp.Challenge(ctx, other, enr.FactorID)
	require.ErrorIs(t, err, domain.ErrFactorNotFound)
	require.ErrorIs(t, f.idp.Unenroll(ctx, other, enr.FactorID), domain.ErrFactorNotFound)
	require.ErrorIs(t, f.idp.ChallengeAndVerify(ctx, other, enr.FactorID, f.code(t, enr.Secret)), domain.ErrFactorNotFound)
}

func TestUnenroll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.signUp(t, "jo@example.com")

	pending, err := f.idp.EnrollTOTP(ctx, first.Session, "pending")
	require.NoError(t, err)
	require.NoError(t, f.idp.Unenroll(ctx, first.Session, pending.FactorID))
	require.ErrorIs(t, f.idp.Unenroll(ctx, first.Session, pending.FactorID), domain.ErrFactorNotFound)

	verified, err := f.idp.EnrollTOTP(ctx, first.Session, "verified")
	require.NoError(t, err)
	require.NoError(t, f.idp.ChallengeAndVerify(ctx, first.Session, verified.FactorID, f.code(t, verified.Secret)))

	base, err := f.idp.SignIn(ctx, "jo@example.com", "banana-split")
	require.NoError(t, err)
	require.ErrorIs(t, f.idp.Unenroll(ctx, base.Session, verified.FactorID), domain.ErrInsufficientAssurance)

	require.NoError(t, f.idp.Unenroll(ctx, first.Session, verified.FactorID))
}

func TestSecondVerifiedFactorConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sess := f.signUp(t, "kim@example.com").Session

	a, err := f.idp.EnrollTOTP(ctx, sess, "a")
	require.NoError(t, err)
	b, err := f.idp.EnrollTOTP(ctx, sess, "b")
	require.NoError(t, err)

	require.NoError(t, f.idp.ChallengeAndVerify(ctx, sess, a.FactorID, f.code(t, a.Secret)))
	require.ErrorIs(t, f.idp.ChallengeAndVerify(ctx, sess, b.FactorID, f.code(t, b.Secret)), domain.ErrFactorConflict)
}

func TestRecoverAndUpdatePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	original := f.signUp(t, "lou@example.com")

	require.NoError(t, f.idp.Recover(ctx, "nobody@example.com"))
	require.Empty(t, f.outbox.Messages())

	require.NoError(t, f.idp.Recover(ctx, "LOU@example.com"))
	msg, ok := f.outbox.Last()
	require.True(t, ok)
	require.Equal(t, "lou@example.com", msg.To)

	_, token, found := strings.Cut(msg.Text, "#type=recovery&token=")
	require.True(t, found)
	token = strings.TrimSpace(strings.SplitN(token, "\n", 2)[0])

	recovery, err := f.idp.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, domain.SessionRecovery, recovery.Kind)

	require.ErrorIs(t, f.idp.UpdatePassword(ctx, recovery, "abc"), domain.ErrWeakPassword)
	require.NoError(t, f.idp.UpdatePassword(ctx, recovery, "new-banana"))

	// Other sessions are revoked, the recovery session becomes a normal one.
	_, err = f.idp.Resolve(ctx, original.Token)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	kept, err := f.idp.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, domain.SessionNormal, kept.Kind)

	_, err = f.idp.SignIn(ctx, "lou@example.com", "banana-split")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.idp.SignIn(ctx, "lou@example.com", "new-banana")
	require.NoError(t, err)
}

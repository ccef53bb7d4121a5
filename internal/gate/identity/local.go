// Package identity is a self-hosted identity provider: accounts, opaque
// bearer sessions with an assurance level, TOTP factors and challenges.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	netmail "net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/aussiebroadwan/bananabrain/internal/gate/mail"
	"github.com/aussiebroadwan/bananabrain/internal/gate/store"
	"github.com/aussiebroadwan/bananabrain/pkg/cryptox"
	"github.com/aussiebroadwan/bananabrain/pkg/idx"
)

type Config struct {
	// Issuer is shown by authenticator apps next to the account.
	Issuer       string
	SessionTTL   time.Duration
	RecoveryTTL  time.Duration
	ChallengeTTL time.Duration
	// ResetURL is where recovery links point; the token goes in the fragment.
	ResetURL string
	// QRSize is the edge length of enrollment QR codes in pixels.
	QRSize int
}

func (c *Config) applyDefaults() {
	if c.Issuer == "" {
		c.Issuer = "BananaBrain"
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 12 * time.Hour
	}
	if c.RecoveryTTL <= 0 {
		c.RecoveryTTL = time.Hour
	}
	if c.ChallengeTTL <= 0 {
		c.ChallengeTTL = 5 * time.Minute
	}
	if c.QRSize <= 0 {
		c.QRSize = 200
	}
}

// Local implements the identity provider over the gate store.
type Local struct {
	store  store.Store
	hasher *cryptox.PasswordHasher
	mailer mail.Sender
	logger *slog.Logger
	cfg    Config
	now    func() time.Time
}

type Option func(*Local)

func WithClock(now func() time.Time) Option {
	return func(l *Local) { l.now = now }
}

func NewLocal(st store.Store, hasher *cryptox.PasswordHasher, mailer mail.Sender, logger *slog.Logger, cfg Config, opts ...Option) *Local {
	cfg.applyDefaults()
	l := &Local{
		store:  st,
		hasher: hasher,
		mailer: mailer,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := netmail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return domain.ErrWeakPassword
	}
	return nil
}

// SignUp creates an account and signs it in at the base level.
func (l *Local) SignUp(ctx context.Context, email, password string) (domain.IssuedSession, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return domain.IssuedSession{}, err
	}
	if err := checkPassword(password); err != nil {
		return domain.IssuedSession{}, err
	}

	hash, err := l.hasher.Hash(password)
	if err != nil {
		return domain.IssuedSession{}, fmt.Errorf("hash password: %w", err)
	}

	now := l.now()
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var issued domain.IssuedSession
	err = l.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domain.ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		issued, err = l.issueSession(ctx, tx, user, domain.SessionNormal, l.cfg.SessionTTL)
		return err
	})
	if err != nil {
		return domain.IssuedSession{}, err
	}

	l.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return issued, nil
}

// SignIn checks the password and opens a base-level session.
func (l *Local) SignIn(ctx context.Context, email, password string) (domain.IssuedSession, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return domain.IssuedSession{}, domain.ErrInvalidCredentials
	}

	user, err := l.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.IssuedSession{}, domain.ErrInvalidCredentials
		}
		return domain.IssuedSession{}, fmt.Errorf("load user: %w", err)
	}

	if err := l.hasher.Verify(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.IssuedSession{}, domain.ErrInvalidCredentials
		}
		return domain.IssuedSession{}, fmt.Errorf("verify password: %w", err)
	}

	return l.issueSession(ctx, l.store, user, domain.SessionNormal, l.cfg.SessionTTL)
}

func (l *Local) issueSession(ctx context.Context, st store.Store, user domain.User, kind domain.SessionKind, ttl time.Duration) (domain.IssuedSession, error) {
	token, err := cryptox.GenerateToken(cryptox.SessionTokenSize)
	if err != nil {
		return domain.IssuedSession{}, err
	}

	now := l.now()
	sess := domain.Session{
		ID:        idx.NewAt(now).String(),
		UserID:    user.ID,
		Email:     user.Email,
		Kind:      kind,
		Level:     domain.LevelBase,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := st.Sessions().CreateSession(ctx, sess, cryptox.FingerprintToken(token)); err != nil {
		return domain.IssuedSession{}, fmt.Errorf("create session: %w", err)
	}

	return domain.IssuedSession{Session: sess, Token: token}, nil
}

// Resolve maps a bearer token to its live session.
func (l *Local) Resolve(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	sess, err := l.store.Sessions().GetSessionByFingerprint(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	if sess.Expired(l.now()) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return sess, nil
}

// SignOut ends the session. Signing out twice is not an error.
func (l *Local) SignOut(ctx context.Context, sess domain.Session) error {
	err := l.store.Sessions().DeleteSession(ctx, sess.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Recover emails a recovery link. Unknown addresses succeed silently so the
// endpoint cannot be used to probe for accounts.
func (l *Local) Recover(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil
	}

	user, err := l.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.logger.InfoContext(ctx, "recovery requested for unknown email")
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}

	issued, err := l.issueSession(ctx, l.store, user, domain.SessionRecovery, l.cfg.RecoveryTTL)
	if err != nil {
		return err
	}

	link := l.cfg.ResetURL + "#type=recovery&token=" + issued.Token
	msg, err := mail.RecoveryMessage(user.Email, link, l.cfg.RecoveryTTL.String())
	if err != nil {
		return err
	}
	if err := l.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send recovery email: %w", err)
	}

	l.logger.InfoContext(ctx, "recovery email sent", "user_id", user.ID)
	return nil
}

// AssuranceLevel re-reads the session so elevation done by another request
// is visible.
func (l *Local) AssuranceLevel(ctx context.Context, sess domain.Session) (domain.AssuranceLevel, error) {
	cur, err := l.store.Sessions().GetSession(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	if cur.Expired(l.now()) {
		return "", domain.ErrSessionNotFound
	}
	return cur.Level, nil
}

// UpdatePassword sets a new password for the session's user and signs out
// every other session. The calling session stays valid but is no longer a
// recovery session.
func (l *Local) UpdatePassword(ctx context.Context, sess domain.Session, password string) error {
	if err := checkPassword(password); err != nil {
		return err
	}

	hash, err := l.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return l.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, sess.UserID, hash, l.now()); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.ErrSessionNotFound
			}
			return fmt.Errorf("update password: %w", err)
		}
		if _, err := tx.Sessions().DeleteUserSessions(ctx, sess.UserID, sess.ID); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
		if sess.Kind == domain.SessionRecovery {
			if err := tx.Sessions().UpdateSessionKind(ctx, sess.ID, domain.SessionNormal); err != nil && !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("update session: %w", err)
			}
		}
		return nil
	})
}

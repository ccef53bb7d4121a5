package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Sub-repositories are exposed as
// methods so a Tx can hand out the same repositories bound to the
// transaction, and so nobody opens a transaction inside a transaction.
type Store interface {
	Users() Users
	Sessions() Sessions
	Factors() Factors
	Challenges() Challenges
	EmailCodes() EmailCodes
	Scores() Scores

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing if fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser returns ErrAlreadyExists if the email is taken (case-insensitive).
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string, at time.Time) error
}

type Sessions interface {
	// CreateSession stores s keyed by the fingerprint of its bearer token.
	CreateSession(ctx context.Context, s domain.Session, fingerprint string) error
	// GetSessionByFingerprint returns the session with the owning user's email.
	GetSessionByFingerprint(ctx context.Context, fingerprint string) (domain.Session, error)
	GetSession(ctx context.Context, id string) (domain.Session, error)
	UpdateSessionLevel(ctx context.Context, id string, level domain.AssuranceLevel) error
	UpdateSessionKind(ctx context.Context, id string, kind domain.SessionKind) error
	DeleteSession(ctx context.Context, id string) error
	// DeleteUserSessions removes every session of userID except keepID.
	DeleteUserSessions(ctx context.Context, userID, keepID string) (int64, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type Factors interface {
	CreateFactor(ctx context.Context, f domain.Factor) error
	GetFactor(ctx context.Context, id string) (domain.Factor, error)
	// ListFactorsByUser returns factors oldest first.
	ListFactorsByUser(ctx context.Context, userID string) ([]domain.Factor, error)
	// MarkFactorVerified returns ErrAlreadyExists if the user already has a
	// verified factor of the same type.
	MarkFactorVerified(ctx context.Context, id string, at time.Time) error
	DeleteFactor(ctx context.Context, id string) error
	DeleteUnverifiedFactorsBefore(ctx context.Context, before time.Time) (int64, error)
}

type Challenges interface {
	CreateChallenge(ctx context.Context, c domain.MFAChallenge) error
	GetChallenge(ctx context.Context, id string) (domain.MFAChallenge, error)
	// IncrementChallengeAttempts records a failed attempt and returns the updated row.
	IncrementChallengeAttempts(ctx context.Context, id string) (domain.MFAChallenge, error)
	DeleteChallenge(ctx context.Context, id string) error
	DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error)
}

type EmailCodes interface {
	CreateEmailCode(ctx context.Context, c domain.EmailCode) error
	// LatestActiveEmailCode returns the newest unverified, unexpired code.
	LatestActiveEmailCode(ctx context.Context, userID string, now time.Time) (domain.EmailCode, error)
	MarkEmailCodeVerified(ctx context.Context, id string) error
	DeleteExpiredEmailCodes(ctx context.Context, now time.Time) (int64, error)
}

type Scores interface {
	CreateScore(ctx context.Context, s domain.Score) error
	// TopScores returns the board for difficulty: highest score first,
	// earliest submission first on ties.
	TopScores(ctx context.Context, difficulty domain.Difficulty, limit int) ([]domain.Score, error)
}

package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

type sessionsRepo struct {
	db dbtx
}

const sessionSelect = `
SELECT s.id, s.user_id, u.email, s.kind, s.level, s.created_at, s.expires_at
FROM sessions s
JOIN users u ON u.id = s.user_id`

func scanSession(row interface{ Scan(...any) error }) (domain.Session, error) {
	var (
		s                domain.Session
		kind, level      string
		created, expires int64
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Email, &kind, &level, &created, &expires); err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.Kind = domain.SessionKind(kind)
	s.Level = domain.AssuranceLevel(level)
	s.CreatedAt = fromMillis(created)
	s.ExpiresAt = fromMillis(expires)
	return s, nil
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session, fingerprint string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (id, user_id, token_fingerprint, kind, level, created_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, fingerprint, string(s.Kind), string(s.Level), toMillis(s.CreatedAt), toMillis(s.ExpiresAt),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByFingerprint(ctx context.Context, fingerprint string) (domain.Session, error) {
	return scanSession(r.db.QueryRowContext(ctx, sessionSelect+` WHERE s.token_fingerprint = ?`, fingerprint))
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	return scanSession(r.db.QueryRowContext(ctx, sessionSelect+` WHERE s.id = ?`, id))
}

func (r *sessionsRepo) UpdateSessionLevel(ctx context.Context, id string, level domain.AssuranceLevel) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE sessions SET level = ? WHERE id = ?`, string(level), id))
}

func (r *sessionsRepo) UpdateSessionKind(ctx context.Context, id string, kind domain.SessionKind) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE sessions SET kind = ? WHERE id = ?`, string(kind), id))
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id))
}

func (r *sessionsRepo) DeleteUserSessions(ctx context.Context, userID, keepID string) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = ? AND id <> ?`, userID, keepID))
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, toMillis(now)))
}

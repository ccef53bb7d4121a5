package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

type emailCodesRepo struct {
	db dbtx
}

func (r *emailCodesRepo) CreateEmailCode(ctx context.Context, c domain.EmailCode) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO email_codes (id, user_id, code_hash, expires_at, verified, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.CodeHash, toMillis(c.ExpiresAt), c.Verified, toMillis(c.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *emailCodesRepo) LatestActiveEmailCode(ctx context.Context, userID string, now time.Time) (domain.EmailCode, error) {
	var (
		c                domain.EmailCode
		expires, created int64
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, code_hash, expires_at, verified, created_at
FROM email_codes
WHERE user_id = ? AND verified = 0 AND expires_at > ?
ORDER BY created_at DESC, id DESC
LIMIT 1`, userID, toMillis(now)).Scan(&c.ID, &c.UserID, &c.CodeHash, &expires, &c.Verified, &created)
	if err != nil {
		return domain.EmailCode{}, mapNotFound(err)
	}
	c.ExpiresAt = fromMillis(expires)
	c.CreatedAt = fromMillis(created)
	return c, nil
}

func (r *emailCodesRepo) MarkEmailCodeVerified(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE email_codes SET verified = 1 WHERE id = ? AND verified = 0`, id))
}

func (r *emailCodesRepo) DeleteExpiredEmailCodes(ctx context.Context, now time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		`DELETE FROM email_codes WHERE expires_at <= ?`, toMillis(now)))
}

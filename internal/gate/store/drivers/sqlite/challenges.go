package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

type challengesRepo struct {
	db dbtx
}

const challengeColumns = `id, factor_id, user_id, attempts, created_at, expires_at`

func scanChallenge(row interface{ Scan(...any) error }) (domain.MFAChallenge, error) {
	var (
		c                domain.MFAChallenge
		created, expires int64
	)
	if err := row.Scan(&c.ID, &c.FactorID, &c.UserID, &c.Attempts, &created, &expires); err != nil {
		return domain.MFAChallenge{}, mapNotFound(err)
	}
	c.CreatedAt = fromMillis(created)
	c.ExpiresAt = fromMillis(expires)
	return c, nil
}

func (r *challengesRepo) CreateChallenge(ctx context.Context, c domain.MFAChallenge) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mfa_challenges (`+challengeColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.FactorID, c.UserID, c.Attempts, toMillis(c.CreatedAt), toMillis(c.ExpiresAt),
	)
	return mapConstraint(err)
}

func (r *challengesRepo) GetChallenge(ctx context.Context, id string) (domain.MFAChallenge, error) {
	return scanChallenge(r.db.QueryRowContext(ctx,
		`SELECT `+challengeColumns+` FROM mfa_challenges WHERE id = ?`, id))
}

func (r *challengesRepo) IncrementChallengeAttempts(ctx context.Context, id string) (domain.MFAChallenge, error) {
	return scanChallenge(r.db.QueryRowContext(ctx,
		`UPDATE mfa_challenges SET attempts = attempts + 1 WHERE id = ? RETURNING `+challengeColumns, id))
}

func (r *challengesRepo) DeleteChallenge(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM mfa_challenges WHERE id = ?`, id))
}

func (r *challengesRepo) DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		`DELETE FROM mfa_challenges WHERE expires_at <= ?`, toMillis(now)))
}

package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

type factorsRepo struct {
	db dbtx
}

const factorColumns = `id, user_id, type, status, friendly_name, secret, created_at, updated_at`

func scanFactor(row interface{ Scan(...any) error }) (domain.Factor, error) {
	var (
		f                domain.Factor
		typ, status      string
		created, updated int64
	)
	if err := row.Scan(&f.ID, &f.UserID, &typ, &status, &f.FriendlyName, &f.Secret, &created, &updated); err != nil {
		return domain.Factor{}, mapNotFound(err)
	}
	f.Type = domain.FactorType(typ)
	f.Status = domain.FactorStatus(status)
	f.CreatedAt = fromMillis(created)
	f.UpdatedAt = fromMillis(updated)
	return f, nil
}

func (r *factorsRepo) CreateFactor(ctx context.Context, f domain.Factor) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mfa_factors (`+factorColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.UserID, string(f.Type), string(f.Status), f.FriendlyName, f.Secret,
		toMillis(f.CreatedAt), toMillis(f.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *factorsRepo) GetFactor(ctx context.Context, id string) (domain.Factor, error) {
	return scanFactor(r.db.QueryRowContext(ctx,
		`SELECT `+factorColumns+` FROM mfa_factors WHERE id = ?`, id))
}

func (r *factorsRepo) ListFactorsByUser(ctx context.Context, userID string) ([]domain.Factor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+factorColumns+` FROM mfa_factors WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Factor
	for rows.Next() {
		f, err := scanFactor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *factorsRepo) MarkFactorVerified(ctx context.Context, id string, at time.Time) error {
	return requireAffected(mapResult(r.db.ExecContext(ctx,
		`UPDATE mfa_factors SET status = 'verified', updated_at = ? WHERE id = ?`, toMillis(at), id)))
}

func (r *factorsRepo) DeleteFactor(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM mfa_factors WHERE id = ?`, id))
}

func (r *factorsRepo) DeleteUnverifiedFactorsBefore(ctx context.Context, before time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		`DELETE FROM mfa_factors WHERE status = 'unverified' AND created_at < ?`, toMillis(before)))
}

package sqlite

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

type scoresRepo struct {
	db dbtx
}

func (r *scoresRepo) CreateScore(ctx context.Context, s domain.Score) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO leaderboard (id, user_id, player_name, difficulty, score, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.PlayerName, string(s.Difficulty), s.Points, toMillis(s.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *scoresRepo) TopScores(ctx context.Context, difficulty domain.Difficulty, limit int) ([]domain.Score, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, player_name, difficulty, score, created_at
FROM leaderboard
WHERE difficulty = ?
ORDER BY score DESC, created_at ASC, id ASC
LIMIT ?`, string(difficulty), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Score
	for rows.Next() {
		var (
			s       domain.Score
			diff    string
			created int64
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.PlayerName, &diff, &s.Points, &created); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		s.Difficulty = domain.Difficulty(diff)
		s.CreatedAt = fromMillis(created)
		out = append(out, s)
	}
	return out, rows.Err()
}

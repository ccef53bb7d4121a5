package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/aussiebroadwan/bananabrain/internal/gate/store"
	"github.com/aussiebroadwan/bananabrain/pkg/idx"
)

// MaxScore rejects submissions no game can reach.
const MaxScore = 1_000_000

// LeaderboardService records finished games and reads the per-difficulty
// boards. Callers gate it behind the authorized phase.
type LeaderboardService struct {
	Store  store.Store
	Logger *slog.Logger
	Now    func() time.Time
}

func (s *LeaderboardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Standing is a submitted score and its place on the board. Rank is 1-based
// and zero when the score did not make the top LeaderboardSize.
type Standing struct {
	Score domain.Score
	Rank  int
}

// Submit stores points for the session's player under difficulty.
func (s *LeaderboardService) Submit(ctx context.Context, sess domain.Session, difficulty string, points int64) (Standing, error) {
	diff, err := domain.ParseDifficulty(difficulty)
	if err != nil {
		return Standing{}, newError(KindInvalidRequest, "Difficulty must be easy, medium or hard", err)
	}
	if points < 0 || points > MaxScore {
		return Standing{}, newError(KindInvalidRequest, fmt.Sprintf("Score must be between 0 and %d", MaxScore), nil)
	}

	score := domain.Score{
		ID:         idx.New().String(),
		UserID:     sess.UserID,
		PlayerName: sess.Email,
		Difficulty: diff,
		Points:     points,
		CreatedAt:  s.now(),
	}
	if err := s.Store.Scores().CreateScore(ctx, score); err != nil {
		return Standing{}, newError(KindInternal, "Failed to save score", err)
	}

	board, err := s.Store.Scores().TopScores(ctx, diff, domain.LeaderboardSize)
	if err != nil {
		return Standing{}, newError(KindInternal, "Failed to load leaderboard", err)
	}

	standing := Standing{Score: score}
	for i, entry := range board {
		if entry.ID == score.ID {
			standing.Rank = i + 1
			break
		}
	}

	if s.Logger != nil {
		s.Logger.InfoContext(ctx, "score submitted",
			"user_id", sess.UserID, "difficulty", diff, "score", points, "rank", standing.Rank)
	}
	return standing, nil
}

// Top returns the board for difficulty, best first.
func (s *LeaderboardService) Top(ctx context.Context, difficulty string) ([]domain.Score, error) {
	diff, err := domain.ParseDifficulty(difficulty)
	if err != nil {
		return nil, newError(KindInvalidRequest, "Difficulty must be easy, medium or hard", err)
	}

	board, err := s.Store.Scores().TopScores(ctx, diff, domain.LeaderboardSize)
	if err != nil {
		return nil, newError(KindInternal, "Failed to load leaderboard", err)
	}
	return board, nil
}

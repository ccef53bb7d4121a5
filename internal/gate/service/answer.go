package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/aussiebroadwan/bananabrain/pkg/tokenx"
)

// DefaultAnswerTTL is how long a client may sit on a question.
const DefaultAnswerTTL = 300 * time.Second

// PuzzleSource produces one question per call.
type PuzzleSource interface {
	Fetch(ctx context.Context) (domain.Puzzle, error)
}

// SpentTokens remembers answer token IDs that were already checked. Spend
// reports false when id was spent before.
type SpentTokens interface {
	Spend(ctx context.Context, id string, until time.Time) (bool, error)
}

// AnswerService hands out puzzles with a signed answer token and checks
// guesses against it. It keeps no per-question state unless Spent is set.
type AnswerService struct {
	Source  PuzzleSource
	Codec   *tokenx.Codec[domain.AnswerPayload]
	TTL     time.Duration
	Timeout time.Duration
	// Spent makes answer tokens single-use. Optional.
	Spent  SpentTokens
	Logger *slog.Logger
}

func (s *AnswerService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultAnswerTTL
	}
	return s.TTL
}

// IssueChallenge fetches a puzzle and seals its solution into a token.
func (s *AnswerService) IssueChallenge(ctx context.Context) (domain.AnswerChallenge, error) {
	fetchCtx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	p, err := s.Source.Fetch(fetchCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			return domain.AnswerChallenge{}, newError(KindUpstreamTimeout, "Puzzle source timed out", err)
		}
		return domain.AnswerChallenge{}, newError(KindUpstreamUnavailable, "Failed to fetch question", err)
	}
	if p.Image == "" {
		return domain.AnswerChallenge{}, newError(KindUpstreamUnavailable, "Failed to fetch question", errors.New("puzzle has no image"))
	}

	token, claims, err := s.Codec.IssueClaims(domain.AnswerPayload{Solution: p.Solution}, s.ttl())
	if err != nil {
		return domain.AnswerChallenge{}, newError(KindInternal, "Failed to issue answer token", err)
	}

	return domain.AnswerChallenge{
		Image:       p.Image,
		AnswerToken: token,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// VerifyGuess reports whether guess is the solution sealed in token. A bad
// token is an ErrInvalidToken, never a wrong answer.
func (s *AnswerService) VerifyGuess(ctx context.Context, guess int64, token string) (bool, error) {
	claims, err := s.Codec.Verify(token)
	if err != nil {
		return false, newError(KindInvalidToken, "Invalid or expired token", err)
	}

	if s.Spent != nil {
		spendCtx, cancel := bounded(ctx, s.Timeout)
		defer cancel()

		// Remember the id for as long as Verify would still accept it.
		first, err := s.Spent.Spend(spendCtx, claims.ID, claims.ExpiresAt.Add(s.Codec.Leeway()))
		if err != nil {
			return false, newError(KindUpstreamUnavailable, "Failed to check answer token", err)
		}
		if !first {
			if s.Logger != nil {
				s.Logger.WarnContext(ctx, "answer token replayed", "jti", claims.ID)
			}
			return false, newError(KindInvalidToken, "Invalid or expired token", errors.New("answer token already used"))
		}
	}

	return claims.Payload.Solution == guess, nil
}

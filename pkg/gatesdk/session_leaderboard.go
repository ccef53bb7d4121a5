package gatesdk

import (
	"context"
	"net/http"
	"net/url"
)

// SubmitScore records a finished game. The session must be authorized;
// otherwise the error kind is phase_required.
func (s *Session) SubmitScore(ctx context.Context, difficulty string, score int64) (*SubmitScoreResponse, error) {
	var out SubmitScoreResponse
	err := s.client.call(ctx, http.MethodPost, "/v1/leaderboard", s.token, ScoreRequest{Difficulty: difficulty, Score: score}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Leaderboard returns the top scores for difficulty.
func (s *Session) Leaderboard(ctx context.Context, difficulty string) (*LeaderboardResponse, error) {
	var out LeaderboardResponse
	path := "/v1/leaderboard?difficulty=" + url.QueryEscape(difficulty)
	if err := s.client.call(ctx, http.MethodGet, path, s.token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

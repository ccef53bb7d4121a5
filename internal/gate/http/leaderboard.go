package http

import (
	"net/http"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/aussiebroadwan/bananabrain/internal/gate/service"
	"github.com/aussiebroadwan/bananabrain/pkg/gatesdk"
	"github.com/aussiebroadwan/bananabrain/pkg/httpx"
)

// LeaderboardHandler serves the per-difficulty high score boards.
type LeaderboardHandler struct {
	Scores *service.LeaderboardService
}

// requireAuthorized lets a request through only when the caller's session
// evaluates to the authorized phase. It runs after authn.
func (h *PhaseHandler) requireAuthorized() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := h.evaluate(r.Context(), "")
			if res.Phase != domain.PhaseAuthorized.String() {
				err := &service.Error{Kind: service.KindPhaseRequired, Message: "Complete MFA verification first"}
				writeServiceError(w, r, http.StatusForbidden, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func scoreEntry(s domain.Score) gatesdk.ScoreEntry {
	return gatesdk.ScoreEntry{
		PlayerName: s.PlayerName,
		Score:      s.Points,
		Difficulty: string(s.Difficulty),
		CreatedAt:  s.CreatedAt.UTC(),
	}
}

// HandleSubmit handles POST /v1/leaderboard
//
//	@Summary		Submit a score
//	@Description	Records the final score of a game under its difficulty and reports its rank in the top 10.
//	@Tags			Leaderboard
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.ScoreRequest	true	"Difficulty and score"
//	@Success		200		{object}	gatesdk.SubmitScoreResponse
//	@Failure		400		{object}	gatesdk.ErrorResponse	"Unknown difficulty or score out of range"
//	@Failure		401		{object}	gatesdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403		{object}	gatesdk.ErrorResponse	"Session is not authorized"
//	@Router			/v1/leaderboard [post].
func (h *LeaderboardHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeServiceError(w, r, http.StatusUnauthorized, service.ErrUnauthenticated)
		return
	}

	var req gatesdk.ScoreRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, err)
		return
	}

	standing, err := h.Scores.Submit(r.Context(), sess, req.Difficulty, req.Score)
	if err != nil {
		writeServiceError(w, r, statusFor(service.KindOf(err)), err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gatesdk.SubmitScoreResponse{
		Entry: scoreEntry(standing.Score),
		Rank:  standing.Rank,
	})
}

// HandleTop handles GET /v1/leaderboard
//
//	@Summary		Top 10 for a difficulty
//	@Description	Highest score first; equal scores keep submission order.
//	@Tags			Leaderboard
//	@Security		BearerAuth
//	@Produce		json
//	@Param			difficulty	query		string	true	"easy, medium or hard"
//	@Success		200			{object}	gatesdk.LeaderboardResponse
//	@Failure		400			{object}	gatesdk.ErrorResponse	"Unknown difficulty"
//	@Failure		401			{object}	gatesdk.ErrorResponse	"Missing or invalid session"
//	@Failure		403			{object}	gatesdk.ErrorResponse	"Session is not authorized"
//	@Router			/v1/leaderboard [get].
func (h *LeaderboardHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	difficulty := r.URL.Query().Get("difficulty")

	board, err := h.Scores.Top(r.Context(), difficulty)
	if err != nil {
		writeServiceError(w, r, statusFor(service.KindOf(err)), err)
		return
	}

	// Top has already validated it.
	diff, _ := domain.ParseDifficulty(difficulty)

	out := gatesdk.LeaderboardResponse{Difficulty: string(diff), Scores: make([]gatesdk.ScoreEntry, 0, len(board))}
	for _, s := range board {
		out.Scores = append(out.Scores, scoreEntry(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

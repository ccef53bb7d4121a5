package http

import (
	"net/http"

	"github.com/aussiebroadwan/bananabrain/internal/gate/service"
	"github.com/aussiebroadwan/bananabrain/pkg/gatesdk"
	"github.com/aussiebroadwan/bananabrain/pkg/httpx"
)

// AnswerHandler serves the anonymous puzzle round endpoints.
type AnswerHandler struct {
	Answers *service.AnswerService
}

// HandleIssue handles POST /v1/issue-challenge
//
//	@Summary		Issue a puzzle round
//	@Description	Fetches a puzzle and returns its image with a signed answer token valid for five minutes.
//	@Description	The solution is only ever present inside the token.
//	@Tags			Game
//	@Produce		json
//	@Success		200	{object}	gatesdk.ChallengeResponse	"Puzzle image and answer token"
//	@Failure		429	{object}	gatesdk.ErrorResponse		"Rate limited"
//	@Failure		500	{object}	gatesdk.ErrorResponse		"Puzzle source unavailable"
//	@Router			/v1/issue-challenge [post].
func (h *AnswerHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ch, err := h.Answers.IssueChallenge(r.Context())
	if err != nil {
		writeServiceError(w, r, http.StatusInternalServerError, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.ChallengeResponse{
		Image:       ch.Image,
		AnswerToken: ch.AnswerToken,
	})
}

// HandleVerify handles POST /v1/verify-guess
//
//	@Summary		Check a guess
//	@Description	Verifies the answer token and compares the guess with the sealed solution.
//	@Description	A rejected token is a 401, never "correct": false; fetch a new round instead of retrying.
//	@Tags			Game
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.VerifyGuessRequest	true	"Guess and answer token"
//	@Success		200		{object}	gatesdk.VerifyGuessResponse	"Whether the guess is correct"
//	@Failure		401		{object}	gatesdk.ErrorResponse		"Invalid, expired or tampered token"
//	@Failure		429		{object}	gatesdk.ErrorResponse		"Rate limited"
//	@Router			/v1/verify-guess [post].
func (h *AnswerHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req gatesdk.VerifyGuessRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Guess == nil {
		writeServiceError(w, r, http.StatusUnauthorized, &service.Error{
			Kind:    service.KindInvalidRequest,
			Message: "guess must be an integer",
			Err:     err,
		})
		return
	}

	correct, err := h.Answers.VerifyGuess(r.Context(), int64(*req.Guess), req.AnswerToken)
	if err != nil {
		status := http.StatusUnauthorized
		if service.KindOf(err) != service.KindInvalidToken {
			status = statusFor(service.KindOf(err))
		}
		writeServiceError(w, r, status, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.VerifyGuessResponse{Correct: correct})
}

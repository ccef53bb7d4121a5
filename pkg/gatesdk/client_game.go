package gatesdk

import (
	"context"
	"net/http"
)

// IssueChallenge fetches a puzzle and its answer token.
func (c *SDKClient) IssueChallenge(ctx context.Context) (*ChallengeResponse, error) {
	var out ChallengeResponse
	if err := c.call(ctx, http.MethodPost, "/v1/issue-challenge", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyGuess checks guess against the answer token. A rejected token comes
// back as an *APIError for which IsInvalidToken is true, never as false.
func (c *SDKClient) VerifyGuess(ctx context.Context, guess int64, answerToken string) (bool, error) {
	g := Guess(guess)
	var out VerifyGuessResponse
	err := c.call(ctx, http.MethodPost, "/v1/verify-guess", "", VerifyGuessRequest{Guess: &g, AnswerToken: answerToken}, &out)
	if err != nil {
		return false, err
	}
	return out.Correct, nil
}

// SendEmailCode mails a one-time code to the session's address.
func (s *Session) SendEmailCode(ctx context.Context) error {
	var out SuccessResponse
	return s.client.call(ctx, http.MethodPost, "/v1/send-email-code", s.token, nil, &out)
}

func (s *Session) VerifyEmailCode(ctx context.Context, code string) error {
	var out SuccessResponse
	return s.client.call(ctx, http.MethodPost, "/v1/verify-email-code", s.token, EmailCodeRequest{Code: code}, &out)
}

package gatesdk

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// Errors
// ============================================================================

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	// Error is a message safe to show to the player
	Error string `json:"error"`

	// Kind is the machine-readable failure class (e.g. "invalid_token")
	Kind string `json:"kind,omitempty"`
}

// ============================================================================
// Game Types
// ============================================================================

// ChallengeResponse is one puzzle round.
type ChallengeResponse struct {
	// Image is the URL of the puzzle image
	Image string `json:"image"`

	// AnswerToken is the signed, opaque solution. Send it back with the guess.
	AnswerToken string `json:"answerToken"`
}

// Guess is a player's answer. It decodes from a JSON integer or a base-10
// integer string.
type Guess int64

var errBadGuess = errors.New("guess must be an integer")

func (g *Guess) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return errBadGuess
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errBadGuess
		}
		raw = strings.TrimSpace(s)
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return errBadGuess
	}
	*g = Guess(n)
	return nil
}

// VerifyGuessRequest submits a guess for a round.
type VerifyGuessRequest struct {
	// Guess is required; a pointer so a missing value can be told from zero
	Guess *Guess `json:"guess" swaggertype:"integer"`

	AnswerToken string `json:"answerToken"`
}

type VerifyGuessResponse struct {
	Correct bool `json:"correct"`
}

// SuccessResponse acknowledges an operation with no other result.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// EmailCodeRequest submits an emailed one-time code.
type EmailCodeRequest struct {
	Code string `json:"code"`
}

// ============================================================================
// Leaderboard Types
// ============================================================================

// ScoreRequest submits the final score of a game.
type ScoreRequest struct {
	// Difficulty is easy, medium or hard
	Difficulty string `json:"difficulty"`

	Score int64 `json:"score"`
}

// ScoreEntry is one row of a leaderboard.
type ScoreEntry struct {
	PlayerName string    `json:"player_name"`
	Score      int64     `json:"score"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

type SubmitScoreResponse struct {
	Entry ScoreEntry `json:"entry"`

	// Rank is the 1-based place on the board, 0 when outside the top 10
	Rank int `json:"rank"`
}

// LeaderboardResponse is the top 10 of one difficulty, best first. Equal
// scores are ordered by who got there first.
type LeaderboardResponse struct {
	Difficulty string       `json:"difficulty"`
	Scores     []ScoreEntry `json:"scores"`
}

// ============================================================================
// Account Types
// ============================================================================

// CredentialsRequest is the body of sign-up and sign-in.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse carries a new opaque session token.
type SessionResponse struct {
	// SessionToken is sent as "Authorization: Bearer <token>"
	SessionToken string `json:"session_token"`

	ExpiresAt time.Time `json:"expires_at"`
}

type RecoverRequest struct {
	Email string `json:"email"`
}

type PasswordUpdateRequest struct {
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

// PhaseResponse is the assurance phase the client should display.
type PhaseResponse struct {
	// Phase is one of needs-auth, needs-enrollment, needs-verification,
	// authorized, needs-password-reset
	Phase string `json:"phase"`

	// Error is set when the evaluation failed closed
	Error string `json:"error,omitempty"`
}

// ============================================================================
// MFA Types
// ============================================================================

// EnrollResponse holds everything an authenticator app needs.
type EnrollResponse struct {
	FactorID string `json:"factor_id"`

	// QRCode is a PNG data URI
	QRCode string `json:"qr_code"`

	// Secret is the base32 TOTP secret for manual entry
	Secret string `json:"secret"`

	// URI is the otpauth:// provisioning URI
	URI string `json:"uri"`
}

type EnrollVerifyRequest struct {
	FactorID string `json:"factor_id"`
	Code     string `json:"code"`
}

type MFAChallengeResponse struct {
	ChallengeID string `json:"challenge_id"`
	FactorID    string `json:"factor_id"`
}

type MFAVerifyRequest struct {
	ChallengeID string `json:"challenge_id"`
	FactorID    string `json:"factor_id"`
	Code        string `json:"code"`
}

// ============================================================================
// Health Types
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Replay   string `json:"replay,omitempty"`
}

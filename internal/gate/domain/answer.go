package domain

import "time"

// Puzzle is one question from the puzzle source. Solution must not leave
// the server except inside a signed answer token.
type Puzzle struct {
	Image    string
	Solution int64
}

// AnswerPayload is the signed content of an answer token.
type AnswerPayload struct {
	Solution int64 `json:"solution"`
}

// AnswerChallenge is what a client receives for one round.
type AnswerChallenge struct {
	Image       string
	AnswerToken string
	ExpiresAt   time.Time
}

package domain

import "errors"

// Errors an identity provider returns. Services match them with errors.Is
// without depending on a concrete provider.
var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrWeakPassword          = errors.New("password too short")
	ErrSessionNotFound       = errors.New("session not found or expired")
	ErrFactorNotFound        = errors.New("factor not found")
	ErrFactorConflict        = errors.New("a verified factor of this type already exists")
	ErrChallengeNotFound     = errors.New("challenge not found, expired or exhausted")
	ErrInvalidCode           = errors.New("invalid one-time code")
	ErrInsufficientAssurance = errors.New("operation requires an elevated session")
)

// MinPasswordLength is counted in runes.
const MinPasswordLength = 6

package domain

import "time"

// EmailCode is a hashed one-time code sent by email.
type EmailCode struct {
	ID        string
	UserID    string
	CodeHash  string // bcrypt
	ExpiresAt time.Time
	Verified  bool
	CreatedAt time.Time
}

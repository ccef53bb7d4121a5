package domain

import "time"

// AssuranceLevel is the trust tier of a session.
type AssuranceLevel string

const (
	LevelBase     AssuranceLevel = "aal1" // password only
	LevelElevated AssuranceLevel = "aal2" // password plus a verified second factor
)

// SessionKind separates ordinary sign-ins from password recovery links.
type SessionKind string

const (
	SessionNormal   SessionKind = "normal"
	SessionRecovery SessionKind = "recovery"
)

type Session struct {
	ID        string
	UserID    string
	Email     string
	Kind      SessionKind
	Level     AssuranceLevel
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer usable at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IssuedSession is returned once on sign-in. Token is never stored.
type IssuedSession struct {
	Session Session
	Token   string
}

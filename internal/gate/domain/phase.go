package domain

// Phase is the single authoritative application state for a client. It is
// derived on every evaluation and never stored.
type Phase string

const (
	PhaseNeedsAuth          Phase = "needs-auth"
	PhaseNeedsEnrollment    Phase = "needs-enrollment"
	PhaseNeedsVerification  Phase = "needs-verification"
	PhaseAuthorized         Phase = "authorized"
	PhaseNeedsPasswordReset Phase = "needs-password-reset"
)

func (p Phase) String() string { return string(p) }

// Valid reports whether p is one of the five phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseNeedsAuth, PhaseNeedsEnrollment, PhaseNeedsVerification, PhaseAuthorized, PhaseNeedsPasswordReset:
		return true
	}
	return false
}

// ResolvePhase is the transition table. The password-reset path overrides
// everything; without a session nothing else is consulted; an elevated
// session is authorized regardless of factors.
func ResolvePhase(hasSession bool, level AssuranceLevel, hasVerifiedFactor, onResetPath bool) Phase {
	switch {
	case onResetPath:
		return PhaseNeedsPasswordReset
	case !hasSession:
		return PhaseNeedsAuth
	case level == LevelElevated:
		return PhaseAuthorized
	case hasVerifiedFactor:
		return PhaseNeedsVerification
	default:
		return PhaseNeedsEnrollment
	}
}

package domain

import "time"

type FactorType string

const FactorTOTP FactorType = "totp"

type FactorStatus string

const (
	FactorUnverified FactorStatus = "unverified"
	FactorVerified   FactorStatus = "verified"
)

// Factor is an enrolled second factor. A user may hold several unverified
// factors from abandoned enrollments but at most one verified TOTP factor.
type Factor struct {
	ID           string
	UserID       string
	Type         FactorType
	Status       FactorStatus
	FriendlyName string
	Secret       string // base32 TOTP seed; never leaves the identity provider after enrollment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (f Factor) IsVerifiedTOTP() bool {
	return f.Type == FactorTOTP && f.Status == FactorVerified
}

// VerifiedTOTP returns the first verified TOTP factor.
func VerifiedTOTP(factors []Factor) (Factor, bool) {
	for _, f := range factors {
		if f.IsVerifiedTOTP() {
			return f, true
		}
	}
	return Factor{}, false
}

// MFAChallenge binds one verification attempt window to a factor.
type MFAChallenge struct {
	ID        string
	FactorID  string
	UserID    string
	Attempts  int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// MaxChallengeAttempts bounds wrong codes per challenge.
const MaxChallengeAttempts = 5

// TOTPEnrollment is shown once to the user to configure an authenticator app.
type TOTPEnrollment struct {
	FactorID string
	QRCode   string // PNG data URI
	Secret   string // base32, for manual entry
	URI      string // otpauth:// URI
}

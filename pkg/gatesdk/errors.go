package gatesdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error kinds returned by the gate.
const (
	KindUpstreamUnavailable = "upstream_unavailable"
	KindUpstreamTimeout     = "upstream_timeout"
	KindInvalidToken        = "invalid_token"
	KindProviderError       = "provider_error"
	KindNoVerifiedFactor    = "no_verified_factor"
	KindNoPendingChallenge  = "no_pending_challenge"
	KindPasswordMismatch    = "password_mismatch"
	KindWeakPassword        = "weak_password"
	KindInvalidRequest      = "invalid_request"
	KindInvalidCode         = "invalid_code"
	KindInvalidCredentials  = "invalid_credentials"
	KindEmailTaken          = "email_taken"
	KindUnauthorized        = "unauthorized"
	KindRateLimited         = "rate_limited"
	KindPhaseRequired       = "phase_required"
)

// APIError is a non-2xx response from the gate.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("gate: http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gate: http %d: %s: %s", e.StatusCode, e.Kind, e.Message)
}

// KindOf returns the Kind of an *APIError in err's chain, or "".
func KindOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsInvalidToken reports whether the gate rejected an answer token. The
// client should fetch a new challenge rather than retry.
func IsInvalidToken(err error) bool {
	return KindOf(err) == KindInvalidToken
}

// IsUnauthorized reports a missing, invalid or expired session.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized && apiErr.Kind != KindInvalidToken
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		apiErr.Kind = er.Kind
		apiErr.Message = er.Error
		return apiErr
	}

	apiErr.Message = http.StatusText(resp.StatusCode)
	return apiErr
}

package gatesdk

import (
	"context"
	"net/http"
	"net/url"
)

// SignUp creates an account and returns its first session.
func (c *SDKClient) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.openSession(ctx, "/v1/auth/signup", email, password)
}

func (c *SDKClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.openSession(ctx, "/v1/auth/signin", email, password)
}

func (c *SDKClient) openSession(ctx context.Context, path, email, password string) (*Session, error) {
	var out SessionResponse
	if err := c.call(ctx, http.MethodPost, path, "", CredentialsRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &Session{client: c, token: out.SessionToken, expiresAt: out.ExpiresAt}, nil
}

// Recover asks for a recovery email. It succeeds for unknown addresses too.
func (c *SDKClient) Recover(ctx context.Context, email string) error {
	var out SuccessResponse
	return c.call(ctx, http.MethodPost, "/v1/auth/recover", "", RecoverRequest{Email: email}, &out)
}

// Phase evaluates an anonymous client; it is always needs-auth unless path
// is the password-reset path.
func (c *SDKClient) Phase(ctx context.Context, path string) (*PhaseResponse, error) {
	return c.phase(ctx, "", path)
}

func (c *SDKClient) phase(ctx context.Context, token, path string) (*PhaseResponse, error) {
	p := "/v1/session/phase"
	if path != "" {
		p += "?path=" + url.QueryEscape(path)
	}
	var out PhaseResponse
	if err := c.call(ctx, http.MethodGet, p, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Phase evaluates this session's assurance phase.
func (s *Session) Phase(ctx context.Context, path string) (*PhaseResponse, error) {
	return s.client.phase(ctx, s.token, path)
}

// SignOut ends the session on the server.
func (s *Session) SignOut(ctx context.Context) error {
	var out PhaseResponse
	return s.client.call(ctx, http.MethodPost, "/v1/auth/signout", s.token, nil, &out)
}

// UpdatePassword changes the password. Every other session of the user is
// revoked; the returned phase is needs-auth.
func (s *Session) UpdatePassword(ctx context.Context, password, confirm string) (string, error) {
	var out PhaseResponse
	if err := s.client.call(ctx, http.MethodPost, "/v1/auth/password", s.token, PasswordUpdateRequest{Password: password, Confirm: confirm}, &out); err != nil {
		return "", err
	}
	return out.Phase, nil
}

package gatesdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to one gate instance.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Session is a signed-in client. The token is opaque to the SDK.
type Session struct {
	client    *SDKClient
	token     string
	expiresAt time.Time
}

// NewSession wraps a token obtained elsewhere, e.g. from a recovery link.
func (c *SDKClient) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}

func (s *Session) Token() string        { return s.token }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Package tokenx signs and verifies short-lived, self-contained tokens with a
// shared HMAC-SHA-512 key. Tokens use the JWT compact serialization so any
// HS512-aware tooling can inspect them, but the codec is deliberately narrow:
// one algorithm, one key, a mandatory expiry.
package tokenx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/bananabrain/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// MinSecretSize is the smallest accepted key, matching the HS512 block output.
const MinSecretSize = 32

var (
	ErrMalformed         = errors.New("tokenx: malformed token")
	ErrSignatureMismatch = errors.New("tokenx: signature mismatch")
	ErrExpired           = errors.New("tokenx: token expired")

	ErrWeakSecret    = errors.New("tokenx: secret too short")
	ErrInvalidTTL    = errors.New("tokenx: ttl must be positive")
	ErrReservedClaim = errors.New("tokenx: payload uses a reserved claim")
)

// Envelope claims stamped by the codec. A payload may not use these names.
const (
	claimExpiresAt = "exp"
	claimIssuedAt  = "iat"
	claimID        = "jti"
)

// Claims is a verified token: the payload exactly as issued plus the
// envelope the codec added.
type Claims[P any] struct {
	Payload   P
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type options struct {
	now    func() time.Time
	leeway time.Duration
}

type Option func(*options)

// WithClock replaces time.Now. Issue and Verify always share the same clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLeeway tolerates clock skew when checking exp. The default is zero: a
// token is expired from the second its exp is reached.
func WithLeeway(d time.Duration) Option {
	return func(o *options) { o.leeway = d }
}

// Codec issues and verifies tokens whose payload is P. P must marshal to a
// JSON object.
type Codec[P any] struct {
	key    []byte
	method *jwt.SigningMethodHMAC
	opts   options
}

func NewCodec[P any](secret []byte, opts ...Option) (*Codec[P], error) {
	if len(secret) < MinSecretSize {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrWeakSecret, MinSecretSize, len(secret))
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &Codec[P]{key: key, method: jwt.SigningMethodHS512, opts: o}, nil
}

// Issue signs payload with exp = now+ttl. The MAC covers header and payload,
// so changing either invalidates the token.
func (c *Codec[P]) Issue(payload P, ttl time.Duration) (string, error) {
	token, _, err := c.IssueClaims(payload, ttl)
	return token, err
}

// IssueClaims is Issue that also returns the envelope it stamped, exactly as
// Verify will later report it.
func (c *Codec[P]) IssueClaims(payload P, ttl time.Duration) (string, Claims[P], error) {
	if ttl <= 0 {
		return "", Claims[P]{}, ErrInvalidTTL
	}

	fields, err := toFields(payload)
	if err != nil {
		return "", Claims[P]{}, err
	}
	for _, name := range []string{claimExpiresAt, claimIssuedAt, claimID} {
		if _, ok := fields[name]; ok {
			return "", Claims[P]{}, fmt.Errorf("%w: %q", ErrReservedClaim, name)
		}
	}

	now := c.opts.now()
	claims := Claims[P]{
		Payload:   payload,
		ID:        idx.New().String(),
		IssuedAt:  time.Unix(now.Unix(), 0),
		ExpiresAt: time.Unix(now.Add(ttl).Unix(), 0),
	}
	fields[claimExpiresAt] = claims.ExpiresAt.Unix()
	fields[claimIssuedAt] = claims.IssuedAt.Unix()
	fields[claimID] = claims.ID

	token, err := jwt.NewWithClaims(c.method, fields).SignedString(c.key)
	if err != nil {
		return "", Claims[P]{}, err
	}
	return token, claims, nil
}

// Leeway is the clock skew Verify tolerates past exp.
func (c *Codec[P]) Leeway() time.Duration {
	return c.opts.leeway
}

// Verify authenticates token and returns its claims. The signature is checked
// over the raw segments before any claim is decoded; expiry is checked after.
func (c *Codec[P]) Verify(token string) (Claims[P], error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims[P]{}, ErrMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.opts.now),
		jwt.WithLeeway(c.opts.leeway),
		jwt.WithExpirationRequired(),
		jwt.WithJSONNumber(),
	)

	sig, err := parser.DecodeSegment(parts[2])
	if err != nil {
		return Claims[P]{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := c.method.Verify(parts[0]+"."+parts[1], sig, c.key); err != nil {
		return Claims[P]{}, ErrSignatureMismatch
	}

	fields := jwt.MapClaims{}
	_, err = parser.ParseWithClaims(token, fields, func(*jwt.Token) (any, error) {
		return c.key, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims[P]{}, ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims[P]{}, ErrSignatureMismatch
	default:
		return Claims[P]{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return c.claimsFrom(fields)
}

func (c *Codec[P]) claimsFrom(fields jwt.MapClaims) (Claims[P], error) {
	var out Claims[P]

	exp, err := fields.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims[P]{}, ErrMalformed
	}
	out.ExpiresAt = exp.Time

	if iat, err := fields.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if id, ok := fields[claimID].(string); ok {
		out.ID = id
	}

	delete(fields, claimExpiresAt)
	delete(fields, claimIssuedAt)
	delete(fields, claimID)

	raw, err := json.Marshal(map[string]any(fields))
	if err != nil {
		return Claims[P]{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := json.Unmarshal(raw, &out.Payload); err != nil {
		return Claims[P]{}, fmt.Errorf("%w: payload: %w", ErrMalformed, err)
	}

	return out, nil
}

// toFields flattens payload into a claim set, keeping numbers exact.
func toFields(payload any) (jwt.MapClaims, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("tokenx: encode payload: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, errors.New("tokenx: payload must encode to a JSON object")
	}

	return jwt.MapClaims(fields), nil
}

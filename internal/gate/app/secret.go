package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/bananabrain/pkg/cryptox"
	"github.com/aussiebroadwan/bananabrain/pkg/tokenx"
)

// generatedSecretSize is the raw entropy of a dev secret; HS512 gains
// nothing from keys longer than its 128-byte block.
const generatedSecretSize = 64

var ErrMissingTokenSecret = errors.New("GATE_TOKEN_SECRET is required outside dev and test")

// InitTokenSecret returns the answer-token key.
//
// In dev and test a missing secret is replaced by a random one. Every
// outstanding answer token becomes invalid when the process restarts, which
// only costs players the round they were on.
func InitTokenSecret(cfg Config, logger *slog.Logger) ([]byte, error) {
	if cfg.TokenSecret != "" {
		if len(cfg.TokenSecret) < tokenx.MinSecretSize {
			return nil, fmt.Errorf("GATE_TOKEN_SECRET: %w: need %d bytes, got %d",
				tokenx.ErrWeakSecret, tokenx.MinSecretSize, len(cfg.TokenSecret))
		}
		return []byte(cfg.TokenSecret), nil
	}

	if !cfg.insecureDefaultsAllowed() {
		return nil, ErrMissingTokenSecret
	}

	secret, err := cryptox.GenerateToken(generatedSecretSize)
	if err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}
	logger.Warn("GATE_TOKEN_SECRET not set, using a random secret; answer tokens will not survive a restart",
		"env", cfg.Env)
	return []byte(secret), nil
}

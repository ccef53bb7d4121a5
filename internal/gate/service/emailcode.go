package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/aussiebroadwan/bananabrain/internal/gate/mail"
	"github.com/aussiebroadwan/bananabrain/internal/gate/store"
	"github.com/aussiebroadwan/bananabrain/pkg/cryptox"
	"github.com/aussiebroadwan/bananabrain/pkg/idx"
)

// DefaultEmailCodeTTL is how long an emailed code stays usable.
const DefaultEmailCodeTTL = 5 * time.Minute

const invalidCodeMessage = "Invalid or expired code"

// EmailCodeService is the legacy one-time code channel. It proves access to
// the mailbox but never changes the session's assurance level.
type EmailCodeService struct {
	Store   store.Store
	Mailer  mail.Sender
	TTL     time.Duration
	Timeout time.Duration
	Logger  *slog.Logger
	Now     func() time.Time
}

func (s *EmailCodeService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *EmailCodeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *EmailCodeService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultEmailCodeTTL
	}
	return s.TTL
}

// SendCode stores a hashed six-digit code and mails the plain one.
func (s *EmailCodeService) SendCode(ctx context.Context, sess domain.Session) error {
	code, err := cryptox.GenerateNumericCode(cryptox.CodeDigits)
	if err != nil {
		return newError(KindInternal, "Failed to generate code", err)
	}
	hash, err := cryptox.HashCode(code)
	if err != nil {
		return newError(KindInternal, "Failed to generate code", err)
	}

	now := s.now()
	ec := domain.EmailCode{
		ID:        idx.NewAt(now).String(),
		UserID:    sess.UserID,
		CodeHash:  hash,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}
	if err := s.Store.EmailCodes().CreateEmailCode(ctx, ec); err != nil {
		return newError(KindInternal, "Failed to store code", fmt.Errorf("create email code: %w", err))
	}

	msg, err := mail.CodeMessage(sess.Email, code, s.ttl().String())
	if err != nil {
		return newError(KindInternal, "Failed to send code", err)
	}

	sendCtx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	if err := s.Mailer.Send(sendCtx, msg); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return newError(KindUpstreamTimeout, "Email delivery timed out", err)
		}
		return newError(KindUpstreamUnavailable, "Failed to send code", err)
	}

	s.logger().InfoContext(ctx, "email code sent", "user_id", sess.UserID, "code_id", ec.ID)
	return nil
}

// VerifyCode checks code against the user's newest outstanding code. Every
// failure looks the same to the caller.
func (s *EmailCodeService) VerifyCode(ctx context.Context, sess domain.Session, code string) error {
	if code == "" {
		return newError(KindInvalidRequest, "code is required", nil)
	}

	ec, err := s.Store.EmailCodes().LatestActiveEmailCode(ctx, sess.UserID, s.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(KindInvalidCode, invalidCodeMessage, err)
		}
		return newError(KindInternal, "Failed to verify code", fmt.Errorf("load email code: %w", err))
	}

	if err := cryptox.VerifyCode(code, ec.CodeHash); err != nil {
		s.logger().WarnContext(ctx, "email code rejected", "user_id", sess.UserID, "code_id", ec.ID)
		return newError(KindInvalidCode, invalidCodeMessage, err)
	}

	if err := s.Store.EmailCodes().MarkEmailCodeVerified(ctx, ec.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(KindInvalidCode, invalidCodeMessage, err)
		}
		return newError(KindInternal, "Failed to verify code", fmt.Errorf("mark email code: %w", err))
	}
	return nil
}

package http

import (
	"context"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/aussiebroadwan/bananabrain/pkg/httpx"
	"github.com/aussiebroadwan/bananabrain/pkg/slogx"
)

// Accounts is the account side of the identity provider.
type Accounts interface {
	SignUp(ctx context.Context, email, password string) (domain.IssuedSession, error)
	SignIn(ctx context.Context, email, password string) (domain.IssuedSession, error)
	SignOut(ctx context.Context, sess domain.Session) error
	Resolve(ctx context.Context, token string) (domain.Session, error)
	Recover(ctx context.Context, email string) error
}

// sessionResolver adapts Accounts.Resolve to httpx.BearerResolver.
func sessionResolver(accounts Accounts) httpx.BearerResolver {
	return func(ctx context.Context, token string) (context.Context, error) {
		sess, err := accounts.Resolve(ctx, token)
		if err != nil {
			return nil, err
		}
		ctx = context.WithValue(ctx, httpx.CtxKeySession, sess)
		ctx = context.WithValue(ctx, httpx.CtxKeyUserID, sess.UserID)
		return slogx.With(ctx, "user_id", sess.UserID), nil
	}
}

func sessionFrom(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(httpx.CtxKeySession).(domain.Session)
	return sess, ok
}

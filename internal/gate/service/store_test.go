package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/aussiebroadwan/bananabrain/internal/gate/store/drivers/sqlite"
	"github.com/aussiebroadwan/bananabrain/pkg/idx"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedSession(t *testing.T, st *sqlite.Store, email string) domain.Session {
	t.Helper()
	u := domain.User{ID: idx.NewAt(t0).String(), Email: email, PasswordHash: "hash", CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return domain.Session{
		ID:        idx.NewAt(t0).String(),
		UserID:    u.ID,
		Email:     u.Email,
		Kind:      domain.SessionNormal,
		Level:     domain.LevelBase,
		CreatedAt: t0,
		ExpiresAt: t0.Add(time.Hour),
	}
}

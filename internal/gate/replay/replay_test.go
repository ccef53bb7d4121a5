package replay

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T) (*Guard, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	g := New(client, "test")
	g.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return g, mr
}

func TestSpendOnce(t *testing.T) {
	ctx := context.Background()
	g, mr := newTestGuard(t)
	until := g.now().Add(5 * time.Minute)

	ok, err := g.Spend(ctx, "01HZX", until)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = g.Spend(ctx, "01HZX", until)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = g.Spend(ctx, "01HZY", until)
	require.NoError(t, err)
	require.True(t, ok)

	require.True(t, mr.Exists("test:01HZX"))
	ttl := mr.TTL("test:01HZX")
	require.Greater(t, ttl, 4*time.Minute)
	require.LessOrEqual(t, ttl, 5*time.Minute)
}

func TestSpendExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	g, mr := newTestGuard(t)

	ok, err := g.Spend(ctx, "id", g.now().Add(time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)
	require.False(t, mr.Exists("test:id"))
}

func TestSpendPastExpiry(t *testing.T) {
	g, _ := newTestGuard(t)

	ok, err := g.Spend(context.Background(), "late", g.now().Add(-time.Second))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = g.Spend(context.Background(), "", g.now().Add(time.Minute))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSpendBackendDown(t *testing.T) {
	g, mr := newTestGuard(t)
	mr.Close()

	_, err := g.Spend(context.Background(), "id", g.now().Add(time.Minute))
	require.ErrorIs(t, err, ErrBackend)
	require.ErrorIs(t, g.Ping(context.Background()), ErrBackend)
}

func TestNewFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	g, err := NewFromURL(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, g.Ping(context.Background()))
	require.NoError(t, g.Close())

	_, err = NewFromURL(context.Background(), "http://nope")
	require.Error(t, err)
}

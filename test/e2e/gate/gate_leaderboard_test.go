package gate_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/bananabrain/pkg/gatesdk"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardAfterStepUp(t *testing.T) {
	baseURL, _ := setupGateContainer(t)
	client := gatesdk.NewSDKClient(baseURL)

	pending, err := client.SignUp(t.Context(), "late@example.com", testPassword)
	require.NoError(t, err)
	_, err = pending.SubmitScore(t.Context(), "easy", 10)
	require.Equal(t, gatesdk.KindPhaseRequired, gatesdk.KindOf(err))

	sess, _ := enrollTOTP(t, client, "player@example.com")
	res, err := sess.SubmitScore(t.Context(), "medium", 320)
	require.NoError(t, err)
	require.Equal(t, 1, res.Rank)

	_, err = sess.SubmitScore(t.Context(), "medium", 500)
	require.NoError(t, err)

	board, err := sess.Leaderboard(t.Context(), "medium")
	require.NoError(t, err)
	require.Len(t, board.Scores, 2)
	require.Equal(t, int64(500), board.Scores[0].Score)
	require.Equal(t, "player@example.com", board.Scores[0].PlayerName)
}

func TestWatchPhaseUntilSignOut(t *testing.T) {
	baseURL, _ := setupGateContainer(t)
	client := gatesdk.NewSDKClient(baseURL)

	sess, _ := enrollTOTP(t, client, "player@example.com")

	phases := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- sess.WatchPhase(t.Context(), "", func(p gatesdk.PhaseResponse) { phases <- p.Phase })
	}()

	select {
	case p := <-phases:
		require.Equal(t, "authorized", p)
	case <-time.After(10 * time.Second):
		t.Fatal("no initial phase")
	}

	require.NoError(t, sess.SignOut(t.Context()))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("stream did not end after sign-out")
	}
	require.Equal(t, "needs-auth", <-phases)
}

package gatesdk_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/bananabrain/pkg/gatesdk"
	"github.com/stretchr/testify/require"
)

func TestGuessUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: `7`, want: 7},
		{in: `-3`, want: -3},
		{in: `"42"`, want: 42},
		{in: `" 9 "`, want: 9},
		{in: `9223372036854775807`, want: 9223372036854775807},
		{in: `null`, wantErr: true},
		{in: `7.5`, wantErr: true},
		{in: `"seven"`, wantErr: true},
		{in: `""`, wantErr: true},
		{in: `true`, wantErr: true},
		{in: `9223372036854775808`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			var req gatesdk.VerifyGuessRequest
			err := json.Unmarshal([]byte(`{"guess":`+tc.in+`,"answerToken":"t"}`), &req)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, req.Guess)
			require.Equal(t, tc.want, int64(*req.Guess))
		})
	}

	t.Run("missing", func(t *testing.T) {
		var req gatesdk.VerifyGuessRequest
		require.NoError(t, json.Unmarshal([]byte(`{"answerToken":"t"}`), &req))
		require.Nil(t, req.Guess)
	})
}

func TestVerifyGuessErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		_ = json.Unmarshal(body, &req)

		w.Header().Set("Content-Type", "application/json")
		switch req["answerToken"] {
		case "good":
			_, _ = w.Write([]byte(`{"correct":true}`))
		case "bad":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid or expired token","kind":"invalid_token"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		}
	}))
	t.Cleanup(srv.Close)

	c := gatesdk.NewSDKClient(srv.URL + "/")
	ctx := context.Background()

	ok, err := c.VerifyGuess(ctx, 3, "good")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = c.VerifyGuess(ctx, 3, "bad")
	require.Error(t, err)
	require.True(t, gatesdk.IsInvalidToken(err))
	require.False(t, gatesdk.IsUnauthorized(err))
	var apiErr *gatesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid or expired token", apiErr.Message)

	_, err = c.VerifyGuess(ctx, 3, "other")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Empty(t, apiErr.Kind)
	require.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestSessionSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"missing bearer","kind":"unauthorized"}`))
			return
		}
		if r.URL.Query().Get("path") != "/update-password" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"wrong path","kind":"invalid_request"}`))
			return
		}
		_, _ = w.Write([]byte(`{"phase":"needs-password-reset"}`))
	}))
	t.Cleanup(srv.Close)

	c := gatesdk.NewSDKClient(srv.URL)
	ctx := context.Background()

	p, err := c.NewSession("tok-1").Phase(ctx, "/update-password")
	require.NoError(t, err)
	require.Equal(t, "needs-password-reset", p.Phase)

	_, err = c.Phase(ctx, "/update-password")
	require.True(t, gatesdk.IsUnauthorized(err))
	require.Equal(t, gatesdk.KindUnauthorized, gatesdk.KindOf(err))
}

func TestWatchPhase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"missing bearer","kind":"unauthorized"}`))
			return
		}
		if r.URL.Path != "/v1/session/phase/stream" || r.URL.Query().Get("path") != "/play" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, phase := range []string{"needs-verification", "authorized", "needs-auth"} {
			_, _ = w.Write([]byte("event: phase\ndata: {\"phase\":\"" + phase + "\"}\n\n"))
			_, _ = w.Write([]byte(": keep-alive\n\n"))
			flusher.Flush()
		}
	}))
	t.Cleanup(srv.Close)

	c := gatesdk.NewSDKClient(srv.URL)
	ctx := context.Background()

	var seen []string
	err := c.NewSession("tok-1").WatchPhase(ctx, "/play", func(p gatesdk.PhaseResponse) {
		seen = append(seen, p.Phase)
	})
	require.NoError(t, err)
	require.Equal(t, []string{"needs-verification", "authorized", "needs-auth"}, seen)

	err = c.NewSession("tok-2").WatchPhase(ctx, "/play", func(gatesdk.PhaseResponse) {
		t.Fatal("no events expected")
	})
	require.True(t, gatesdk.IsUnauthorized(err))
}

func TestWatchPhaseStopsOnCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("event: phase\ndata: {\"phase\":\"authorized\"}\n\n"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := gatesdk.NewSDKClient(srv.URL).NewSession("tok").WatchPhase(ctx, "", func(p gatesdk.PhaseResponse) {
		require.Equal(t, "authorized", p.Phase)
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLeaderboardCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			var req gatesdk.ScoreRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Difficulty != "hard" {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"Complete MFA verification first","kind":"phase_required"}`))
				return
			}
			_, _ = w.Write([]byte(`{"entry":{"player_name":"a@example.com","score":420,"difficulty":"hard","created_at":"2026-01-02T03:04:05Z"},"rank":1}`))
		case http.MethodGet:
			require.Equal(t, "hard", r.URL.Query().Get("difficulty"))
			_, _ = w.Write([]byte(`{"difficulty":"hard","scores":[{"player_name":"a@example.com","score":420,"difficulty":"hard","created_at":"2026-01-02T03:04:05Z"}]}`))
		}
	}))
	t.Cleanup(srv.Close)

	s := gatesdk.NewSDKClient(srv.URL).NewSession("tok")
	ctx := context.Background()

	res, err := s.SubmitScore(ctx, "hard", 420)
	require.NoError(t, err)
	require.Equal(t, 1, res.Rank)
	require.Equal(t, int64(420), res.Entry.Score)

	_, err = s.SubmitScore(ctx, "easy", 1)
	require.Equal(t, gatesdk.KindPhaseRequired, gatesdk.KindOf(err))

	board, err := s.Leaderboard(ctx, "hard")
	require.NoError(t, err)
	require.Len(t, board.Scores, 1)
	require.Equal(t, "a@example.com", board.Scores[0].PlayerName)
}

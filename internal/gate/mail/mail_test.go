package mail_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aussiebroadwan/bananabrain/internal/gate/mail"
	"github.com/stretchr/testify/require"
)

func TestRecoveryMessage(t *testing.T) {
	msg, err := mail.RecoveryMessage("a@example.com", "https://game.example/update-password#token=abc", "1h0m0s")
	require.NoError(t, err)
	require.Equal(t, "a@example.com", msg.To)
	require.Contains(t, msg.Text, "https://game.example/update-password#token=abc")
	require.Contains(t, msg.Text, "1h0m0s")
}

func TestCodeMessage(t *testing.T) {
	msg, err := mail.CodeMessage("a@example.com", "012345", "5m0s")
	require.NoError(t, err)
	require.Contains(t, msg.Text, "012345")
}

func TestOutbox(t *testing.T) {
	var o mail.Outbox
	ctx := context.Background()

	_, ok := o.Last()
	require.False(t, ok)

	require.ErrorIs(t, o.Send(ctx, mail.Message{}), mail.ErrNoRecipient)
	require.NoError(t, o.Send(ctx, mail.Message{To: "a@example.com", Subject: "one"}))
	require.NoError(t, o.Send(ctx, mail.Message{To: "b@example.com", Subject: "two"}))

	last, ok := o.Last()
	require.True(t, ok)
	require.Equal(t, "two", last.Subject)
	require.Len(t, o.Messages(), 2)

	o.Err = errors.New("relay down")
	require.Error(t, o.Send(ctx, mail.Message{To: "c@example.com"}))
}

func TestLogSenderNeverLogsBody(t *testing.T) {
	var buf bytes.Buffer
	s := mail.LogSender{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	require.NoError(t, s.Send(context.Background(), mail.Message{To: "a@example.com", Subject: "code", Text: "987654"}))
	require.Contains(t, buf.String(), "a@example.com")
	require.NotContains(t, buf.String(), "987654")
}

func TestNewSMTPSender(t *testing.T) {
	s, err := mail.NewSMTPSender(mail.SMTPConfig{Host: "localhost", Port: 2525, From: "noreply@example.com"}, slog.Default())
	require.NoError(t, err)
	require.NotNil(t, s)

	require.ErrorIs(t, s.Send(context.Background(), mail.Message{}), mail.ErrNoRecipient)
}

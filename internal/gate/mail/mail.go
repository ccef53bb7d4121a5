// Package mail delivers account emails: password recovery links and the
// legacy one-time email codes.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"text/template"
)

var ErrNoRecipient = errors.New("mail: message has no recipient")

type Message struct {
	To      string
	Subject string
	Text    string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var (
	recoveryTmpl = template.Must(template.New("recovery").Parse(
		`Someone asked to reset the BananaBrain password for {{.Email}}.

Open this link to choose a new password. It expires in {{.TTL}}.

{{.Link}}

If this wasn't you, ignore this email.
`))

	codeTmpl = template.Must(template.New("code").Parse(
		`Your BananaBrain verification code is {{.Code}}

It expires in {{.TTL}}.
`))
)

// RecoveryMessage renders the password recovery email.
func RecoveryMessage(to, link, ttl string) (Message, error) {
	return render(to, "Reset your BananaBrain password", recoveryTmpl, map[string]string{
		"Email": to, "Link": link, "TTL": ttl,
	})
}

// CodeMessage renders the one-time code email.
func CodeMessage(to, code, ttl string) (Message, error) {
	return render(to, "Your BananaBrain verification code", codeTmpl, map[string]string{
		"Code": code, "TTL": ttl,
	})
}

func render(to, subject string, tmpl *template.Template, data any) (Message, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("mail: render %s: %w", tmpl.Name(), err)
	}
	return Message{To: to, Subject: subject, Text: buf.String()}, nil
}

// LogSender drops messages, logging only the envelope. Used when no SMTP
// host is configured; bodies carry links and codes and are never logged.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	log.WarnContext(ctx, "smtp not configured, email dropped", "to", msg.To, "subject", msg.Subject)
	return nil
}

// Outbox keeps messages in memory. Tests read them back with Messages.
type Outbox struct {
	mu   sync.Mutex
	msgs []Message
	Err  error
}

func (o *Outbox) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	o.msgs = append(o.msgs, msg)
	return nil
}

func (o *Outbox) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.msgs...)
}

// Last returns the most recent message.
func (o *Outbox) Last() (Message, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.msgs) == 0 {
		return Message{}, false
	}
	return o.msgs[len(o.msgs)-1], true
}

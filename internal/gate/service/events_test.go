package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
	"github.com/stretchr/testify/require"
)

func TestSessionEventsRouting(t *testing.T) {
	t.Parallel()

	h := NewSessionEvents()
	mine, cancelMine := h.Subscribe("user-1", "sess-1")
	defer cancelMine()
	sibling, cancelSibling := h.Subscribe("user-1", "sess-2")
	defer cancelSibling()
	stranger, cancelStranger := h.Subscribe("user-2", "sess-9")
	defer cancelStranger()

	s1 := domain.Session{ID: "sess-1", UserID: "user-1"}
	h.Publish("user-1", Event{Kind: EventElevated, Session: &s1})
	h.Publish("user-1", Event{Kind: EventPasswordUpdated, Session: &s1})

	require.Equal(t, EventElevated, (<-mine).Kind)
	require.Equal(t, EventPasswordUpdated, (<-mine).Kind)
	require.Equal(t, EventPasswordUpdated, (<-sibling).Kind)
	require.Empty(t, sibling)
	require.Empty(t, stranger)
}

func TestSessionEventsDropsSlowSubscriber(t *testing.T) {
	t.Parallel()

	h := NewSessionEvents()
	events, cancel := h.Subscribe("user-1", "sess-1")
	s1 := domain.Session{ID: "sess-1", UserID: "user-1"}

	for range eventBuffer + 1 {
		h.Publish("user-1", Event{Kind: EventElevated, Session: &s1})
	}
	require.Zero(t, h.Subscribers("user-1"))

	var got int
	for range events {
		got++
	}
	require.Equal(t, eventBuffer, got)

	cancel()
	cancel()
}

func TestSessionEventsNilHub(t *testing.T) {
	t.Parallel()

	var h *SessionEvents
	events, cancel := h.Subscribe("user-1", "sess-1")
	require.Nil(t, events)
	cancel()
	h.Publish("user-1", Event{Kind: EventSignedOut})
	require.Zero(t, h.Subscribers("user-1"))
}

func TestServicesPublishSessionChanges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := NewSessionEvents()
	events, cancel := h.Subscribe(testSession.UserID, testSession.ID)
	defer cancel()

	p := &fakeProvider{}
	mfa := newMFAService(p)
	mfa.Events = h

	enr, err := mfa.StartEnrollment(ctx, testSession)
	require.NoError(t, err)
	require.Empty(t, events)
	require.NoError(t, mfa.CompleteEnrollment(ctx, testSession, enr.FactorID, "123456"))
	ev := <-events
	require.Equal(t, EventElevated, ev.Kind)
	require.Equal(t, testSession.ID, ev.Session.ID)

	pw := &PasswordService{Provider: p, Events: h}
	_, err = pw.UpdatePassword(ctx, testSession, "short", "other")
	require.Error(t, err)
	require.Empty(t, events)
	_, err = pw.UpdatePassword(ctx, testSession, "new-banana", "new-banana")
	require.NoError(t, err)
	require.Equal(t, EventPasswordUpdated, (<-events).Kind)
}

func TestMachineFollowsPublishedEvents(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{level: domain.LevelBase, factors: []domain.Factor{{ID: "f", Type: domain.FactorTOTP, Status: domain.FactorVerified}}}
	h := NewSessionEvents()
	events, cancel := h.Subscribe(testSession.UserID, testSession.ID)

	m := NewAssuranceMachine(p, time.Second)
	phase, err := m.Handle(context.Background(), Event{Kind: EventInitial, Session: &testSession})
	require.NoError(t, err)
	require.Equal(t, domain.PhaseNeedsVerification, phase)

	reported := make(chan domain.Phase, 4)
	done := make(chan error, 1)
	go func() {
		done <- m.Run(context.Background(), events, func(p domain.Phase) { reported <- p })
	}()

	p.mu.Lock()
	p.level = domain.LevelElevated
	p.mu.Unlock()
	h.Publish(testSession.UserID, Event{Kind: EventElevated, Session: &testSession})
	require.Equal(t, domain.PhaseAuthorized, <-reported)

	h.Publish(testSession.UserID, Event{Kind: EventSignedOut, Session: &testSession})
	require.Equal(t, domain.PhaseNeedsAuth, <-reported)

	cancel()
	require.NoError(t, <-done)
}

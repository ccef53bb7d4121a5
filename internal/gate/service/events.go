package service

import "sync"

// eventBuffer is how far a subscriber may fall behind before it is dropped.
const eventBuffer = 16

// concerns reports whether ev affects the session sessionID. A password
// update signs out every session of the user; everything else is scoped to
// the session it happened to.
func (ev Event) concerns(sessionID string) bool {
	if ev.Kind == EventPasswordUpdated {
		return true
	}
	return ev.Session != nil && ev.Session.ID == sessionID
}

type subscriber struct {
	sessionID string
	ch        chan Event
}

// SessionEvents fans session changes out to whoever watches them, in
// publish order. A subscriber that stops reading is dropped and its channel
// closed; it must re-subscribe and evaluate from scratch. The zero value is
// not usable; a nil *SessionEvents ignores Publish.
type SessionEvents struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{} // by user id
}

func NewSessionEvents() *SessionEvents {
	return &SessionEvents{subs: make(map[string]map[*subscriber]struct{})}
}

// Subscribe returns the events concerning one session. cancel releases the
// subscription and is safe to call more than once. A nil hub yields a
// channel that never delivers.
func (h *SessionEvents) Subscribe(userID, sessionID string) (events <-chan Event, cancel func()) {
	if h == nil {
		return nil, func() {}
	}
	sub := &subscriber{sessionID: sessionID, ch: make(chan Event, eventBuffer)}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*subscriber]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	return sub.ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.drop(userID, sub)
	}
}

// Publish delivers ev to every subscriber of userID it concerns. It never
// blocks.
func (h *SessionEvents) Publish(userID string, ev Event) {
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[userID] {
		if !ev.concerns(sub.sessionID) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			h.drop(userID, sub)
		}
	}
}

// drop must be called with h.mu held.
func (h *SessionEvents) drop(userID string, sub *subscriber) {
	subs := h.subs[userID]
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.ch)
	if len(subs) == 0 {
		delete(h.subs, userID)
	}
}

// Subscribers reports how many watchers userID has.
func (h *SessionEvents) Subscribers(userID string) int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

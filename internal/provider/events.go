// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package provider

// AuthEvent identifies a change in authentication state.
type AuthEvent string

// Auth state change events delivered to subscribers.
const (
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthChangeFunc receives auth state change notifications. The session is
// nil for EventSignedOut.
type AuthChangeFunc func(event AuthEvent, session *Session)

// Subscription is a handle to a registered auth state change callback.
// Unsubscribe must be called when the subscriber is torn down so callbacks
// do not leak across holder lifetimes.
type Subscription struct {
	id     uint64
	client *Client
}

// Unsubscribe removes the callback. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.client == nil {
		return
	}
	s.client.mu.Lock()
	delete(s.client.subscribers, s.id)
	s.client.mu.Unlock()
	s.client = nil
}

// OnAuthStateChange registers fn for auth state change notifications.
// The returned subscription must be released with Unsubscribe.
func (c *Client) OnAuthStateChange(fn AuthChangeFunc) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.subscribers[id] = fn

	return &Subscription{id: id, client: c}
}

// notify delivers an event to every subscriber. Callbacks run outside the
// client lock so they may call back into the client.
func (c *Client) notify(event AuthEvent, session *Session) {
	c.mu.Lock()
	fns := make([]AuthChangeFunc, 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(event, session.clone())
	}
}

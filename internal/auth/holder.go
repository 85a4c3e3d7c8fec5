// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/saasland/saasland/internal/provider"
	"github.com/saasland/saasland/pkg/errutil"
)

// bootstrapTimeout bounds the asynchronous profile bootstrap triggered by a
// sign-in event.
const bootstrapTimeout = 15 * time.Second

// ProfileBootstrapper ensures a profile record exists for a signed-in user.
type ProfileBootstrapper interface {
	// EnsureProfile creates the user's profile if it does not exist yet.
	EnsureProfile(ctx context.Context, user *provider.User) error
}

// SessionHolder maintains the single in-memory view of the current session
// and user for the lifetime of the process.
//
// State is written from two independent sources: the provider's change
// subscription and one initial session read issued at construction. No
// ordering is enforced between them; whichever lands last wins. The
// overwrite is idempotent, so either arrival order produces an equivalent
// view.
type SessionHolder struct {
	client    IdentityClient
	bootstrap ProfileBootstrapper
	logger    *slog.Logger

	mu      sync.RWMutex
	session *provider.Session
	user    *provider.User
	loading bool

	sub       *provider.Subscription
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewSessionHolder creates a SessionHolder, registers the change
// subscription, and issues the initial session read. The subscription is
// registered first so no event can fall between the read and registration.
// Close must be called to release the subscription.
func NewSessionHolder(client IdentityClient, bootstrap ProfileBootstrapper, logger *slog.Logger) (*SessionHolder, error) {
	if client == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("identity client is required")
	}
	if bootstrap == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("profile bootstrapper is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	h := &SessionHolder{
		client:    client,
		bootstrap: bootstrap,
		logger:    logger,
		loading:   true,
	}

	h.sub = client.OnAuthStateChange(h.handleAuthChange)

	// Covers a session that existed before the subscription's first
	// callback. Same state either way; last write wins.
	h.apply(client.GetSession())

	return h, nil
}

// Close releases the change subscription and waits for in-flight profile
// bootstraps. Safe to call more than once.
func (h *SessionHolder) Close() {
	h.closeOnce.Do(func() {
		h.sub.Unsubscribe()
		h.wg.Wait()
	})
}

// Session returns the cached session, or nil when unauthenticated.
func (h *SessionHolder) Session() *provider.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session
}

// User returns the current user, or nil when unauthenticated.
func (h *SessionHolder) User() *provider.User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.user
}

// Loading reports whether neither the subscription nor the initial read has
// delivered yet.
func (h *SessionHolder) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}

// IsAuthenticated reports whether a user is currently signed in.
func (h *SessionHolder) IsAuthenticated() bool {
	return h.User() != nil
}

// SignOut delegates to the provider. State clears when the subscription
// delivers the SignedOut event; there is no optimistic local clear.
func (h *SessionHolder) SignOut(ctx context.Context) error {
	if err := h.client.SignOut(ctx); err != nil {
		return oops.Code("AUTH_SIGNOUT_FAILED").Wrap(err)
	}
	return nil
}

// handleAuthChange mirrors provider state and, on sign-in, schedules the
// profile bootstrap without blocking the event callback.
func (h *SessionHolder) handleAuthChange(event provider.AuthEvent, session *provider.Session) {
	h.apply(session)

	if event == provider.EventSignedIn && session != nil && session.User != nil {
		user := session.User
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
			defer cancel()
			if err := h.bootstrap.EnsureProfile(ctx, user); err != nil {
				errutil.LogError(h.logger, "profile bootstrap failed", err)
			}
		}()
	}
}

// apply overwrites the visible state. Idempotent: applying the same session
// twice leaves state equivalent to a single application.
func (h *SessionHolder) apply(session *provider.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = session
	if session != nil {
		h.user = session.User
	} else {
		h.user = nil
	}
	h.loading = false
}

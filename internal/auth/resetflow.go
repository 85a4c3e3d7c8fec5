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

// Password-reset flow configuration.
const (
	// MinPasswordLength is enforced locally before any provider call.
	MinPasswordLength = 6

	// ResetRedirectDelay is how long terminal states are shown before the
	// automatic redirect to the sign-in page.
	ResetRedirectDelay = 3 * time.Second

	// RecoveryType is the query parameter value marking a recovery link.
	RecoveryType = "recovery"
)

// Reset flow messages.
const (
	msgInvalidResetLink = "Invalid password reset link"
	msgPasswordMismatch = "Passwords don't match"
	msgPasswordTooShort = "Password must be at least 6 characters"

	fallbackVerify = "Failed to verify session"
	fallbackUpdate = "Failed to update password"
)

// ResetState identifies the password-reset flow state.
type ResetState string

// Reset flow states. Verifying transitions to Verified or Failed; from
// Verified, a submission leads to Success or stays Verified with an inline
// error. Success and Failed both schedule an automatic redirect.
const (
	StateVerifying ResetState = "verifying"
	StateVerified  ResetState = "verified"
	StateSuccess   ResetState = "success"
	StateFailed    ResetState = "failed"
)

// RecoveryParams are the query parameters of an inbound reset link.
type RecoveryParams struct {
	AccessToken  string
	RefreshToken string
	Type         string
}

// RedirectFunc is invoked when a scheduled redirect fires. The target is a
// route path, e.g. "/auth".
type RedirectFunc func(target string)

// ResetFlow is the short-lived state machine behind the reset-password
// route. One instance serves one visit; Close cancels any pending redirect
// so nothing fires after teardown.
type ResetFlow struct {
	client        IdentityClient
	redirect      RedirectFunc
	logger        *slog.Logger
	redirectDelay time.Duration

	mu          sync.Mutex
	state       ResetState
	failure     string // terminal failure message, set once with StateFailed
	inlineError string // form-level error; flow stays Verified
	timer       *time.Timer
	closed      bool
}

// NewResetFlow creates a reset flow in the Verifying state. redirect is
// called (asynchronously) when a terminal state's delay elapses.
func NewResetFlow(client IdentityClient, redirect RedirectFunc, logger *slog.Logger) (*ResetFlow, error) {
	if client == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("identity client is required")
	}
	if redirect == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("redirect func is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResetFlow{
		client:        client,
		redirect:      redirect,
		logger:        logger,
		redirectDelay: ResetRedirectDelay,
		state:         StateVerifying,
	}, nil
}

// Close cancels any pending redirect timer. Safe to call more than once.
// After Close no redirect fires, even if one was already scheduled.
func (f *ResetFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// State returns the current flow state.
func (f *ResetFlow) State() ResetState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// FailureMessage returns the terminal failure message, or "" if the flow
// has not failed.
func (f *ResetFlow) FailureMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failure
}

// InlineError returns the current form-level error, or "".
func (f *ResetFlow) InlineError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inlineError
}

// Verify attempts to reach the Verified state: first from an existing
// session, then by exchanging recovery-link tokens. With neither, the flow
// fails with a fixed invalid-link message. Failure schedules the automatic
// redirect to the sign-in page.
func (f *ResetFlow) Verify(ctx context.Context, params RecoveryParams) ResetState {
	// A session that already exists (e.g. the provider SDK consumed the
	// link fragment) verifies directly.
	if session := f.client.GetSession(); session != nil && session.User != nil {
		return f.toVerified()
	}

	if params.Type == RecoveryType && params.AccessToken != "" {
		if _, err := f.client.SetSession(ctx, params.AccessToken, params.RefreshToken); err != nil {
			return f.toFailed(f.userMessage("recovery token exchange failed", err, fallbackVerify))
		}
		return f.toVerified()
	}

	return f.toFailed(msgInvalidResetLink)
}

// Submit validates and applies a new password from the Verified state.
// Validation failures set an inline error without contacting the provider;
// a provider rejection keeps the flow in Verified with the provider's
// message; success schedules the automatic redirect to sign-in.
func (f *ResetFlow) Submit(ctx context.Context, password, confirm string) ResetState {
	f.mu.Lock()
	if f.state != StateVerified {
		state := f.state
		f.mu.Unlock()
		return state
	}
	f.inlineError = ""
	f.mu.Unlock()

	// Local validation first; the provider is never contacted for these.
	if password != confirm {
		return f.withInlineError(msgPasswordMismatch)
	}
	if len(password) < MinPasswordLength {
		return f.withInlineError(msgPasswordTooShort)
	}

	if err := f.client.UpdateUser(ctx, provider.UserUpdate{Password: password}); err != nil {
		return f.withInlineError(f.userMessage("password update failed", err, fallbackUpdate))
	}

	f.mu.Lock()
	f.state = StateSuccess
	f.scheduleRedirectLocked()
	f.mu.Unlock()
	return StateSuccess
}

func (f *ResetFlow) toVerified() ResetState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateVerified
	return f.state
}

func (f *ResetFlow) toFailed(message string) ResetState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateFailed
	f.failure = message
	f.scheduleRedirectLocked()
	return f.state
}

func (f *ResetFlow) withInlineError(message string) ResetState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inlineError = message
	return f.state
}

// scheduleRedirectLocked arms the one-shot redirect timer. Caller holds
// f.mu. The closed check inside the callback covers a Close racing the
// timer fire.
func (f *ResetFlow) scheduleRedirectLocked() {
	if f.closed || f.timer != nil {
		return
	}
	f.timer = time.AfterFunc(f.redirectDelay, func() {
		f.mu.Lock()
		closed := f.closed
		f.mu.Unlock()
		if closed {
			return
		}
		f.redirect("/auth")
	})
}

// userMessage maps an error to what the form shows: provider messages
// verbatim, generic fallback otherwise.
func (f *ResetFlow) userMessage(logMsg string, err error, fallback string) string {
	if msg := providerMessage(err); msg != "" {
		return msg
	}
	errutil.LogError(f.logger, logMsg, err)
	return fallback
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/saasland/saasland/internal/provider"
	"github.com/saasland/saasland/pkg/errutil"
)

// HomeRedirectDelay is how long the presentation layer shows the sign-in
// success message before navigating home.
const HomeRedirectDelay = time.Second

// User-facing operation messages.
const (
	msgSignInSuccess = "Signed in successfully! Redirecting..."
	msgSignUpSuccess = "Account created! Check your email (including spam) for confirmation."
	msgResetLinkSent = "Password reset link sent! Check your email (including spam folder)."

	fallbackSignIn     = "Failed to sign in"
	fallbackSignUp     = "Failed to create account"
	fallbackResetEmail = "Failed to send password reset email"
)

// OutcomeKind distinguishes the mutually exclusive result banners.
type OutcomeKind string

// Outcome kinds.
const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeError   OutcomeKind = "error"
)

// Outcome is the user-facing result of an auth operation. Success and error
// are mutually exclusive; RedirectTo/RedirectAfter tell the presentation
// layer where to navigate once the message has been shown.
type Outcome struct {
	Kind          OutcomeKind   `json:"kind"`
	Message       string        `json:"message"`
	RedirectTo    string        `json:"redirect_to,omitempty"`
	RedirectAfter time.Duration `json:"redirect_after,omitempty"`
}

// Operations translates form submissions into provider calls. Each
// operation awaits exactly one provider round-trip; nothing is retried.
type Operations struct {
	client          IdentityClient
	emailRedirectTo string
	resetRedirectTo string
	logger          *slog.Logger
}

// NewOperations creates the sign-in/sign-up/forgot-password operations.
// emailRedirectTo is embedded in sign-up confirmation links;
// resetRedirectTo in recovery links.
func NewOperations(client IdentityClient, emailRedirectTo, resetRedirectTo string, logger *slog.Logger) (*Operations, error) {
	if client == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("identity client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Operations{
		client:          client,
		emailRedirectTo: emailRedirectTo,
		resetRedirectTo: resetRedirectTo,
		logger:          logger,
	}, nil
}

// SignIn authenticates with email and password. Provider rejections surface
// their message verbatim; success schedules navigation home after a short
// delay so the banner is visible.
func (o *Operations) SignIn(ctx context.Context, email, password string) Outcome {
	if _, err := o.client.SignInWithPassword(ctx, email, password); err != nil {
		return o.failure("sign in failed", err, fallbackSignIn)
	}
	return Outcome{
		Kind:          OutcomeSuccess,
		Message:       msgSignInSuccess,
		RedirectTo:    "/",
		RedirectAfter: HomeRedirectDelay,
	}
}

// SignUp registers an account with the display name as metadata. The
// account is not immediately active: the user must follow the confirmation
// email link first, so there is no redirect.
func (o *Operations) SignUp(ctx context.Context, email, password, fullName string) Outcome {
	err := o.client.SignUp(ctx, email, password, provider.SignUpOptions{
		Metadata:        map[string]any{provider.MetadataFullNameKey: fullName},
		EmailRedirectTo: o.emailRedirectTo,
	})
	if err != nil {
		return o.failure("sign up failed", err, fallbackSignUp)
	}
	return Outcome{Kind: OutcomeSuccess, Message: msgSignUpSuccess}
}

// ForgotPassword asks the provider to email a recovery link.
func (o *Operations) ForgotPassword(ctx context.Context, email string) Outcome {
	err := o.client.ResetPasswordForEmail(ctx, email, provider.ResetOptions{
		RedirectTo: o.resetRedirectTo,
	})
	if err != nil {
		return o.failure("password reset request failed", err, fallbackResetEmail)
	}
	return Outcome{Kind: OutcomeSuccess, Message: msgResetLinkSent}
}

// failure maps an error to an error outcome: provider rejections pass their
// message through verbatim, transport failures get the generic fallback.
func (o *Operations) failure(logMsg string, err error, fallback string) Outcome {
	if pErr, ok := provider.AsError(err); ok {
		return Outcome{Kind: OutcomeError, Message: pErr.Message}
	}
	errutil.LogError(o.logger, logMsg, err)
	return Outcome{Kind: OutcomeError, Message: fallback}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package auth

import (
	"context"

	"github.com/saasland/saasland/internal/provider"
)

// IdentityClient is the subset of the identity provider client this package
// depends on. The provider is opaque: every call is a thin round-trip and
// the provider's error messages pass through verbatim.
type IdentityClient interface {
	// SignInWithPassword authenticates with email and password.
	SignInWithPassword(ctx context.Context, email, password string) (*provider.Session, error)

	// SignUp registers a new account; the account activates only after the
	// user confirms via the email link.
	SignUp(ctx context.Context, email, password string, opts provider.SignUpOptions) error

	// ResetPasswordForEmail asks the provider to send a recovery link.
	ResetPasswordForEmail(ctx context.Context, email string, opts provider.ResetOptions) error

	// SetSession adopts recovery-link tokens as the active session.
	SetSession(ctx context.Context, accessToken, refreshToken string) (*provider.Session, error)

	// GetSession returns the cached session, or nil when unauthenticated.
	GetSession() *provider.Session

	// UpdateUser mutates the authenticated user, e.g. sets a new password.
	UpdateUser(ctx context.Context, update provider.UserUpdate) error

	// SignOut revokes the session and notifies subscribers.
	SignOut(ctx context.Context) error

	// OnAuthStateChange registers a change-notification callback.
	OnAuthStateChange(fn provider.AuthChangeFunc) *provider.Subscription
}

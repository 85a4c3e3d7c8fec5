// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package auth

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/saasland/saasland/internal/provider"
)

// mockIdentityClient is a mock for IdentityClient. OnAuthStateChange
// captures the callback so tests can deliver events directly.
type mockIdentityClient struct {
	mock.Mock

	onChange provider.AuthChangeFunc
}

func (m *mockIdentityClient) SignInWithPassword(ctx context.Context, email, password string) (*provider.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Session), args.Error(1)
}

func (m *mockIdentityClient) SignUp(ctx context.Context, email, password string, opts provider.SignUpOptions) error {
	args := m.Called(ctx, email, password, opts)
	return args.Error(0)
}

func (m *mockIdentityClient) ResetPasswordForEmail(ctx context.Context, email string, opts provider.ResetOptions) error {
	args := m.Called(ctx, email, opts)
	return args.Error(0)
}

func (m *mockIdentityClient) SetSession(ctx context.Context, accessToken, refreshToken string) (*provider.Session, error) {
	args := m.Called(ctx, accessToken, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Session), args.Error(1)
}

func (m *mockIdentityClient) GetSession() *provider.Session {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*provider.Session)
}

func (m *mockIdentityClient) UpdateUser(ctx context.Context, update provider.UserUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *mockIdentityClient) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockIdentityClient) OnAuthStateChange(fn provider.AuthChangeFunc) *provider.Subscription {
	m.onChange = fn
	m.Called(mock.Anything)
	// Zero-value subscription: Unsubscribe is nil-client safe.
	return &provider.Subscription{}
}

// emit delivers an event through the captured subscription callback.
func (m *mockIdentityClient) emit(event provider.AuthEvent, session *provider.Session) {
	if m.onChange != nil {
		m.onChange(event, session)
	}
}

// mockBootstrapper is a mock for ProfileBootstrapper.
type mockBootstrapper struct {
	mock.Mock

	done chan struct{}
}

func (m *mockBootstrapper) EnsureProfile(ctx context.Context, user *provider.User) error {
	args := m.Called(ctx, user)
	if m.done != nil {
		m.done <- struct{}{}
	}
	return args.Error(0)
}

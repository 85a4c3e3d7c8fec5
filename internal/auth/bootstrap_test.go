// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saasland/saasland/internal/profile"
	"github.com/saasland/saasland/internal/provider"
	"github.com/saasland/saasland/pkg/errutil"
)

// mockProfileRepository is a mock for profile.Repository.
type mockProfileRepository struct {
	mock.Mock
}

func (m *mockProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *mockProfileRepository) UpdatePlan(ctx context.Context, userID string, planID ulid.ULID) error {
	args := m.Called(ctx, userID, planID)
	return args.Error(0)
}

func TestBootstrapper_EnsureProfile(t *testing.T) {
	ctx := context.Background()

	user := &provider.User{
		ID:    "user-1",
		Email: "user-1@example.com",
		Metadata: map[string]any{
			provider.MetadataFullNameKey: "Test User",
		},
	}

	t.Run("does nothing when the profile exists", func(t *testing.T) {
		repo := new(mockProfileRepository)
		b, err := NewBootstrapper(repo, nil)
		require.NoError(t, err)

		existing, err := profile.New(user.ID, "Test User")
		require.NoError(t, err)
		repo.On("GetByUserID", ctx, user.ID).Return(existing, nil)

		require.NoError(t, b.EnsureProfile(ctx, user))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates a profile with the metadata name", func(t *testing.T) {
		repo := new(mockProfileRepository)
		b, err := NewBootstrapper(repo, nil)
		require.NoError(t, err)

		notFound := fmt.Errorf("lookup: %w", profile.ErrNotFound)
		repo.On("GetByUserID", ctx, user.ID).Return(nil, notFound)
		repo.On("Create", ctx, mock.MatchedBy(func(p *profile.Profile) bool {
			return p.UserID == user.ID && p.FullName == "Test User"
		})).Return(nil)

		require.NoError(t, b.EnsureProfile(ctx, user))
		repo.AssertExpectations(t)
	})

	t.Run("falls back to an empty name without metadata", func(t *testing.T) {
		repo := new(mockProfileRepository)
		b, err := NewBootstrapper(repo, nil)
		require.NoError(t, err)

		bare := &provider.User{ID: "user-2", Email: "user-2@example.com"}
		repo.On("GetByUserID", ctx, bare.ID).Return(nil, profile.ErrNotFound)
		repo.On("Create", ctx, mock.MatchedBy(func(p *profile.Profile) bool {
			return p.UserID == bare.ID && p.FullName == ""
		})).Return(nil)

		require.NoError(t, b.EnsureProfile(ctx, bare))
		repo.AssertExpectations(t)
	})

	t.Run("swallows a lost insert race", func(t *testing.T) {
		repo := new(mockProfileRepository)
		b, err := NewBootstrapper(repo, nil)
		require.NoError(t, err)

		repo.On("GetByUserID", ctx, user.ID).Return(nil, profile.ErrNotFound)
		repo.On("Create", ctx, mock.Anything).
			Return(fmt.Errorf("insert: %w", profile.ErrDuplicate))

		require.NoError(t, b.EnsureProfile(ctx, user))
	})

	t.Run("propagates lookup failures", func(t *testing.T) {
		repo := new(mockProfileRepository)
		b, err := NewBootstrapper(repo, nil)
		require.NoError(t, err)

		repo.On("GetByUserID", ctx, user.ID).Return(nil, assert.AnError)

		err = b.EnsureProfile(ctx, user)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_BOOTSTRAP_FAILED")
	})

	t.Run("propagates insert failures", func(t *testing.T) {
		repo := new(mockProfileRepository)
		b, err := NewBootstrapper(repo, nil)
		require.NoError(t, err)

		repo.On("GetByUserID", ctx, user.ID).Return(nil, profile.ErrNotFound)
		repo.On("Create", ctx, mock.Anything).Return(assert.AnError)

		err = b.EnsureProfile(ctx, user)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_BOOTSTRAP_FAILED")
	})

	t.Run("rejects a nil user", func(t *testing.T) {
		repo := new(mockProfileRepository)
		b, err := NewBootstrapper(repo, nil)
		require.NoError(t, err)

		err = b.EnsureProfile(ctx, nil)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_BOOTSTRAP_INVALID_USER")
	})
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package newsletter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saasland/saasland/internal/mailer"
	"github.com/saasland/saasland/pkg/errutil"
)

// mockRepository is a mock for Repository.
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, signup *Signup) error {
	args := m.Called(ctx, signup)
	return args.Error(0)
}

// recordingSender captures sent messages. The welcome email goes out on a
// background goroutine, so sends are signalled over a channel.
type recordingSender struct {
	sent chan mailer.Message
	err  error
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(chan mailer.Message, 1)}
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	s.sent <- msg
	return s.err
}

func (s *recordingSender) await(t *testing.T) mailer.Message {
	t.Helper()
	select {
	case msg := <-s.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("welcome email was not sent")
		return mailer.Message{}
	}
}

func TestService_Subscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("records the signup and sends a welcome email", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(s *Signup) bool {
			return s.Email == "ada@example.com"
		})).Return(nil)
		sender := newRecordingSender()

		svc := NewService(repo, sender, "hello@saasland.example", nil)
		msg, err := svc.Subscribe(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, MsgSubscribed, msg)

		welcome := sender.await(t)
		assert.Equal(t, "hello@saasland.example", welcome.From)
		assert.Equal(t, []string{"ada@example.com"}, welcome.To)

		repo.AssertExpectations(t)
	})

	t.Run("normalizes the address before storing", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(s *Signup) bool {
			return s.Email == "ada@example.com"
		})).Return(nil)
		sender := newRecordingSender()

		svc := NewService(repo, sender, "hello@saasland.example", nil)
		_, err := svc.Subscribe(ctx, "  Ada@Example.COM ")
		require.NoError(t, err)

		sender.await(t)
		repo.AssertExpectations(t)
	})

	t.Run("a duplicate address is not an error", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", ctx, mock.Anything).Return(ErrAlreadySubscribed)
		sender := newRecordingSender()

		svc := NewService(repo, sender, "hello@saasland.example", nil)
		msg, err := svc.Subscribe(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, MsgAlreadySubscribed, msg)

		select {
		case <-sender.sent:
			t.Fatal("no welcome email expected for a duplicate")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("rejects malformed addresses without touching the repository", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, newRecordingSender(), "hello@saasland.example", nil)

		_, err := svc.Subscribe(ctx, "not-an-email")
		errutil.AssertErrorCode(t, err, "NEWSLETTER_INVALID_EMAIL")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("storage failures surface to the caller", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", ctx, mock.Anything).Return(errors.New("connection refused"))

		svc := NewService(repo, newRecordingSender(), "hello@saasland.example", nil)
		_, err := svc.Subscribe(ctx, "ada@example.com")
		errutil.AssertErrorCode(t, err, "NEWSLETTER_SUBSCRIBE_FAILED")
	})

	t.Run("welcome delivery failure is swallowed", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		sender := newRecordingSender()
		sender.err = errors.New("provider down")

		svc := NewService(repo, sender, "hello@saasland.example", nil)
		msg, err := svc.Subscribe(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, MsgSubscribed, msg)
		sender.await(t)
	})
}

func TestNewSignup(t *testing.T) {
	t.Run("requires an email", func(t *testing.T) {
		_, err := NewSignup("   ")
		errutil.AssertErrorCode(t, err, "NEWSLETTER_INVALID_EMAIL")
	})

	t.Run("lowercases and trims", func(t *testing.T) {
		signup, err := NewSignup(" User@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", signup.Email)
		assert.NotZero(t, signup.ID)
	})
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package newsletter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/saasland/saasland/internal/mailer"
	"github.com/saasland/saasland/pkg/errutil"
)

// User-facing subscription messages.
const (
	MsgSubscribed        = "Thank you for subscribing to our newsletter. Check your email for confirmation."
	MsgAlreadySubscribed = "Already subscribed!"
)

const welcomeTimeout = 15 * time.Second

// Service handles newsletter subscriptions.
type Service struct {
	signups Repository
	sender  mailer.Sender
	from    string
	logger  *slog.Logger
}

// NewService creates a newsletter service. The from address is used on
// outbound welcome mail.
func NewService(signups Repository, sender mailer.Sender, from string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{signups: signups, sender: sender, from: from, logger: logger}
}

// Subscribe adds the email to the mailing list and returns the message
// to show the subscriber. An address that is already on the list is not
// an error at this level: the caller gets MsgAlreadySubscribed and a
// nil error. The welcome email is sent in the background; delivery
// failures are logged and never surfaced.
func (s *Service) Subscribe(ctx context.Context, email string) (string, error) {
	signup, err := NewSignup(email)
	if err != nil {
		return "", err
	}

	if err := s.signups.Create(ctx, signup); err != nil {
		if errors.Is(err, ErrAlreadySubscribed) {
			s.logger.Debug("duplicate newsletter signup", "email", signup.Email)
			return MsgAlreadySubscribed, nil
		}
		return "", oops.Code("NEWSLETTER_SUBSCRIBE_FAILED").
			With("email", signup.Email).
			Wrap(err)
	}

	go s.sendWelcome(signup.Email)

	s.logger.Info("newsletter signup", "email", signup.Email)
	return MsgSubscribed, nil
}

func (s *Service) sendWelcome(email string) {
	ctx, cancel := context.WithTimeout(context.Background(), welcomeTimeout)
	defer cancel()

	msg := mailer.NewsletterWelcome(s.from, email)
	if err := s.sender.Send(ctx, msg); err != nil {
		errutil.LogWarn(s.logger, "newsletter welcome email failed", err)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package mailer sends transactional email through a Resend-compatible
// HTTP API. Callers that must not block on delivery send in a goroutine
// and log failures; nothing in this package retries.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/oops"
)

// DefaultBaseURL is the hosted Resend API endpoint.
const DefaultBaseURL = "https://api.resend.com"

const sendTimeout = 10 * time.Second

// Message is a single outbound email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds mail client settings.
type Config struct {
	// BaseURL is the API endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// APIKey authenticates requests. Required.
	APIKey string

	// From is the default sender address. Required.
	From string

	// HTTPClient is the underlying client. Defaults to one with a
	// send timeout.
	HTTPClient *http.Client

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client sends mail through the API.
type Client struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a mail client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, oops.Code("MAILER_CONFIG_INVALID").Errorf("API key is required")
	}
	if cfg.From == "" {
		return nil, oops.Code("MAILER_CONFIG_INVALID").Errorf("from address is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: sendTimeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		http:    cfg.HTTPClient,
		logger:  cfg.Logger,
	}, nil
}

// From returns the configured default sender address.
func (c *Client) From() string {
	return c.from
}

// Send delivers one message via POST /emails.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = c.from
	}
	if len(msg.To) == 0 {
		return oops.Code("MAILER_INVALID_MESSAGE").Errorf("at least one recipient is required")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return oops.Code("MAILER_ENCODE_FAILED").Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return oops.Code("MAILER_REQUEST_FAILED").Wrap(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return oops.Code("MAILER_SEND_FAILED").
			With("subject", msg.Subject).
			Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return oops.Code("MAILER_SEND_FAILED").
			With("status", resp.StatusCode).
			With("subject", msg.Subject).
			Errorf("email API returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	c.logger.Debug("email sent", "subject", msg.Subject, "recipients", len(msg.To))
	return nil
}

// NopSender discards messages. Used when no mail API key is configured.
type NopSender struct {
	Logger *slog.Logger
}

// Send logs and drops the message.
func (n NopSender) Send(_ context.Context, msg Message) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("mail delivery disabled, dropping message",
		"subject", msg.Subject,
		"recipients", fmt.Sprint(len(msg.To)))
	return nil
}

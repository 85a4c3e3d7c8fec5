// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package provider implements the client for the external identity service.
//
// The identity provider is the service of record for authentication state:
// it issues, validates, and revokes sessions. This client performs thin
// request/response calls against a GoTrue-compatible HTTP API, caches the
// current session, and notifies subscribers of auth state changes. Events
// are emitted locally after the client's own operations succeed; the
// provider is never polled for changes.
//
// No call is retried. A rejected call surfaces the provider's error message
// verbatim as a *Error; transport failures are wrapped with oops codes.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/samber/oops"
)

// refreshMargin is how long before access token expiry the client attempts
// a background refresh.
const refreshMargin = 30 * time.Second

// defaultTimeout bounds each provider round-trip.
const defaultTimeout = 10 * time.Second

// Config holds identity provider connection settings.
type Config struct {
	// BaseURL is the root of the provider's auth API, e.g.
	// "https://xyzcompany.supabase.co/auth/v1".
	BaseURL string

	// APIKey is sent as the provider's publishable key header.
	APIKey string

	// HTTPClient overrides the default HTTP client. Optional.
	HTTPClient *http.Client

	// Logger for background refresh outcomes. Optional; defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Client is the identity provider client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	mu           sync.Mutex
	session      *Session
	subscribers  map[uint64]AuthChangeFunc
	nextSubID    uint64
	refreshTimer *time.Timer
	closed       bool
}

// NewClient creates an identity provider client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, oops.Code("PROVIDER_CONFIG_INVALID").Errorf("base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, oops.Code("PROVIDER_CONFIG_INVALID").Errorf("API key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		httpClient:  httpClient,
		logger:      logger,
		subscribers: make(map[uint64]AuthChangeFunc),
	}, nil
}

// Close stops the background refresh timer and drops all subscribers.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
		c.refreshTimer = nil
	}
	c.subscribers = make(map[uint64]AuthChangeFunc)
}

// tokenResponse is the provider's session grant payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user"`
}

func (r *tokenResponse) session() *Session {
	return &Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(r.ExpiresIn) * time.Second),
		User:         r.User,
	}
}

// SignInWithPassword authenticates with email and password. On success the
// session is cached and EventSignedIn is delivered to subscribers.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", map[string]any{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	session := resp.session()
	c.storeSession(session)
	c.notify(EventSignedIn, session)
	return session.clone(), nil
}

// SignUpOptions carries optional sign-up parameters.
type SignUpOptions struct {
	// Metadata is free-form user metadata, e.g. {"full_name": "Ada"}.
	Metadata map[string]any

	// EmailRedirectTo is the URL embedded in the confirmation email link.
	EmailRedirectTo string
}

// SignUp registers a new account. The account is not active until the user
// confirms via the email link, so no session is cached and no event fires.
func (c *Client) SignUp(ctx context.Context, email, password string, opts SignUpOptions) error {
	path := "/signup"
	if opts.EmailRedirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(opts.EmailRedirectTo)
	}
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	if len(opts.Metadata) > 0 {
		body["data"] = opts.Metadata
	}
	return c.do(ctx, http.MethodPost, path, "", body, nil)
}

// ResetOptions carries optional password reset request parameters.
type ResetOptions struct {
	// RedirectTo is the URL embedded in the recovery email link.
	RedirectTo string
}

// ResetPasswordForEmail asks the provider to send a recovery link.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email string, opts ResetOptions) error {
	path := "/recover"
	if opts.RedirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(opts.RedirectTo)
	}
	return c.do(ctx, http.MethodPost, path, "", map[string]any{"email": email}, nil)
}

// SetSession adopts tokens from a recovery link. The access token is
// validated against the provider's user endpoint; on success the session is
// cached and EventSignedIn is delivered. The refresh token may be empty.
func (c *Client) SetSession(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	if accessToken == "" {
		return nil, oops.Code("PROVIDER_TOKEN_EMPTY").Errorf("access token cannot be empty")
	}

	var user User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return nil, err
	}

	// The provider does not report expiry for adopted tokens; assume a
	// conservative window and let refresh extend it.
	session := &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         &user,
	}
	c.storeSession(session)
	c.notify(EventSignedIn, session)
	return session.clone(), nil
}

// GetSession returns a copy of the cached session, or nil when
// unauthenticated. This is a local read; the provider is not contacted.
func (c *Client) GetSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.clone()
}

// UserUpdate carries mutable user attributes.
type UserUpdate struct {
	Password string `json:"password,omitempty"`
}

// UpdateUser mutates the authenticated user, e.g. sets a new password.
// Requires a cached session.
func (c *Client) UpdateUser(ctx context.Context, update UserUpdate) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return oops.Code("PROVIDER_NO_SESSION").Errorf("no active session")
	}
	return c.do(ctx, http.MethodPut, "/user", session.AccessToken, update, nil)
}

// SignOut revokes the session at the provider, clears the cache, and
// delivers EventSignedOut. Revocation is best effort: local state clears
// even when the provider call fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	var revokeErr error
	if session != nil {
		revokeErr = c.do(ctx, http.MethodPost, "/logout", session.AccessToken, nil, nil)
	}

	c.mu.Lock()
	c.session = nil
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
		c.refreshTimer = nil
	}
	c.mu.Unlock()

	c.notify(EventSignedOut, nil)
	return revokeErr
}

// storeSession caches the session and schedules a background refresh.
func (c *Client) storeSession(session *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.session = session

	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
	}
	delay := time.Until(session.ExpiresAt) - refreshMargin
	if delay < 0 {
		delay = 0
	}
	c.refreshTimer = time.AfterFunc(delay, c.refreshSession)
}

// refreshSession exchanges the refresh token for a new session and delivers
// EventTokenRefreshed. On failure the stale session is kept; the next
// provider call will surface the expiry.
func (c *Client) refreshSession() {
	c.mu.Lock()
	session := c.session
	closed := c.closed
	c.mu.Unlock()
	if closed || session == nil || session.RefreshToken == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", map[string]any{
		"refresh_token": session.RefreshToken,
	}, &resp)
	if err != nil {
		c.logger.Warn("session refresh failed", "error", err)
		return
	}

	refreshed := resp.session()
	c.storeSession(refreshed)
	c.notify(EventTokenRefreshed, refreshed)
}

// do performs one provider round-trip. bearer overrides the API key bearer
// when set. A non-2xx response decodes into *Error with the provider's
// message verbatim.
func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return oops.Code("PROVIDER_ENCODE_FAILED").With("path", path).Wrap(err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return oops.Code("PROVIDER_REQUEST_FAILED").With("path", path).Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return oops.Code("PROVIDER_UNREACHABLE").With("path", path).Wrap(err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close failure is not actionable

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return oops.Code("PROVIDER_DECODE_FAILED").With("path", path).Wrap(err)
		}
	}
	return nil
}

// errorResponse covers the provider's error payload variants.
type errorResponse struct {
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

// decodeError turns a non-2xx response into *Error, preserving the
// provider's own message for the user.
func decodeError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("provider returned status %d", resp.StatusCode)}
	}

	var payload errorResponse
	message := ""
	if jsonErr := json.Unmarshal(data, &payload); jsonErr == nil {
		switch {
		case payload.ErrorDescription != "":
			message = payload.ErrorDescription
		case payload.Msg != "":
			message = payload.Msg
		case payload.Message != "":
			message = payload.Message
		}
	}
	if message == "" {
		message = fmt.Sprintf("provider returned status %d", resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: message}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package provider

import (
	"time"
)

// MetadataFullNameKey is the user metadata key carrying the display name.
const MetadataFullNameKey = "full_name"

// User is the identity provider's view of an account. The provider owns
// every field; this process only ever holds a read-only copy.
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// FullName returns the display name from user metadata, or "" when absent.
func (u *User) FullName() string {
	if u == nil || u.Metadata == nil {
		return ""
	}
	if name, ok := u.Metadata[MetadataFullNameKey].(string); ok {
		return name
	}
	return ""
}

// Session is the provider-issued credential bundle proving an authenticated
// user for a bounded time. The provider validates it; we only cache it.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// IsExpired returns true if the session's access token has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsExpiredAt returns true if the session would be expired at the given time.
// Useful for testing with deterministic time values.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return t.After(s.ExpiresAt)
}

// clone returns a shallow copy so callers cannot mutate the cached session.
func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.User != nil {
		u := *s.User
		cp.User = &u
	}
	return &cp
}

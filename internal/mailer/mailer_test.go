// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasland/saasland/pkg/errutil"
)

func TestNewClient_Validation(t *testing.T) {
	t.Run("requires an API key", func(t *testing.T) {
		_, err := NewClient(Config{From: "hello@saasland.example"})
		errutil.AssertErrorCode(t, err, "MAILER_CONFIG_INVALID")
	})

	t.Run("requires a from address", func(t *testing.T) {
		_, err := NewClient(Config{APIKey: "re_123"})
		errutil.AssertErrorCode(t, err, "MAILER_CONFIG_INVALID")
	})
}

func TestClient_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the message with bearer auth", func(t *testing.T) {
		var gotAuth string
		var gotPath string
		var gotMsg Message
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			json.NewDecoder(r.Body).Decode(&gotMsg) //nolint:errcheck // test double
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"id":"msg-1"}`)) //nolint:errcheck
		}))
		defer server.Close()

		client, err := NewClient(Config{
			BaseURL: server.URL,
			APIKey:  "re_123",
			From:    "hello@saasland.example",
		})
		require.NoError(t, err)

		err = client.Send(ctx, Message{
			To:      []string{"ada@example.com"},
			Subject: "Hi",
			HTML:    "<p>Hi</p>",
		})
		require.NoError(t, err)

		assert.Equal(t, "Bearer re_123", gotAuth)
		assert.Equal(t, "/emails", gotPath)
		// The client fills in the default sender.
		assert.Equal(t, "hello@saasland.example", gotMsg.From)
		assert.Equal(t, []string{"ada@example.com"}, gotMsg.To)
	})

	t.Run("requires a recipient", func(t *testing.T) {
		client, err := NewClient(Config{APIKey: "re_123", From: "hello@saasland.example"})
		require.NoError(t, err)

		err = client.Send(ctx, Message{Subject: "Hi"})
		errutil.AssertErrorCode(t, err, "MAILER_INVALID_MESSAGE")
	})

	t.Run("surfaces API rejections with the response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"API key is invalid"}`)) //nolint:errcheck
		}))
		defer server.Close()

		client, err := NewClient(Config{
			BaseURL: server.URL,
			APIKey:  "re_bad",
			From:    "hello@saasland.example",
		})
		require.NoError(t, err)

		err = client.Send(ctx, Message{To: []string{"ada@example.com"}, Subject: "Hi"})
		errutil.AssertErrorCode(t, err, "MAILER_SEND_FAILED")
		assert.Contains(t, err.Error(), "403")
		assert.Contains(t, err.Error(), "API key is invalid")
	})

	t.Run("transport failures map to send failed", func(t *testing.T) {
		client, err := NewClient(Config{
			BaseURL: "http://127.0.0.1:1",
			APIKey:  "re_123",
			From:    "hello@saasland.example",
		})
		require.NoError(t, err)

		err = client.Send(ctx, Message{To: []string{"ada@example.com"}, Subject: "Hi"})
		errutil.AssertErrorCode(t, err, "MAILER_SEND_FAILED")
	})
}

func TestNopSender(t *testing.T) {
	err := NopSender{}.Send(context.Background(), Message{
		To:      []string{"ada@example.com"},
		Subject: "Hi",
	})
	assert.NoError(t, err)
}

func TestTemplates(t *testing.T) {
	t.Run("password reset escapes the link", func(t *testing.T) {
		msg := PasswordReset("hello@saasland.example", "ada@example.com",
			`https://app.example.com/reset?x="><script>`)
		assert.Equal(t, []string{"ada@example.com"}, msg.To)
		assert.NotContains(t, msg.HTML, "<script>")
	})

	t.Run("contact notification escapes user fields", func(t *testing.T) {
		msg := ContactNotification("hello@saasland.example", "team@saasland.example",
			"<b>Ada</b>", "ada@example.com", "Hello & goodbye")
		assert.Equal(t, "Contact form: <b>Ada</b>", msg.Subject)
		assert.NotContains(t, msg.HTML, "<b>Ada</b>")
		assert.True(t, strings.Contains(msg.HTML, "Hello &amp; goodbye"))
	})
}

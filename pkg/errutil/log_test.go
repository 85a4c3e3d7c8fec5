// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasland/saasland/pkg/errutil"
)

// capture returns the single JSON log entry fn writes.
func capture(t *testing.T, fn func(*slog.Logger)) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	fn(slog.New(slog.NewJSONHandler(&buf, nil)))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogError_WithOopsError(t *testing.T) {
	err := oops.Code("TEST_ERROR").With("key", "value").Errorf("something failed")

	entry := capture(t, func(l *slog.Logger) {
		errutil.LogError(l, "operation failed", err)
	})

	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "operation failed", entry["msg"])
	assert.Equal(t, "TEST_ERROR", entry["code"])
}

func TestLogError_WithStandardError(t *testing.T) {
	entry := capture(t, func(l *slog.Logger) {
		errutil.LogError(l, "operation failed", errors.New("standard error"))
	})

	assert.Equal(t, "ERROR", entry["level"])
	assert.Contains(t, entry["error"], "standard error")
	assert.NotContains(t, entry, "code")
}

func TestLogWarn_WithOopsError(t *testing.T) {
	err := oops.Code("MAILER_SEND_FAILED").Errorf("delivery failed")

	entry := capture(t, func(l *slog.Logger) {
		errutil.LogWarn(l, "welcome email failed", err)
	})

	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "welcome email failed", entry["msg"])
	assert.Equal(t, "MAILER_SEND_FAILED", entry["code"])
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package auth

import "github.com/saasland/saasland/internal/provider"

// providerMessage extracts the provider's verbatim rejection message, or ""
// for transport and other non-provider failures.
func providerMessage(err error) string {
	if pErr, ok := provider.AsError(err); ok {
		return pErr.Message
	}
	return ""
}

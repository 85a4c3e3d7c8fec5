// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package provider

import "errors"

// Error is a rejection from the identity provider. Message carries the
// provider's own wording and is shown to the user verbatim.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// AsError extracts a provider rejection from err. Returns (nil, false) for
// transport and other non-provider failures.
func AsError(err error) (*Error, bool) {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr, true
	}
	return nil, false
}

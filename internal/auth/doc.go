// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package auth coordinates the authentication lifecycle for SaaSLand.
//
// The identity provider is the service of record; this package never
// validates credentials itself. It owns four concerns:
//
//   - SessionHolder - the single in-memory view of the current session and
//     user, fed by the provider's change subscription and one initial read
//   - Bootstrapper - ensures a profile row exists after first sign-in
//   - Operations - sign-in, sign-up, and forgot-password calls mapped to
//     user-facing outcomes
//   - ResetFlow - the password-reset state machine that exchanges a
//     recovery token for a session and accepts a new password
//
// Services are created with New* constructors that validate dependencies.
package auth

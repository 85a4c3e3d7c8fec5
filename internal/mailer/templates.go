// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package mailer

import (
	"fmt"
	"html"
)

// NewsletterWelcome builds the welcome email sent after a newsletter
// signup.
func NewsletterWelcome(from, to string) Message {
	return Message{
		From:    from,
		To:      []string{to},
		Subject: "Welcome to the SaaSLand newsletter",
		HTML: `<h2>Thanks for subscribing!</h2>` +
			`<p>You're on the list. Expect product updates, launch news and the occasional deep dive - no spam, ever.</p>` +
			`<p>If this wasn't you, just ignore this email and you won't hear from us again.</p>` +
			`<p>The SaaSLand team</p>`,
	}
}

// PasswordReset builds the password reset email carrying the recovery
// link issued by the identity provider.
func PasswordReset(from, to, resetURL string) Message {
	return Message{
		From:    from,
		To:      []string{to},
		Subject: "Reset your SaaSLand password",
		HTML: fmt.Sprintf(
			`<h2>Password reset requested</h2>`+
				`<p>Someone asked to reset the password for this address. If that was you, follow the link below. The link expires after one hour.</p>`+
				`<p><a href="%s">Reset your password</a></p>`+
				`<p>If you didn't request this, you can safely ignore this email.</p>`,
			html.EscapeString(resetURL),
		),
	}
}

// ContactNotification builds the internal notification for a contact
// form submission. User-supplied fields are escaped before embedding.
func ContactNotification(from, to, name, email, body string) Message {
	return Message{
		From:    from,
		To:      []string{to},
		Subject: fmt.Sprintf("Contact form: %s", name),
		HTML: fmt.Sprintf(
			`<h2>New contact form submission</h2>`+
				`<p><strong>Name:</strong> %s</p>`+
				`<p><strong>Email:</strong> %s</p>`+
				`<p>%s</p>`,
			html.EscapeString(name),
			html.EscapeString(email),
			html.EscapeString(body),
		),
	}
}

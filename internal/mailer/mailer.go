// Package mailer delivers one-time codes to users. The auth core only
// sees the Mailer interface; SMTP details stay here.
package mailer

import "context"

// Mailer sends a login code to an email address. Implementations report
// delivery failure through the returned error and must never panic.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

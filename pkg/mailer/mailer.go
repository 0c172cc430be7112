package mailer

import "context"

// Mailer delivers a plain-text message to a single address. Implementations
// must be safe to call repeatedly with the same content; the reminder scanner
// may retry a send that failed on a previous tick.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

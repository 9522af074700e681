package push

import "context"

// Sender delivers a single push notification and returns the
// provider-assigned message id.
type Sender interface {
	Send(ctx context.Context, token, title, body string) (string, error)
}

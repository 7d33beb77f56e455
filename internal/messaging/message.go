// Package messaging defines the broker-neutral message handed to downstream
// handlers of relayed outbox records.
package messaging

import "context"

// Message is one delivery of a relayed outbox record.
type Message struct {
	ID          string // outbox record id; stable across redeliveries
	Kind        string // routing key, the event kind
	Body        []byte // JSON outbox envelope
	Redelivered bool
}

// Handler processes a message. A nil return acknowledges it.
type Handler interface {
	Handle(ctx context.Context, msg Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg Message) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

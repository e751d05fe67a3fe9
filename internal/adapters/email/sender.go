package email

import (
	"context"
	"time"
)

// SendRequest is one outgoing message, already rendered.
type SendRequest struct {
	To      []string
	From    string // e.g. "Hotel Recepce <recepce@hotel.cz>"; empty uses the sender default
	Subject string
	HTML    string
	Text    string // plain-text alternative
	ReplyTo string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string // provider id, stored as the outbox external id
	SentAt    time.Time
}

// Sender delivers emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

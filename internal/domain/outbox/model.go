package outbox

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Status constants for outbox entry lifecycle.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// Action type constants.
const (
	ActionTypeInquiryReply = "inquiry_reply"
)

// DefaultMaxAttempts is used when an entry does not set its own limit.
const DefaultMaxAttempts = 5

// Domain errors.
var (
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
	ErrEmptyCreatedAt  = errors.New("created_at must be set")
	ErrEmptyRecipient  = errors.New("email recipient is required")
	ErrEmptySubject    = errors.New("email subject is required")
)

// Entry is one queued external action together with its delivery state.
type Entry struct {
	ID              string
	ActionType      string
	Payload         string // JSON, replayed on every attempt
	Status          string
	Attempts        int
	MaxAttempts     int
	LastAttemptedAt time.Time
	CreatedAt       time.Time
	ExternalID      string // provider message id once delivered
	ErrorMessage    string
}

// EmailPayload is the payload of an ActionTypeInquiryReply entry.
type EmailPayload struct {
	InquiryID string `json:"inquiry_id"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	HTML      string `json:"html"`
	Text      string `json:"text"`
}

// Validate checks an email payload before it is queued.
func (p EmailPayload) Validate() error {
	if strings.TrimSpace(p.To) == "" {
		return ErrEmptyRecipient
	}
	if strings.TrimSpace(p.Subject) == "" {
		return ErrEmptySubject
	}
	return nil
}

// NewEmailEntry builds a pending inquiry reply entry.
// PRE: payload is valid
// POST: entry is pending with zero attempts
func NewEmailEntry(id string, payload EmailPayload, now time.Time) (Entry, error) {
	if err := payload.Validate(); err != nil {
		return Entry{}, err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		ID:          id,
		ActionType:  ActionTypeInquiryReply,
		Payload:     string(raw),
		Status:      StatusPending,
		MaxAttempts: DefaultMaxAttempts,
		CreatedAt:   now,
	}, nil
}

// DecodeEmail reads the entry payload as an EmailPayload.
func (e *Entry) DecodeEmail() (EmailPayload, error) {
	var p EmailPayload
	err := json.Unmarshal([]byte(e.Payload), &p)
	return p, err
}

// Validate checks that the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid; MaxAttempts defaults to DefaultMaxAttempts
func (e *Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return ErrEmptyCreatedAt
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = DefaultMaxAttempts
	}
	return nil
}

// CanRetry returns true for pending/retrying/failed entries with attempts left.
func (e *Entry) CanRetry() bool {
	return (e.Status == StatusPending || e.Status == StatusRetrying || e.Status == StatusFailed) &&
		e.Attempts < e.MaxAttempts
}

// IsTerminal returns true for done, abandoned, or failed with no attempts left.
func (e *Entry) IsTerminal() bool {
	switch e.Status {
	case StatusDone, StatusAbandoned:
		return true
	case StatusFailed:
		return e.Attempts >= e.MaxAttempts
	}
	return false
}

// Due reports whether the backoff since the last attempt has elapsed at now.
// An entry that was never attempted is always due.
func (e *Entry) Due(now time.Time, baseDelay, maxDelay time.Duration) bool {
	if e.LastAttemptedAt.IsZero() {
		return true
	}
	return !now.Before(e.LastAttemptedAt.Add(e.NextRetryDelay(baseDelay, maxDelay)))
}

// MarkAttempt records a delivery attempt.
// POST: Attempts incremented, LastAttemptedAt is now, status is retrying
func (e *Entry) MarkAttempt(now time.Time) {
	e.Attempts++
	e.LastAttemptedAt = now
	e.Status = StatusRetrying
}

// MarkSuccess marks the entry as delivered.
func (e *Entry) MarkSuccess(externalID string) {
	e.Status = StatusDone
	e.ExternalID = externalID
	e.ErrorMessage = ""
}

// MarkFailed records err. The entry stays retrying until MaxAttempts is reached.
func (e *Entry) MarkFailed(err error) {
	e.ErrorMessage = err.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusFailed
	}
}

// MarkAbandoned marks the entry as abandoned by an admin.
func (e *Entry) MarkAbandoned() {
	e.Status = StatusAbandoned
}

// NextRetryDelay is 2^attempts * baseDelay, capped at maxDelay.
func (e *Entry) NextRetryDelay(baseDelay time.Duration, maxDelay time.Duration) time.Duration {
	if e.Attempts >= 30 {
		return maxDelay
	}
	delay := baseDelay * (1 << e.Attempts)
	if delay > maxDelay || delay <= 0 {
		return maxDelay
	}
	return delay
}

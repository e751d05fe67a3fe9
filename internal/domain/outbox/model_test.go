package outbox

import (
	"errors"
	"testing"
	"time"
)

// TestNewEmailEntry tests the payload round trip and initial state.
func TestNewEmailEntry(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	p := EmailPayload{InquiryID: "i1", To: "host@example.cz", Subject: "Re: dotaz", HTML: "<p>Ano</p>", Text: "Ano"}

	e, err := NewEmailEntry("o1", p, now)
	if err != nil {
		t.Fatalf("NewEmailEntry: %v", err)
	}
	if e.Status != StatusPending || e.Attempts != 0 || e.MaxAttempts != DefaultMaxAttempts {
		t.Fatalf("unexpected initial state %+v", e)
	}
	if err := e.Validate(); err != nil {
		t.Fatalf("entry invalid: %v", err)
	}
	got, err := e.DecodeEmail()
	if err != nil || got != p {
		t.Fatalf("DecodeEmail = %+v, %v", got, err)
	}

	if _, err := NewEmailEntry("o2", EmailPayload{Subject: "x"}, now); err != ErrEmptyRecipient {
		t.Fatalf("expected ErrEmptyRecipient, got %v", err)
	}
	if _, err := NewEmailEntry("o3", EmailPayload{To: "a@b.cz"}, now); err != ErrEmptySubject {
		t.Fatalf("expected ErrEmptySubject, got %v", err)
	}
}

// TestEntry_Validate tests required fields and the default attempt limit.
func TestEntry_Validate(t *testing.T) {
	e := Entry{ActionType: ActionTypeInquiryReply, Payload: "{}", CreatedAt: time.Now()}
	if err := e.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("expected default max attempts, got %d", e.MaxAttempts)
	}

	tests := []struct {
		name    string
		entry   Entry
		wantErr error
	}{
		{"no action", Entry{Payload: "{}", CreatedAt: time.Now()}, ErrEmptyActionType},
		{"no payload", Entry{ActionType: "x", CreatedAt: time.Now()}, ErrEmptyPayload},
		{"no created_at", Entry{ActionType: "x", Payload: "{}"}, ErrEmptyCreatedAt},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.entry.Validate(); err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// TestEntry_Lifecycle tests attempts until the entry fails terminally.
func TestEntry_Lifecycle(t *testing.T) {
	now := time.Now()
	e := Entry{Status: StatusPending, MaxAttempts: 2}
	if !e.CanRetry() || e.IsTerminal() {
		t.Fatal("new entry should be retryable")
	}

	e.MarkAttempt(now)
	e.MarkFailed(errors.New("timeout"))
	if e.Status != StatusRetrying || e.ErrorMessage != "timeout" {
		t.Fatalf("unexpected state after first failure: %+v", e)
	}

	e.MarkAttempt(now)
	e.MarkFailed(errors.New("timeout again"))
	if e.Status != StatusFailed || !e.IsTerminal() || e.CanRetry() {
		t.Fatalf("expected terminal failure, got %+v", e)
	}
}

// TestEntry_MarkSuccess tests delivery clears the error.
func TestEntry_MarkSuccess(t *testing.T) {
	e := Entry{Status: StatusRetrying, ErrorMessage: "boom"}
	e.MarkSuccess("msg-1")
	if e.Status != StatusDone || e.ExternalID != "msg-1" || e.ErrorMessage != "" || !e.IsTerminal() {
		t.Fatalf("unexpected state %+v", e)
	}
}

// TestEntry_Backoff tests exponential delay and the due check.
func TestEntry_Backoff(t *testing.T) {
	base, maxDelay := time.Minute, time.Hour
	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{0, time.Minute},
		{1, 2 * time.Minute},
		{3, 8 * time.Minute},
		{6, time.Hour},
		{40, time.Hour},
	}
	for _, tc := range tests {
		e := Entry{Attempts: tc.attempts}
		if got := e.NextRetryDelay(base, maxDelay); got != tc.want {
			t.Errorf("attempts=%d: got %v, want %v", tc.attempts, got, tc.want)
		}
	}

	last := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	e := Entry{Attempts: 1, LastAttemptedAt: last}
	if e.Due(last.Add(time.Minute), base, maxDelay) {
		t.Error("entry should not be due before backoff elapses")
	}
	if !e.Due(last.Add(2*time.Minute), base, maxDelay) {
		t.Error("entry should be due once backoff elapses")
	}
	if !(&Entry{}).Due(last, base, maxDelay) {
		t.Error("never-attempted entry should be due")
	}
}

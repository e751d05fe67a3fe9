package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	domainOutbox "hoteladmin/internal/domain/outbox"
)

// TestQueryOutbox verifies status filtering, limits and envelope decoding.
func TestQueryOutbox(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	sent, err := domainOutbox.NewEmailEntry("e1", domainOutbox.EmailPayload{
		InquiryID: "q1",
		To:        "guest@example.cz",
		Subject:   "Re: Rezervace",
		HTML:      "<p>Dobrý den</p>",
		Text:      "Dobrý den",
	}, now)
	if err != nil {
		t.Fatalf("NewEmailEntry: %v", err)
	}
	sent.Status = domainOutbox.StatusDone
	broken := domainOutbox.Entry{ID: "e2", ActionType: domainOutbox.ActionTypeInquiryReply, Payload: "{", Status: domainOutbox.StatusFailed}

	store := &mockOutboxStore{entries: []domainOutbox.Entry{sent, broken}}
	deps := OutboxDeps{OutboxStore: store}

	items, err := QueryOutbox(context.Background(), OutboxQuery{}, deps)
	if err != nil {
		t.Fatalf("QueryOutbox: %v", err)
	}
	if len(items) != 2 || store.lastLimit != DefaultOutboxLimit {
		t.Fatalf("items=%d limit=%d", len(items), store.lastLimit)
	}
	if items[0].To != "guest@example.cz" || items[0].Subject != "Re: Rezervace" || items[0].InquiryID != "q1" {
		t.Errorf("unexpected envelope %+v", items[0])
	}
	if items[1].To != "" || items[1].Status != domainOutbox.StatusFailed {
		t.Errorf("broken payload should list without envelope, got %+v", items[1])
	}

	items, err = QueryOutbox(context.Background(), OutboxQuery{Status: domainOutbox.StatusFailed, Limit: 1000}, deps)
	if err != nil {
		t.Fatalf("QueryOutbox: %v", err)
	}
	if len(items) != 1 || items[0].ID != "e2" || store.lastLimit != MaxOutboxLimit {
		t.Errorf("failed filter: items=%+v limit=%d", items, store.lastLimit)
	}

	if _, err := QueryOutbox(context.Background(), OutboxQuery{Status: "lost"}, deps); !errors.Is(err, ErrInvalidOutboxStatus) {
		t.Errorf("expected ErrInvalidOutboxStatus, got %v", err)
	}
}

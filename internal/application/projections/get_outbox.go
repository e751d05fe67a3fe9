package projections

import (
	"context"
	"errors"

	domainOutbox "hoteladmin/internal/domain/outbox"
)

// Outbox list limits
const (
	DefaultOutboxLimit = 50
	MaxOutboxLimit     = 200
)

// ErrInvalidOutboxStatus is returned for an unknown status filter.
var ErrInvalidOutboxStatus = errors.New("unknown outbox status")

var outboxStatuses = []string{
	domainOutbox.StatusPending,
	domainOutbox.StatusRetrying,
	domainOutbox.StatusDone,
	domainOutbox.StatusFailed,
	domainOutbox.StatusAbandoned,
}

// OutboxQuery carries query parameters.
type OutboxQuery struct {
	Status string // empty means every status
	Limit  int
}

// OutboxItem is an outbox entry with its email envelope decoded for display.
type OutboxItem struct {
	domainOutbox.Entry
	To        string
	Subject   string
	InquiryID string
}

// OutboxDeps holds dependencies for QueryOutbox.
type OutboxDeps struct {
	OutboxStore OutboxStore
}

// QueryOutbox lists outbox entries for the admin view, newest first.
// PRE: Status is empty or a known status
// POST: At most MaxOutboxLimit entries are returned
func QueryOutbox(ctx context.Context, query OutboxQuery, deps OutboxDeps) ([]OutboxItem, error) {
	if query.Status != "" && !isOutboxStatus(query.Status) {
		return nil, ErrInvalidOutboxStatus
	}
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultOutboxLimit
	}
	if limit > MaxOutboxLimit {
		limit = MaxOutboxLimit
	}

	entries, err := deps.OutboxStore.List(ctx, query.Status, limit)
	if err != nil {
		return nil, err
	}

	items := make([]OutboxItem, 0, len(entries))
	for _, e := range entries {
		item := OutboxItem{Entry: e}
		if e.ActionType == domainOutbox.ActionTypeInquiryReply {
			// A corrupt payload still lists; the worker reports the decode error.
			if p, err := e.DecodeEmail(); err == nil {
				item.To = p.To
				item.Subject = p.Subject
				item.InquiryID = p.InquiryID
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func isOutboxStatus(s string) bool {
	for _, v := range outboxStatuses {
		if v == s {
			return true
		}
	}
	return false
}

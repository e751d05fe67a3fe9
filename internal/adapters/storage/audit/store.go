package audit

import (
	"context"
	"time"

	domain "hoteladmin/internal/domain/audit"
)

// Store defines the interface for audit event persistence. Events are never updated.
type Store interface {
	// Save appends an audit event.
	// PRE: event has been validated
	Save(ctx context.Context, event domain.Event) error

	// List returns matching events, newest first.
	// PRE: limit > 0
	List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error)

	// GetByID retrieves a single event.
	// POST: Returns an error wrapping sql.ErrNoRows if not found
	GetByID(ctx context.Context, id string) (domain.Event, error)
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Category   domain.Category
	Action     domain.Action
	ActorID    string
	ResourceID string
	Severity   domain.Severity
	From       time.Time
	To         time.Time
}

var _ Store = (*SQLiteStore)(nil)

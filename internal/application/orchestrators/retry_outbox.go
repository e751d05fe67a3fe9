package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "hoteladmin/internal/adapters/email"
	outboxStore "hoteladmin/internal/adapters/storage/outbox"
	domain "hoteladmin/internal/domain/outbox"
)

var (
	ErrOutboxEntryNotFound = errors.New("outbox entry not found")
	ErrOutboxEntryClosed   = errors.New("outbox entry is done or abandoned")
)

// OutboxProcessor delivers queued external actions and retries failures with backoff.
type OutboxProcessor struct {
	store     outboxStore.Store
	executors map[string]ActionExecutor
	now       func() time.Time
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
}

// ActionExecutor executes a specific type of external action.
type ActionExecutor interface {
	// Execute runs the action for payload and returns the provider's id for it.
	Execute(ctx context.Context, payload string) (string, error)
}

// NewOutboxProcessor creates a new outbox processor.
func NewOutboxProcessor(store outboxStore.Store, executors map[string]ActionExecutor, now func() time.Time) *OutboxProcessor {
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		now:       now,
		baseDelay: 30 * time.Second,
		maxDelay:  1 * time.Hour,
		batchSize: 10,
	}
}

// ProcessPending attempts every due pending or retrying entry.
// PRE: Context is valid
// POST: Attempted entries are saved with their new status; the number attempted is returned
func (p *OutboxProcessor) ProcessPending(ctx context.Context) (int, error) {
	entries, err := p.store.ListPending(ctx, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending outbox entries: %w", err)
	}

	attempted := 0
	for _, entry := range entries {
		if !entry.Due(p.now(), p.baseDelay, p.maxDelay) {
			continue
		}
		attempted++
		if err := p.attempt(ctx, &entry); err != nil {
			slog.Error("outbox_process_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err.Error())
		}
	}
	return attempted, nil
}

// attempt runs the executor once and saves the outcome.
func (p *OutboxProcessor) attempt(ctx context.Context, entry *domain.Entry) error {
	entry.MarkAttempt(p.now())

	executor, ok := p.executors[entry.ActionType]
	if !ok {
		entry.MarkFailed(fmt.Errorf("no executor registered for action type: %s", entry.ActionType))
		return p.store.Save(ctx, *entry)
	}

	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		slog.Warn("outbox_action_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "status", entry.Status, "error", err.Error())
	} else {
		entry.MarkSuccess(externalID)
		slog.Info("outbox_action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}
	return p.store.Save(ctx, *entry)
}

// ProcessSingle runs one entry immediately, ignoring backoff (admin retry).
// An entry that used up its attempts is granted one more.
// POST: Entry attempted and saved, or ErrOutboxEntryClosed for done/abandoned entries
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, entryID string) (domain.Entry, error) {
	entry, err := p.get(ctx, entryID)
	if err != nil {
		return domain.Entry{}, err
	}
	if entry.Status == domain.StatusDone || entry.Status == domain.StatusAbandoned {
		return domain.Entry{}, ErrOutboxEntryClosed
	}
	if entry.Attempts >= entry.MaxAttempts {
		entry.MaxAttempts = entry.Attempts + 1
	}
	if err := p.attempt(ctx, &entry); err != nil {
		return domain.Entry{}, err
	}
	slog.Info("outbox_admin_retry", "entry_id", entry.ID, "status", entry.Status)
	return entry, nil
}

// AbandonEntry stops all further delivery attempts for an entry.
// POST: Entry status set to abandoned
func (p *OutboxProcessor) AbandonEntry(ctx context.Context, entryID string) (domain.Entry, error) {
	entry, err := p.get(ctx, entryID)
	if err != nil {
		return domain.Entry{}, err
	}
	if entry.Status == domain.StatusDone {
		return domain.Entry{}, ErrOutboxEntryClosed
	}
	entry.MarkAbandoned()
	if err := p.store.Save(ctx, entry); err != nil {
		return domain.Entry{}, err
	}
	slog.Info("outbox_admin_abandon", "entry_id", entry.ID)
	return entry, nil
}

func (p *OutboxProcessor) get(ctx context.Context, id string) (domain.Entry, error) {
	entry, err := p.store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, ErrOutboxEntryNotFound
	}
	return entry, err
}

// EmailExecutor sends inquiry reply emails.
type EmailExecutor struct {
	Sender  emailAdapter.Sender
	From    string
	ReplyTo string
}

// Execute sends the email described by an EmailPayload.
// PRE: payload is valid JSON matching domain.EmailPayload
// POST: email accepted by the provider, returns its message ID
func (e *EmailExecutor) Execute(ctx context.Context, payload string) (string, error) {
	entry := domain.Entry{Payload: payload}
	p, err := entry.DecodeEmail()
	if err != nil {
		return "", fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := p.Validate(); err != nil {
		return "", err
	}
	res, err := e.Sender.Send(ctx, emailAdapter.SendRequest{
		To:      []string{p.To},
		From:    e.From,
		Subject: p.Subject,
		HTML:    p.HTML,
		Text:    p.Text,
		ReplyTo: e.ReplyTo,
	})
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}

// StartBackgroundWorker periodically processes pending outbox entries until stopCh is closed.
// PRE: interval > 0
func StartBackgroundWorker(processor *OutboxProcessor, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				if n, err := processor.ProcessPending(ctx); err != nil {
					slog.Error("outbox_background_process_failed", "error", err.Error())
				} else if n > 0 {
					slog.Info("outbox_background_processed", "attempted", n)
				}
				cancel()
			case <-stopCh:
				slog.Info("outbox_background_worker_stopped")
				return
			}
		}
	}()
}

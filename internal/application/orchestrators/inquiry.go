package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hoteladmin/internal/domain/inquiry"
	"hoteladmin/internal/domain/outbox"
)

var ErrInquiryNotFound = errors.New("inquiry not found")

// InquiryStoreForOrchestrator defines the store interface needed by the inquiry orchestrators.
type InquiryStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (inquiry.Inquiry, error)
	Save(ctx context.Context, q inquiry.Inquiry) error
	Delete(ctx context.Context, id string) error
}

// OutboxStoreForReply is the outbox write access needed to queue a reply.
type OutboxStoreForReply interface {
	Save(ctx context.Context, e outbox.Entry) error
}

// InquiryDeps holds dependencies for the inquiry orchestrators.
type InquiryDeps struct {
	InquiryStore InquiryStoreForOrchestrator
	GenerateID   func() string
	Now          func() time.Time
}

// SubmitInquiryInput carries the public website form.
type SubmitInquiryInput struct {
	Email   string
	Message string
	Type    string
}

// ExecuteSubmitInquiry stores a new unread inquiry from the website.
// POST: inquiry persisted with IsRead=false
func ExecuteSubmitInquiry(ctx context.Context, input SubmitInquiryInput, deps InquiryDeps) (inquiry.Inquiry, error) {
	q := inquiry.Inquiry{
		ID:        deps.GenerateID(),
		Email:     strings.TrimSpace(input.Email),
		Message:   strings.TrimSpace(input.Message),
		Type:      input.Type,
		CreatedAt: deps.Now(),
	}
	if err := q.Validate(); err != nil {
		return inquiry.Inquiry{}, err
	}
	if err := deps.InquiryStore.Save(ctx, q); err != nil {
		return inquiry.Inquiry{}, err
	}
	slog.Info("inquiry_event", "event", "submitted", "id", q.ID, "type", q.Type)
	return q, nil
}

// ExecuteOpenInquiry returns an inquiry and marks it read.
// POST: stored inquiry has IsRead=true
func ExecuteOpenInquiry(ctx context.Context, id string, deps InquiryDeps) (inquiry.Inquiry, error) {
	q, err := getInquiry(ctx, deps.InquiryStore, id)
	if err != nil {
		return inquiry.Inquiry{}, err
	}
	if q.IsRead {
		return q, nil
	}
	q.MarkRead()
	if err := deps.InquiryStore.Save(ctx, q); err != nil {
		return inquiry.Inquiry{}, err
	}
	slog.Info("inquiry_event", "event", "read", "id", q.ID)
	return q, nil
}

// ExecuteDeleteInquiry removes an inquiry without replying.
func ExecuteDeleteInquiry(ctx context.Context, id string, deps InquiryDeps) error {
	if _, err := getInquiry(ctx, deps.InquiryStore, id); err != nil {
		return err
	}
	if err := deps.InquiryStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("inquiry_event", "event", "deleted", "id", id)
	return nil
}

// ReplyInquiryInput carries a staff reply. Body is markdown.
type ReplyInquiryInput struct {
	ID   string
	Body string
}

// ReplyInquiryDeps holds dependencies for ReplyInquiry.
type ReplyInquiryDeps struct {
	InquiryStore   InquiryStoreForOrchestrator
	OutboxStore    OutboxStoreForReply
	RenderMarkdown func(md string) (string, error)
	GenerateID     func() string
	Now            func() time.Time
}

// ExecuteReplyInquiry queues the reply email and resolves the inquiry.
// PRE: body passes inquiry.ValidateReply
// POST: a pending outbox entry addressed to the inquiry email exists and the inquiry is deleted,
// or neither changed when the outbox rejects the entry
func ExecuteReplyInquiry(ctx context.Context, input ReplyInquiryInput, deps ReplyInquiryDeps) (outbox.Entry, error) {
	if err := inquiry.ValidateReply(input.Body); err != nil {
		return outbox.Entry{}, err
	}
	q, err := getInquiry(ctx, deps.InquiryStore, input.ID)
	if err != nil {
		return outbox.Entry{}, err
	}

	html, err := deps.RenderMarkdown(input.Body)
	if err != nil {
		return outbox.Entry{}, fmt.Errorf("render reply: %w", err)
	}

	entry, err := outbox.NewEmailEntry(deps.GenerateID(), outbox.EmailPayload{
		InquiryID: q.ID,
		To:        q.Email,
		Subject:   ReplySubject(q),
		HTML:      html,
		Text:      ReplyText(q, input.Body),
	}, deps.Now())
	if err != nil {
		return outbox.Entry{}, err
	}
	// The inquiry and its queued reply never coexist.
	if err := deps.InquiryStore.Delete(ctx, q.ID); err != nil {
		return outbox.Entry{}, err
	}
	if err := deps.OutboxStore.Save(ctx, entry); err != nil {
		if restoreErr := deps.InquiryStore.Save(ctx, q); restoreErr != nil {
			slog.Error("inquiry_event", "event", "restore_failed", "id", q.ID, "error", restoreErr)
			return outbox.Entry{}, errors.Join(err, restoreErr)
		}
		slog.Warn("inquiry_event", "event", "reply_not_queued", "id", q.ID, "error", err)
		return outbox.Entry{}, err
	}

	slog.Info("inquiry_event", "event", "replied", "id", q.ID, "outbox_id", entry.ID)
	return entry, nil
}

// ReplySubject is the subject line of a reply to q.
func ReplySubject(q inquiry.Inquiry) string {
	return "Re: " + q.TypeLabel()
}

// ReplyText is the plain-text reply: the staff body followed by the quoted inquiry.
func ReplyText(q inquiry.Inquiry, body string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n\n")
	for _, line := range strings.Split(q.Message, "\n") {
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func getInquiry(ctx context.Context, store InquiryStoreForOrchestrator, id string) (inquiry.Inquiry, error) {
	q, err := store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return inquiry.Inquiry{}, ErrInquiryNotFound
	}
	return q, err
}

package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"hoteladmin/internal/domain/content"
)

var ErrDocumentNotFound = errors.New("content document not found")

// ContentStoreForOrchestrator defines the store interface needed by the content orchestrators.
type ContentStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (content.Document, error)
	Save(ctx context.Context, d content.Document) error
	Count(ctx context.Context) (int, error)
}

// ContentDeps holds dependencies for the content orchestrators.
type ContentDeps struct {
	ContentStore ContentStoreForOrchestrator
	Now          func() time.Time
}

// SaveContentInput carries both language variants as raw JSON text.
type SaveContentInput struct {
	ID string
	CS string
	EN string
}

// ExecuteSaveContent replaces both variants of a document.
// PRE: CS and EN are valid JSON
// POST: both variants stored pretty-printed and LastEdited advanced, or nothing changes
func ExecuteSaveContent(ctx context.Context, input SaveContentInput, deps ContentDeps) (content.Document, error) {
	doc, err := deps.ContentStore.GetByID(ctx, input.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Document{}, ErrDocumentNotFound
	}
	if err != nil {
		return content.Document{}, err
	}
	if err := doc.Update(input.CS, input.EN, deps.Now()); err != nil {
		return content.Document{}, err
	}
	if err := deps.ContentStore.Save(ctx, doc); err != nil {
		return content.Document{}, err
	}
	slog.Info("content_event", "event", "saved", "id", doc.ID)
	return doc, nil
}

// ExecuteSeedContent stores the default documents when none exist.
// POST: content.Seeds are stored if the store was empty
func ExecuteSeedContent(ctx context.Context, deps ContentDeps) error {
	n, err := deps.ContentStore.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, doc := range content.Seeds(deps.Now()) {
		if err := deps.ContentStore.Save(ctx, doc); err != nil {
			return err
		}
	}
	slog.Info("content_event", "event", "seeded")
	return nil
}

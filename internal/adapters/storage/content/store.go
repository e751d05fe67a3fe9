package content

import (
	"context"

	domain "hoteladmin/internal/domain/content"
)

// Store persists website content documents.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Document, error)
	Save(ctx context.Context, value domain.Document) error
	List(ctx context.Context) ([]domain.Document, error)
	Count(ctx context.Context) (int, error)
}

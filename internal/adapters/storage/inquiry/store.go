package inquiry

import (
	"context"

	domain "hoteladmin/internal/domain/inquiry"
)

// Store persists Inquiry state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Inquiry, error)
	Save(ctx context.Context, value domain.Inquiry) error
	Delete(ctx context.Context, id string) error
	// List returns inquiries newest first. An empty or "all" type returns every type.
	List(ctx context.Context, typeFilter string) ([]domain.Inquiry, error)
	CountUnread(ctx context.Context) (int, error)
}

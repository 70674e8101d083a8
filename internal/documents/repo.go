package documents

import "context"

// ListFilter narrows document listings.
type ListFilter struct {
	DocumentType string
	Category     string
	Status       string
	Limit        int
	Offset       int
}

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Document, error)
	UpdateStatus(ctx context.Context, userID, documentID, status string) error
	Delete(ctx context.Context, userID, documentID string) error
	StatsByUser(ctx context.Context, userID string) (Stats, error)
}

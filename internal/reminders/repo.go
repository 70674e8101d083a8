package reminders

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("reminder not found")

// ListFilter narrows reminder listings.
type ListFilter struct {
	Status     string
	DocumentID string
	Before     *time.Time // only reminders due before this instant
	Limit      int
	Offset     int
}

// Repo defines persistence operations for reminders.
type Repo interface {
	Create(ctx context.Context, reminder Reminder) error
	GetByID(ctx context.Context, userID, reminderID string) (Reminder, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Reminder, error)
	UpdateStatus(ctx context.Context, userID, reminderID, status string) error
	Snooze(ctx context.Context, userID, reminderID string, until time.Time) error
	Delete(ctx context.Context, userID, reminderID string) error
	DeleteMany(ctx context.Context, userID string, reminderIDs []string) (int, error)
	CompleteMany(ctx context.Context, userID string, reminderIDs []string) (int, error)
	DeleteByDocument(ctx context.Context, userID, documentID string) (int, error)
	CountByStatus(ctx context.Context, userID string) (map[string]int, error)
}

package reminders

import (
	"context"
	"errors"
	"time"
)

const defaultSnoozeDays = 1

// Service contains business logic for reminders.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// List returns reminders for a user, soonest-first.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Reminder, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	return s.Repo.ListByUser(ctx, userID, filter)
}

// Upcoming returns pending reminders due within the given number of days.
func (s *Service) Upcoming(ctx context.Context, userID string, days int, now time.Time) ([]Reminder, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if days <= 0 {
		days = 7
	}
	cutoff := now.Add(time.Duration(days) * 24 * time.Hour)
	return s.Repo.ListByUser(ctx, userID, ListFilter{
		Status: StatusPending,
		Before: &cutoff,
	})
}

// Complete marks a reminder COMPLETED.
func (s *Service) Complete(ctx context.Context, userID, reminderID string) error {
	if userID == "" || reminderID == "" {
		return errors.New("user id and reminder id are required")
	}
	return s.Repo.UpdateStatus(ctx, userID, reminderID, StatusCompleted)
}

// Dismiss marks a reminder DISMISSED.
func (s *Service) Dismiss(ctx context.Context, userID, reminderID string) error {
	if userID == "" || reminderID == "" {
		return errors.New("user id and reminder id are required")
	}
	return s.Repo.UpdateStatus(ctx, userID, reminderID, StatusDismissed)
}

// Snooze resets a reminder to PENDING and shifts its date forward by the
// given number of days from its current date.
func (s *Service) Snooze(ctx context.Context, userID, reminderID string, days int) (Reminder, error) {
	if userID == "" || reminderID == "" {
		return Reminder{}, errors.New("user id and reminder id are required")
	}
	if days <= 0 {
		days = defaultSnoozeDays
	}

	reminder, err := s.Repo.GetByID(ctx, userID, reminderID)
	if err != nil {
		return Reminder{}, err
	}

	until := reminder.ReminderDate.Add(time.Duration(days) * 24 * time.Hour)
	if err := s.Repo.Snooze(ctx, userID, reminderID, until); err != nil {
		return Reminder{}, err
	}

	reminder.Status = StatusPending
	reminder.ReminderDate = until
	return reminder, nil
}

// Delete removes a reminder.
func (s *Service) Delete(ctx context.Context, userID, reminderID string) error {
	if userID == "" || reminderID == "" {
		return errors.New("user id and reminder id are required")
	}
	return s.Repo.Delete(ctx, userID, reminderID)
}

// BulkDelete removes reminders by id and reports how many were deleted.
func (s *Service) BulkDelete(ctx context.Context, userID string, reminderIDs []string) (int, error) {
	if userID == "" {
		return 0, errors.New("user id is required")
	}
	return s.Repo.DeleteMany(ctx, userID, reminderIDs)
}

// BulkComplete marks reminders COMPLETED and reports how many were updated.
func (s *Service) BulkComplete(ctx context.Context, userID string, reminderIDs []string) (int, error) {
	if userID == "" {
		return 0, errors.New("user id is required")
	}
	return s.Repo.CompleteMany(ctx, userID, reminderIDs)
}

// Stats aggregates reminder counts per status.
func (s *Service) Stats(ctx context.Context, userID string) (map[string]int, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	return s.Repo.CountByStatus(ctx, userID)
}

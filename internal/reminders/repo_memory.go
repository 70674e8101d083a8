package reminders

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Reminder // userID -> reminders
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Reminder),
	}
}

// Create stores a reminder for a user.
func (r *MemoryRepo) Create(ctx context.Context, reminder Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if reminder.Status == "" {
		reminder.Status = StatusPending
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[reminder.UserID] = append(r.data[reminder.UserID], reminder)
	return nil
}

// GetByID returns a reminder owned by a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, reminderID string) (Reminder, error) {
	if err := ctx.Err(); err != nil {
		return Reminder{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, reminder := range r.data[userID] {
		if reminder.ID == reminderID {
			return reminder, nil
		}
	}
	return Reminder{}, ErrNotFound
}

// ListByUser returns reminders soonest-first, honoring the filter.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Reminder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	var out []Reminder
	for _, reminder := range r.data[userID] {
		if filter.Status != "" && reminder.Status != filter.Status {
			continue
		}
		if filter.DocumentID != "" && reminder.DocumentID != filter.DocumentID {
			continue
		}
		if filter.Before != nil && reminder.ReminderDate.After(*filter.Before) {
			continue
		}
		out = append(out, reminder)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].ReminderDate.Before(out[j].ReminderDate)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []Reminder{}, nil
	}
	end := len(out)
	if filter.Limit > 0 && offset+filter.Limit < end {
		end = offset + filter.Limit
	}
	return out[offset:end], nil
}

// UpdateStatus sets the status of a reminder.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, userID, reminderID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data[userID] {
		if r.data[userID][i].ID == reminderID {
			r.data[userID][i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

// Snooze resets the reminder to PENDING and moves its date forward.
func (r *MemoryRepo) Snooze(ctx context.Context, userID, reminderID string, until time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data[userID] {
		if r.data[userID][i].ID == reminderID {
			r.data[userID][i].Status = StatusPending
			r.data[userID][i].ReminderDate = until
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes a reminder.
func (r *MemoryRepo) Delete(ctx context.Context, userID, reminderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.data[userID]
	for i := range list {
		if list[i].ID == reminderID {
			r.data[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// DeleteMany removes reminders by id, returning the number deleted.
func (r *MemoryRepo) DeleteMany(ctx context.Context, userID string, reminderIDs []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	wanted := make(map[string]struct{}, len(reminderIDs))
	for _, id := range reminderIDs {
		wanted[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []Reminder
	deleted := 0
	for _, reminder := range r.data[userID] {
		if _, ok := wanted[reminder.ID]; ok {
			deleted++
			continue
		}
		kept = append(kept, reminder)
	}
	r.data[userID] = kept
	return deleted, nil
}

// CompleteMany marks reminders COMPLETED, returning the number updated.
func (r *MemoryRepo) CompleteMany(ctx context.Context, userID string, reminderIDs []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	wanted := make(map[string]struct{}, len(reminderIDs))
	for _, id := range reminderIDs {
		wanted[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	updated := 0
	for i := range r.data[userID] {
		if _, ok := wanted[r.data[userID][i].ID]; ok {
			r.data[userID][i].Status = StatusCompleted
			updated++
		}
	}
	return updated, nil
}

// DeleteByDocument removes all reminders referencing a document.
func (r *MemoryRepo) DeleteByDocument(ctx context.Context, userID, documentID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []Reminder
	deleted := 0
	for _, reminder := range r.data[userID] {
		if reminder.DocumentID == documentID {
			deleted++
			continue
		}
		kept = append(kept, reminder)
	}
	r.data[userID] = kept
	return deleted, nil
}

// CountByStatus aggregates reminder counts per status.
func (r *MemoryRepo) CountByStatus(ctx context.Context, userID string) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int)
	for _, reminder := range r.data[userID] {
		out[reminder.Status]++
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)

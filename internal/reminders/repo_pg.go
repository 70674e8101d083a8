package reminders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const reminderColumns = `id, user_id, document_id, title, description, reminder_date, reminder_type, status, notification_sent, created_at`

// Create inserts a new reminder.
func (r *PGRepo) Create(ctx context.Context, reminder Reminder) error {
	const query = `
INSERT INTO reminders (
    id,
    user_id,
    document_id,
    title,
    description,
    reminder_date,
    reminder_type,
    status,
    notification_sent,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	status := reminder.Status
	if status == "" {
		status = StatusPending
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		reminder.ID,
		reminder.UserID,
		reminder.DocumentID,
		reminder.Title,
		reminder.Description,
		reminder.ReminderDate,
		reminder.ReminderType,
		status,
		reminder.NotificationSent,
		reminder.CreatedAt,
	)
	return err
}

// GetByID fetches a reminder owned by a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, reminderID string) (Reminder, error) {
	query := `
SELECT ` + reminderColumns + `
FROM reminders
WHERE user_id = $1 AND id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userID, reminderID)
	reminder, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reminder{}, ErrNotFound
		}
		return Reminder{}, err
	}
	return reminder, nil
}

// ListByUser lists reminders soonest-first, honoring the filter.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Reminder, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	conditions := []string{"user_id = $1"}
	args := []any{userID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DocumentID != "" {
		args = append(args, filter.DocumentID)
		conditions = append(conditions, fmt.Sprintf("document_id = $%d", len(args)))
	}
	if filter.Before != nil {
		args = append(args, *filter.Before)
		conditions = append(conditions, fmt.Sprintf("reminder_date <= $%d", len(args)))
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
SELECT `+reminderColumns+`
FROM reminders
WHERE %s
ORDER BY reminder_date ASC
LIMIT $%d OFFSET $%d`, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reminder)
	}
	return out, rows.Err()
}

// UpdateStatus sets the status of a reminder.
func (r *PGRepo) UpdateStatus(ctx context.Context, userID, reminderID, status string) error {
	const query = `
UPDATE reminders
SET status = $1
WHERE user_id = $2 AND id = $3`
	res, err := r.DB.ExecContext(ctx, query, status, userID, reminderID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Snooze resets the reminder to PENDING and moves its date forward.
func (r *PGRepo) Snooze(ctx context.Context, userID, reminderID string, until time.Time) error {
	const query = `
UPDATE reminders
SET status = $1, reminder_date = $2
WHERE user_id = $3 AND id = $4`
	res, err := r.DB.ExecContext(ctx, query, StatusPending, until, userID, reminderID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a reminder.
func (r *PGRepo) Delete(ctx context.Context, userID, reminderID string) error {
	const query = `DELETE FROM reminders WHERE user_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, reminderID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteMany removes reminders by id, returning the number deleted.
func (r *PGRepo) DeleteMany(ctx context.Context, userID string, reminderIDs []string) (int, error) {
	if len(reminderIDs) == 0 {
		return 0, nil
	}
	const query = `DELETE FROM reminders WHERE user_id = $1 AND id = ANY($2)`
	res, err := r.DB.ExecContext(ctx, query, userID, reminderIDs)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// CompleteMany marks reminders COMPLETED, returning the number updated.
func (r *PGRepo) CompleteMany(ctx context.Context, userID string, reminderIDs []string) (int, error) {
	if len(reminderIDs) == 0 {
		return 0, nil
	}
	const query = `UPDATE reminders SET status = $1 WHERE user_id = $2 AND id = ANY($3)`
	res, err := r.DB.ExecContext(ctx, query, StatusCompleted, userID, reminderIDs)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// DeleteByDocument removes all reminders referencing a document.
func (r *PGRepo) DeleteByDocument(ctx context.Context, userID, documentID string) (int, error) {
	const query = `DELETE FROM reminders WHERE user_id = $1 AND document_id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, documentID)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// CountByStatus aggregates reminder counts per status.
func (r *PGRepo) CountByStatus(ctx context.Context, userID string) (map[string]int, error) {
	const query = `
SELECT status, COUNT(*)
FROM reminders
WHERE user_id = $1
GROUP BY status`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(row rowScanner) (Reminder, error) {
	var reminder Reminder
	err := row.Scan(
		&reminder.ID,
		&reminder.UserID,
		&reminder.DocumentID,
		&reminder.Title,
		&reminder.Description,
		&reminder.ReminderDate,
		&reminder.ReminderType,
		&reminder.Status,
		&reminder.NotificationSent,
		&reminder.CreatedAt,
	)
	return reminder, err
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)

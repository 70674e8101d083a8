package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, file_name, storage_key, mime_type, size_bytes, document_type, category, due_date, expiry_date, issue_date, amount, id_number, provider, raw_text, summary, priority, status, uploaded_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    file_name,
    storage_key,
    mime_type,
    size_bytes,
    document_type,
    category,
    due_date,
    expiry_date,
    issue_date,
    amount,
    id_number,
    provider,
    raw_text,
    summary,
    priority,
    status,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	status := doc.Status
	if status == "" {
		status = StatusActive
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.StorageKey,
		doc.MimeType,
		doc.SizeBytes,
		doc.DocumentType,
		doc.Category,
		doc.ExtractedData.DueDate,
		doc.ExtractedData.ExpiryDate,
		doc.ExtractedData.IssueDate,
		doc.ExtractedData.Amount,
		nullStr(doc.ExtractedData.IDNumber),
		nullStr(doc.ExtractedData.Provider),
		doc.ExtractedData.RawText,
		doc.ExtractedData.Summary,
		doc.Priority,
		status,
		doc.UploadedAt,
	)
	return err
}

// GetByID fetches a document owned by a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userID, documentID)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByUser lists documents newest-first, honoring the filter.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Document, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	conditions := []string{"user_id = $1"}
	args := []any{userID}
	if filter.DocumentType != "" {
		args = append(args, filter.DocumentType)
		conditions = append(conditions, fmt.Sprintf("document_type = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
SELECT `+documentColumns+`
FROM documents
WHERE %s
ORDER BY uploaded_at DESC
LIMIT $%d OFFSET $%d`, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateStatus sets the status of a document.
func (r *PGRepo) UpdateStatus(ctx context.Context, userID, documentID, status string) error {
	const query = `
UPDATE documents
SET status = $1
WHERE user_id = $2 AND id = $3`
	res, err := r.DB.ExecContext(ctx, query, status, userID, documentID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document row. Reminder rows cascade via the schema's
// foreign key; callers still delete them explicitly for store parity.
func (r *PGRepo) Delete(ctx context.Context, userID, documentID string) error {
	const query = `DELETE FROM documents WHERE user_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, documentID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// StatsByUser aggregates document counts by type, category and status.
func (r *PGRepo) StatsByUser(ctx context.Context, userID string) (Stats, error) {
	stats := Stats{
		ByType:     make(map[string]int),
		ByCategory: make(map[string]int),
		ByStatus:   make(map[string]int),
	}

	groupings := []struct {
		column string
		dest   map[string]int
	}{
		{"document_type", stats.ByType},
		{"category", stats.ByCategory},
		{"status", stats.ByStatus},
	}

	for _, g := range groupings {
		query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM documents WHERE user_id = $1 GROUP BY %s`, g.column, g.column)
		rows, err := r.DB.QueryContext(ctx, query, userID)
		if err != nil {
			return Stats{}, err
		}
		for rows.Next() {
			var key string
			var count int
			if err := rows.Scan(&key, &count); err != nil {
				rows.Close()
				return Stats{}, err
			}
			g.dest[key] = count
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return Stats{}, err
		}
		rows.Close()
	}

	for _, count := range stats.ByStatus {
		stats.Total += count
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var dueDate, expiryDate, issueDate sql.NullTime
	var amount sql.NullFloat64
	var idNumber, provider sql.NullString
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.StorageKey,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.DocumentType,
		&doc.Category,
		&dueDate,
		&expiryDate,
		&issueDate,
		&amount,
		&idNumber,
		&provider,
		&doc.ExtractedData.RawText,
		&doc.ExtractedData.Summary,
		&doc.Priority,
		&doc.Status,
		&doc.UploadedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if dueDate.Valid {
		t := dueDate.Time
		doc.ExtractedData.DueDate = &t
	}
	if expiryDate.Valid {
		t := expiryDate.Time
		doc.ExtractedData.ExpiryDate = &t
	}
	if issueDate.Valid {
		t := issueDate.Time
		doc.ExtractedData.IssueDate = &t
	}
	if amount.Valid {
		a := amount.Float64
		doc.ExtractedData.Amount = &a
	}
	if idNumber.Valid {
		doc.ExtractedData.IDNumber = idNumber.String
	}
	if provider.Valid {
		doc.ExtractedData.Provider = provider.String
	}
	return doc, nil
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)

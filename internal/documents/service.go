package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"docvault-backend/internal/analyze"
	"docvault-backend/internal/extract"
	"docvault-backend/internal/reminders"
	"docvault-backend/internal/shared/metrics"
	"docvault-backend/internal/shared/storage/object"
	"docvault-backend/internal/shared/telemetry"
)

const defaultSummary = "Document uploaded"

// Upload bundles an incoming file's name and body.
type Upload struct {
	FileName string
	Body     io.Reader
}

// IngestionResult is the composite outcome of a successful ingestion.
type IngestionResult struct {
	Document            Document       `json:"document"`
	Analysis            analyze.Result `json:"analysis"`
	RemindersCreated    int            `json:"remindersCreated"`
	ExtractedTextLength int            `json:"extractedTextLength"`
}

// Service contains the ingestion pipeline and document business logic.
type Service struct {
	Repo      Repo
	Reminders reminders.Repo
	Store     object.ObjectStore
	Extractor *extract.Extractor
	Analyzer  *analyze.Analyzer
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Ingest runs the full pipeline: store bytes, extract text, analyze,
// persist the document, derive and persist reminders.
//
// The stages run strictly in order. Failures before the document row exists
// clean up the stored file; once the row is persisted the operation is
// committed and reminder shortfalls only lower RemindersCreated.
func (s *Service) Ingest(ctx context.Context, userID string, upload Upload) (IngestionResult, error) {
	if userID == "" {
		return IngestionResult{}, errors.New("user id is required")
	}
	if upload.Body == nil || upload.FileName == "" {
		return IngestionResult{}, ErrNoFile
	}

	metrics.IncIngestStarted()
	startMs := metrics.NowMillis()

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, upload.FileName, upload.Body)
	if err != nil {
		metrics.IncIngestFailed()
		return IngestionResult{}, fmt.Errorf("%w: save upload: %v", ErrStorage, err)
	}

	text, err := s.Extractor.Extract(ctx, storageKey, mimeType, upload.FileName)
	if err != nil {
		s.cleanupFile(ctx, userID, storageKey, "extract")
		metrics.IncIngestFailed()
		return IngestionResult{}, err
	}

	// By contract the analyzer never fails; a backend problem degrades to
	// the default analysis and the pipeline keeps going.
	analysis := s.Analyzer.Analyze(ctx, text)

	now := s.now()
	summary := analysis.Summary
	if summary == "" {
		summary = defaultSummary
	}

	doc := Document{
		ID:           uuid.NewString(),
		UserID:       userID,
		FileName:     upload.FileName,
		StorageKey:   storageKey,
		MimeType:     mimeType,
		SizeBytes:    size,
		DocumentType: analysis.DocumentType,
		Category:     analysis.Category,
		ExtractedData: ExtractedData{
			DueDate:    analysis.DueDate,
			ExpiryDate: analysis.ExpiryDate,
			IssueDate:  analysis.IssueDate,
			Amount:     analysis.Amount,
			IDNumber:   analysis.IDNumber,
			Provider:   analysis.Provider,
			RawText:    text,
			Summary:    summary,
		},
		Priority:   analysis.Priority,
		Status:     StatusActive,
		UploadedAt: now,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		s.cleanupFile(ctx, userID, storageKey, "persist document")
		metrics.IncIngestFailed()
		return IngestionResult{}, fmt.Errorf("%w: insert document: %v", ErrStorage, err)
	}

	// Committed from here on: a cancelled request must not undo the
	// document or skip reminders already generated.
	created := s.createReminders(context.WithoutCancel(ctx), doc, analysis, now)

	metrics.IncIngestCompleted()
	metrics.AddRemindersCreated(created)
	metrics.ObserveIngestDurationMs(metrics.NowMillis() - startMs)

	telemetry.Info("ingest.complete", map[string]any{
		"user_id":           userID,
		"document_id":       doc.ID,
		"document_type":     doc.DocumentType,
		"reminders_created": created,
		"text_len":          len(text),
	})

	return IngestionResult{
		Document:            doc,
		Analysis:            analysis,
		RemindersCreated:    created,
		ExtractedTextLength: len(text),
	}, nil
}

// createReminders persists generated reminder specs. Individual failures are
// logged and skipped; the document stays valid without them.
func (s *Service) createReminders(ctx context.Context, doc Document, analysis analyze.Result, now time.Time) int {
	specs := reminders.Generate(analysis, doc.FileName, now)
	created := 0
	for _, spec := range specs {
		reminder := reminders.Reminder{
			ID:           uuid.NewString(),
			UserID:       doc.UserID,
			DocumentID:   doc.ID,
			Title:        spec.Title,
			Description:  spec.Description,
			ReminderDate: spec.ReminderDate,
			ReminderType: spec.ReminderType,
			Status:       reminders.StatusPending,
			CreatedAt:    now,
		}
		if err := s.Reminders.Create(ctx, reminder); err != nil {
			telemetry.Error("ingest.reminder_failed", map[string]any{
				"user_id":       doc.UserID,
				"document_id":   doc.ID,
				"reminder_type": spec.ReminderType,
				"err":           err.Error(),
			})
			continue
		}
		created++
	}
	return created
}

// cleanupFile deletes a stored upload after a pipeline failure. Best effort:
// a stored file must never outlive a failed ingestion, but cleanup problems
// only get logged. Detached from the request context so a cancelled caller
// still gets its file removed.
func (s *Service) cleanupFile(ctx context.Context, userID, storageKey, stage string) {
	if err := s.Store.Delete(context.WithoutCancel(ctx), storageKey); err != nil {
		telemetry.Error("ingest.cleanup_failed", map[string]any{
			"user_id":     userID,
			"storage_key": storageKey,
			"stage":       stage,
			"err":         err.Error(),
		})
	}
}

// Get returns a document owned by a user.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if userID == "" || documentID == "" {
		return Document{}, errors.New("user id and document id are required")
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// List returns documents for a user, newest-first.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Document, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	return s.Repo.ListByUser(ctx, userID, filter)
}

// UpdateStatus sets a document's status.
func (s *Service) UpdateStatus(ctx context.Context, userID, documentID, status string) error {
	if userID == "" || documentID == "" {
		return errors.New("user id and document id are required")
	}
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	return s.Repo.UpdateStatus(ctx, userID, documentID, status)
}

// Delete removes a document, its reminders and its stored file.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	if userID == "" || documentID == "" {
		return errors.New("user id and document id are required")
	}

	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return err
	}

	deleted, err := s.Reminders.DeleteByDocument(ctx, userID, documentID)
	if err != nil {
		return fmt.Errorf("%w: delete reminders: %v", ErrStorage, err)
	}
	if err := s.Repo.Delete(ctx, userID, documentID); err != nil {
		return err
	}

	if err := s.Store.Delete(context.WithoutCancel(ctx), doc.StorageKey); err != nil {
		telemetry.Error("documents.delete_file_failed", map[string]any{
			"user_id":     userID,
			"document_id": documentID,
			"storage_key": doc.StorageKey,
			"err":         err.Error(),
		})
	}

	telemetry.Info("documents.deleted", map[string]any{
		"user_id":           userID,
		"document_id":       documentID,
		"reminders_deleted": deleted,
	})
	return nil
}

// Stats aggregates a user's documents.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	if userID == "" {
		return Stats{}, errors.New("user id is required")
	}
	return s.Repo.StatsByUser(ctx, userID)
}

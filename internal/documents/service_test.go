package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"docvault-backend/internal/analyze"
	"docvault-backend/internal/extract"
	"docvault-backend/internal/reminders"
)

type fakeStore struct {
	objects  map[string][]byte
	saveErr  error
	deleted  []string
	openErrs map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Save(ctx context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	if s.saveErr != nil {
		return "", 0, "", s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := userID + "/" + fileName
	s.objects[key] = data
	return key, int64(len(data)), "image/png", nil
}

func (s *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := s.openErrs[storageKey]; err != nil {
		return nil, err
	}
	data, ok := s.objects[storageKey]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) Delete(ctx context.Context, storageKey string) error {
	delete(s.objects, storageKey)
	s.deleted = append(s.deleted, storageKey)
	return nil
}

func (s *fakeStore) Exists(ctx context.Context, storageKey string) (bool, error) {
	_, ok := s.objects[storageKey]
	return ok, nil
}

type fakeRunner struct {
	stdout string
	err    error
}

func (r fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	return []byte(r.stdout), nil, r.err
}

type fakeLLM struct {
	response string
	err      error
}

func (f fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

type failingDocRepo struct {
	Repo
}

func (failingDocRepo) Create(ctx context.Context, doc Document) error {
	return errors.New("insert failed")
}

type failingReminderRepo struct {
	reminders.Repo
}

func (failingReminderRepo) Create(ctx context.Context, reminder reminders.Reminder) error {
	return errors.New("reminder insert failed")
}

const billResponse = `{"documentType":"bill","category":"Financial","dueDate":"2026-04-01",` +
	`"amount":420.50,"provider":"City Power","priority":"HIGH","summary":"Electricity bill for March"}`

func newTestService(store *fakeStore, runner fakeRunner, llm analyze.Client) (*Service, *MemoryRepo, *reminders.MemoryRepo) {
	docRepo := NewMemoryRepo()
	remRepo := reminders.NewMemoryRepo()
	svc := &Service{
		Repo:      docRepo,
		Reminders: remRepo,
		Store:     store,
		Extractor: extract.New(store, runner, "", ""),
		Analyzer:  analyze.New(llm),
		Now: func() time.Time {
			return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
		},
	}
	return svc, docRepo, remRepo
}

func TestIngestHappyPath(t *testing.T) {
	store := newFakeStore()
	runner := fakeRunner{stdout: "City Power electricity bill, amount due 420.50 by 2026-04-01"}
	svc, docRepo, remRepo := newTestService(store, runner, fakeLLM{response: billResponse})

	result, err := svc.Ingest(context.Background(), "u1", Upload{
		FileName: "bill.png",
		Body:     strings.NewReader("fake image bytes"),
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	doc := result.Document
	if doc.DocumentType != analyze.TypeBill || doc.Category != analyze.CategoryFinancial {
		t.Fatalf("doc = %+v", doc)
	}
	if doc.Status != StatusActive {
		t.Fatalf("status = %q, want %q", doc.Status, StatusActive)
	}
	if doc.Priority != analyze.PriorityHigh {
		t.Fatalf("priority = %q", doc.Priority)
	}
	if doc.ExtractedData.Summary != "Electricity bill for March" {
		t.Fatalf("summary = %q", doc.ExtractedData.Summary)
	}
	if doc.ExtractedData.RawText == "" || result.ExtractedTextLength != len(doc.ExtractedData.RawText) {
		t.Fatalf("rawText len = %d, extractedTextLength = %d", len(doc.ExtractedData.RawText), result.ExtractedTextLength)
	}

	// Due date 2026-04-01 with now 2026-03-01: date reminder plus advance.
	if result.RemindersCreated != 2 {
		t.Fatalf("remindersCreated = %d, want 2", result.RemindersCreated)
	}
	list, err := remRepo.ListByUser(context.Background(), "u1", reminders.ListFilter{DocumentID: doc.ID})
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("stored reminders = %d, want 2", len(list))
	}
	for _, reminder := range list {
		if reminder.Status != reminders.StatusPending {
			t.Fatalf("reminder status = %q", reminder.Status)
		}
		if reminder.DocumentID != doc.ID {
			t.Fatalf("reminder documentId = %q", reminder.DocumentID)
		}
	}

	stored, err := docRepo.GetByID(context.Background(), "u1", doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.FileName != "bill.png" {
		t.Fatalf("stored fileName = %q", stored.FileName)
	}
	if ok, _ := store.Exists(context.Background(), doc.StorageKey); !ok {
		t.Fatal("stored file should be kept on success")
	}
}

func TestIngestNoFile(t *testing.T) {
	svc, _, _ := newTestService(newFakeStore(), fakeRunner{}, fakeLLM{})

	_, err := svc.Ingest(context.Background(), "u1", Upload{})
	if !errors.Is(err, ErrNoFile) {
		t.Fatalf("err = %v, want ErrNoFile", err)
	}
}

func TestIngestExtractionFailureCleansUpFile(t *testing.T) {
	store := newFakeStore()
	runner := fakeRunner{stdout: "x"} // below the usable-text threshold
	svc, docRepo, _ := newTestService(store, runner, fakeLLM{response: billResponse})

	_, err := svc.Ingest(context.Background(), "u1", Upload{
		FileName: "blurry.png",
		Body:     strings.NewReader("fake image bytes"),
	})
	if !errors.Is(err, extract.ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}

	if ok, _ := store.Exists(context.Background(), "u1/blurry.png"); ok {
		t.Fatal("stored file should be deleted after extraction failure")
	}
	if list, _ := docRepo.ListByUser(context.Background(), "u1", ListFilter{}); len(list) != 0 {
		t.Fatalf("documents = %d, want 0", len(list))
	}
}

func TestIngestAnalysisFailureStillSucceeds(t *testing.T) {
	store := newFakeStore()
	runner := fakeRunner{stdout: "some perfectly readable document text"}
	svc, _, _ := newTestService(store, runner, fakeLLM{err: errors.New("backend down")})

	result, err := svc.Ingest(context.Background(), "u1", Upload{
		FileName: "doc.png",
		Body:     strings.NewReader("fake image bytes"),
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.Document.DocumentType != analyze.TypeOther {
		t.Fatalf("documentType = %q, want fallback", result.Document.DocumentType)
	}
	if result.RemindersCreated != 0 {
		t.Fatalf("remindersCreated = %d, want 0", result.RemindersCreated)
	}
	if result.Document.ExtractedData.RawText == "" {
		t.Fatal("rawText should be kept even without analysis")
	}
}

func TestIngestDocumentPersistFailureCleansUpFile(t *testing.T) {
	store := newFakeStore()
	runner := fakeRunner{stdout: "some perfectly readable document text"}
	svc, _, _ := newTestService(store, runner, fakeLLM{response: billResponse})
	svc.Repo = failingDocRepo{}

	_, err := svc.Ingest(context.Background(), "u1", Upload{
		FileName: "doc.png",
		Body:     strings.NewReader("fake image bytes"),
	})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}
	if ok, _ := store.Exists(context.Background(), "u1/doc.png"); ok {
		t.Fatal("stored file should be deleted after persist failure")
	}
}

func TestIngestReminderFailuresAreNotFatal(t *testing.T) {
	store := newFakeStore()
	runner := fakeRunner{stdout: "City Power electricity bill, due soon"}
	svc, docRepo, _ := newTestService(store, runner, fakeLLM{response: billResponse})
	svc.Reminders = failingReminderRepo{}

	result, err := svc.Ingest(context.Background(), "u1", Upload{
		FileName: "bill.png",
		Body:     strings.NewReader("fake image bytes"),
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.RemindersCreated != 0 {
		t.Fatalf("remindersCreated = %d, want 0", result.RemindersCreated)
	}
	if _, err := docRepo.GetByID(context.Background(), "u1", result.Document.ID); err != nil {
		t.Fatalf("document should survive reminder failures: %v", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	store := newFakeStore()
	runner := fakeRunner{stdout: "City Power electricity bill, amount due 420.50"}
	svc, docRepo, remRepo := newTestService(store, runner, fakeLLM{response: billResponse})

	result, err := svc.Ingest(context.Background(), "u1", Upload{
		FileName: "bill.png",
		Body:     strings.NewReader("fake image bytes"),
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if err := svc.Delete(context.Background(), "u1", result.Document.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := docRepo.GetByID(context.Background(), "u1", result.Document.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("document err = %v, want ErrNotFound", err)
	}
	list, _ := remRepo.ListByUser(context.Background(), "u1", reminders.ListFilter{})
	if len(list) != 0 {
		t.Fatalf("reminders = %d, want 0", len(list))
	}
	if ok, _ := store.Exists(context.Background(), result.Document.StorageKey); ok {
		t.Fatal("stored file should be deleted with the document")
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc, _, _ := newTestService(newFakeStore(), fakeRunner{}, fakeLLM{})

	err := svc.UpdateStatus(context.Background(), "u1", "d1", "ARCHIVED")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

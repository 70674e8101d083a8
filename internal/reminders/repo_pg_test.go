package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateInsertsAllColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	reminder := Reminder{
		ID:           "r1",
		UserID:       "u1",
		DocumentID:   "d1",
		Title:        "bill Payment Due",
		Description:  "Electricity bill",
		ReminderDate: now.AddDate(0, 0, 14),
		ReminderType: TypeDueDate,
		CreatedAt:    now,
	}

	mock.ExpectExec("INSERT INTO reminders").
		WithArgs(
			reminder.ID,
			reminder.UserID,
			reminder.DocumentID,
			reminder.Title,
			reminder.Description,
			reminder.ReminderDate,
			reminder.ReminderType,
			StatusPending, // blank status defaults to PENDING
			false,
			reminder.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), reminder); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE reminders").
		WithArgs(StatusCompleted, "u1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), "u1", "missing", StatusCompleted)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoListByUserAppliesFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, 0, 7)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "document_id", "title", "description",
		"reminder_date", "reminder_type", "status", "notification_sent", "created_at",
	}).AddRow("r1", "u1", "d1", "bill Payment Due", "desc", now.AddDate(0, 0, 2), TypeDueDate, StatusPending, false, now)

	mock.ExpectQuery("SELECT (.+) FROM reminders").
		WithArgs("u1", StatusPending, cutoff, 50, 0).
		WillReturnRows(rows)

	list, err := repo.ListByUser(context.Background(), "u1", ListFilter{
		Status: StatusPending,
		Before: &cutoff,
	})
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 1 || list[0].ID != "r1" {
		t.Fatalf("list = %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

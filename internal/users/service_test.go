package users

import (
	"context"
	"errors"
	"testing"
)

func TestUpsertFromAuthCreatesAndUpdates(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if err := svc.UpsertFromAuth(ctx, User{ID: "google:1", Email: "a@example.com", Name: "A"}); err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}

	first, err := svc.GetByID(ctx, "google:1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if err := svc.UpsertFromAuth(ctx, User{ID: "google:1", Email: "a@example.com", Name: "A Renamed"}); err != nil {
		t.Fatalf("second UpsertFromAuth: %v", err)
	}

	second, err := svc.GetByID(ctx, "google:1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if second.Name != "A Renamed" {
		t.Fatalf("name = %q", second.Name)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("createdAt should be preserved across upserts")
	}
}

func TestUpsertFromAuthRequiresIdentity(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.UpsertFromAuth(context.Background(), User{Email: "a@example.com"}); err == nil {
		t.Fatal("expected error without id")
	}
	if err := svc.UpsertFromAuth(context.Background(), User{ID: "google:1"}); err == nil {
		t.Fatal("expected error without email")
	}
}

func TestGetByIDUnknownUser(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

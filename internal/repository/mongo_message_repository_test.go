package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/portfolio/backend/internal/model"
)

func TestMongoMessageRepository_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	ctx := context.Background()
	store := NewMongoStore(uri, "portfolio_test")
	defer func() { _ = store.Close(ctx) }()

	repo := NewMongoMessageRepository(store)
	if err := repo.Drop(ctx); err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	base := time.Now().UTC().Truncate(time.Millisecond)
	first := &model.Message{Name: "A", Email: "a@example.com", Subject: "s", Message: "m", CreatedAt: base}
	second := &model.Message{Name: "B", Email: "b@example.com", Subject: "s", Message: "m", CreatedAt: base.Add(time.Second)}
	for _, m := range []*model.Message{first, second} {
		if err := repo.Save(ctx, m); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	list, err := repo.List(ctx, model.ListOptions{Page: 1, Limit: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != second.ID {
		t.Fatalf("expected newest message first, got %+v", list)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected count 2, got %d (%v)", n, err)
	}

	yes := true
	if err := repo.Update(ctx, first.ID, model.MessageUpdate{Replied: &yes}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := repo.Update(ctx, first.ID, model.MessageUpdate{}); err != nil {
		t.Fatalf("empty Update failed: %v", err)
	}

	if err := store.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// The handle reconnects after Close.
	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMongoMessageRepository_InvalidIDIsNotFound(t *testing.T) {
	repo := NewMongoMessageRepository(NewMongoStore("mongodb://127.0.0.1:1", "unused"))
	yes := true

	if err := repo.Update(context.Background(), "zzz", model.MessageUpdate{Read: &yes}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), "zzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMongoStore_CloseWithoutConnectIsNoop(t *testing.T) {
	store := NewMongoStore("mongodb://127.0.0.1:1", "unused")
	if err := store.Close(context.Background()); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

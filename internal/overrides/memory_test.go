package overrides

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func fixedClock() func() time.Time {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestMemoryRepository_SetGetList(t *testing.T) {
	ctx := context.Background()
	id := uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	repo := NewMemoryRepository(WithClock(fixedClock()), WithIDGenerator(func() uuid.UUID { return id }))

	if _, ok, err := repo.Get(ctx, 1, "extra_options"); err != nil || ok {
		t.Fatalf("expected no override, got ok=%v err=%v", ok, err)
	}

	entry, err := repo.Set(ctx, 1, "extra_options", true)
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if entry.ID != id || entry.Key != "1/extra_options" || !entry.Hidden {
		t.Fatalf("unexpected entry %+v", entry)
	}

	hidden, ok, err := repo.Get(ctx, 1, "extra_options")
	if err != nil || !ok || !hidden {
		t.Fatalf("expected hidden override, got hidden=%v ok=%v err=%v", hidden, ok, err)
	}

	if _, err := repo.Set(ctx, 1, "truncate_conditioning", false); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := repo.Set(ctx, 2, "extra_options", false); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	list, err := repo.ListByNode(ctx, 1)
	if err != nil {
		t.Fatalf("ListByNode() error = %v", err)
	}
	if len(list) != 2 || list[0].WidgetName != "extra_options" || list[1].WidgetName != "truncate_conditioning" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestMemoryRepository_DeleteByNodeScopesToNode(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, _ = repo.Set(ctx, 1, "a", true)
	_, _ = repo.Set(ctx, 1, "b", true)
	_, _ = repo.Set(ctx, 2, "a", true)

	removed, err := repo.DeleteByNode(ctx, 1)
	if err != nil || removed != 2 {
		t.Fatalf("expected two removals, got %d err=%v", removed, err)
	}
	if _, ok, _ := repo.Get(ctx, 1, "a"); ok {
		t.Fatalf("expected node 1 override to be gone")
	}
	if _, ok, _ := repo.Get(ctx, 2, "a"); !ok {
		t.Fatalf("expected node 2 override to survive")
	}
	if repo.Len() != 1 {
		t.Fatalf("expected one remaining override, got %d", repo.Len())
	}
	if removed, _ := repo.DeleteByNode(ctx, 42); removed != 0 {
		t.Fatalf("expected no removals for unknown node, got %d", removed)
	}
}

func TestMemoryRepository_RejectsInvalidKeys(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := repo.Set(context.Background(), 1, "  ", true); !errors.Is(err, ErrWidgetRequired) {
		t.Fatalf("expected ErrWidgetRequired, got %v", err)
	}
	if _, err := repo.Set(context.Background(), 0, "a", true); !errors.Is(err, ErrNodeRequired) {
		t.Fatalf("expected ErrNodeRequired, got %v", err)
	}
}

func TestToggleStartsFromEffectiveState(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	entry, err := Toggle(ctx, repo, 3, "extra_options", true)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if entry.Hidden {
		t.Fatalf("expected first toggle of a hidden widget to show it")
	}

	entry, err = Toggle(ctx, repo, 3, "extra_options", true)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !entry.Hidden {
		t.Fatalf("expected second toggle to read the stored override and hide")
	}
}

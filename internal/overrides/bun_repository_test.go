package overrides_test

import (
	"context"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-nodevis/internal/overrides"
	"github.com/goliatone/go-nodevis/pkg/testsupport"
)

func newOverridesDB(t *testing.T, name string) *bun.DB {
	t.Helper()
	db := testsupport.NewBunDB(t, name)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := overrides.CreateSchema(ctx, db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func exerciseRepository(t *testing.T, repo overrides.Repository) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := repo.Get(ctx, 7, "extra_options"); err != nil || ok {
		t.Fatalf("expected missing override, got ok=%v err=%v", ok, err)
	}

	created, err := repo.Set(ctx, 7, "extra_options", true)
	if err != nil {
		t.Fatalf("Set() create error = %v", err)
	}
	if created.Key != overrides.EntryKey(7, "extra_options") {
		t.Fatalf("unexpected key %q", created.Key)
	}
	if hidden, ok, err := repo.Get(ctx, 7, "extra_options"); err != nil || !ok || !hidden {
		t.Fatalf("expected stored hidden override, got hidden=%v ok=%v err=%v", hidden, ok, err)
	}

	updated, err := repo.Set(ctx, 7, "extra_options", false)
	if err != nil {
		t.Fatalf("Set() update error = %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected update in place, got ids %s and %s", created.ID, updated.ID)
	}
	if hidden, ok, err := repo.Get(ctx, 7, "extra_options"); err != nil || !ok || hidden {
		t.Fatalf("expected updated override to be visible, got hidden=%v ok=%v err=%v", hidden, ok, err)
	}

	if _, err := repo.Set(ctx, 7, "truncate_conditioning", true); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := repo.Set(ctx, 8, "extra_options", true); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	list, err := repo.ListByNode(ctx, 7)
	if err != nil {
		t.Fatalf("ListByNode() error = %v", err)
	}
	if len(list) != 2 || list[0].WidgetName != "extra_options" || list[1].WidgetName != "truncate_conditioning" {
		t.Fatalf("unexpected list %+v", list)
	}

	removed, err := repo.DeleteByNode(ctx, 7)
	if err != nil || removed != 2 {
		t.Fatalf("expected two removals, got %d err=%v", removed, err)
	}
	if _, ok, err := repo.Get(ctx, 7, "extra_options"); err != nil || ok {
		t.Fatalf("expected override removed with its node, got ok=%v err=%v", ok, err)
	}
	if _, ok, _ := repo.Get(ctx, 8, "extra_options"); !ok {
		t.Fatalf("expected other node override to survive")
	}
}

func TestBunRepository_Lifecycle(t *testing.T) {
	db := newOverridesDB(t, "overrides_bun_lifecycle")
	exerciseRepository(t, overrides.NewBunRepository(db))
}

func TestBunRepository_WithCache(t *testing.T) {
	db := newOverridesDB(t, "overrides_bun_cache")

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	exerciseRepository(t, overrides.NewBunRepositoryWithCache(db, cacheSvc, repocache.NewDefaultKeySerializer()))
}

func TestMemoryRepository_MatchesBunBehaviour(t *testing.T) {
	exerciseRepository(t, overrides.NewMemoryRepository())
}

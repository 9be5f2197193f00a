package overrides

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// NewEntryRepository creates the go-repository-bun repository for overrides,
// identified by their override key.
func NewEntryRepository(db *bun.DB) repository.Repository[*Entry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Entry]{
		NewRecord:          func() *Entry { return &Entry{} },
		GetID:              func(e *Entry) uuid.UUID { return e.ID },
		SetID:              func(e *Entry, id uuid.UUID) { e.ID = id },
		GetIdentifier:      func() string { return "override_key" },
		GetIdentifierValue: func(e *Entry) string { return e.Key },
	})
}

// BunRepository persists overrides across sessions.
type BunRepository struct {
	repo repository.Repository[*Entry]
	opts options
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository creates an override repository without caching.
func NewBunRepository(db *bun.DB, opts ...Option) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil, opts...)
}

// NewBunRepositoryWithCache creates an override repository whose reads go
// through go-repository-cache when a cache service is supplied.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer, opts ...Option) *BunRepository {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	base := NewEntryRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base, opts: o}
}

// CreateSchema creates the overrides table when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*Entry)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (r *BunRepository) Get(ctx context.Context, nodeID interfaces.NodeID, widget string) (bool, bool, error) {
	entry, err := r.find(ctx, nodeID, strings.TrimSpace(widget))
	if err != nil || entry == nil {
		return false, false, err
	}
	return entry.Hidden, true, nil
}

func (r *BunRepository) Set(ctx context.Context, nodeID interfaces.NodeID, widget string, hidden bool) (Entry, error) {
	widget, err := normalizeWidget(nodeID, widget)
	if err != nil {
		return Entry{}, err
	}
	existing, err := r.find(ctx, nodeID, widget)
	if err != nil {
		return Entry{}, err
	}
	now := r.opts.now()

	if existing == nil {
		record, err := r.repo.Create(ctx, &Entry{
			ID:         r.opts.newID(),
			Key:        EntryKey(nodeID, widget),
			NodeID:     nodeID,
			WidgetName: widget,
			Hidden:     hidden,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return Entry{}, fmt.Errorf("overrides: create: %w", err)
		}
		return *record, nil
	}

	existing.Hidden = hidden
	existing.UpdatedAt = now
	record, err := r.repo.Update(ctx, existing,
		repository.UpdateByID(existing.ID.String()),
		repository.UpdateColumns("hidden", "updated_at"),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("overrides: update: %w", err)
	}
	return *record, nil
}

// ListByNode returns the node's overrides sorted by widget name.
func (r *BunRepository) ListByNode(ctx context.Context, nodeID interfaces.NodeID) ([]Entry, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.node_id = ?", nodeID).OrderExpr("?TableAlias.widget_name ASC")
	}))
	if err != nil {
		return nil, fmt.Errorf("overrides: list: %w", err)
	}
	out := make([]Entry, 0, len(records))
	for _, record := range records {
		out = append(out, *record)
	}
	return out, nil
}

// DeleteByNode deletes entries one by one so cached lookups are invalidated.
func (r *BunRepository) DeleteByNode(ctx context.Context, nodeID interfaces.NodeID) (int, error) {
	entries, err := r.ListByNode(ctx, nodeID)
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := range entries {
		if err := r.repo.Delete(ctx, &entries[i]); err != nil {
			return removed, fmt.Errorf("overrides: delete %s: %w", entries[i].Key, err)
		}
		removed++
	}
	return removed, nil
}

func (r *BunRepository) find(ctx context.Context, nodeID interfaces.NodeID, widget string) (*Entry, error) {
	record, err := r.repo.GetByIdentifier(ctx, EntryKey(nodeID, widget))
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("overrides: get %s: %w", EntryKey(nodeID, widget), err)
	}
	return record, nil
}

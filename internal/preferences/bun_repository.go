package preferences

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

var errNoDatabase = errors.New("preferences: bun repository requires a database")

// BunRepository persists preference values in the nodevis_preferences table.
type BunRepository struct {
	db          *bun.DB
	now         func() time.Time
	broadcaster *changeBroadcaster
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository constructs a Bun-backed repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db:          db,
		now:         func() time.Time { return time.Now().UTC() },
		broadcaster: newChangeBroadcaster(),
	}
}

// CreateSchema creates the preferences table when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*Record)(nil)).IfNotExists().Exec(ctx)
	return err
}

// Get returns the persisted value or ErrPreferenceNotFound.
func (r *BunRepository) Get(ctx context.Context, key string) (bool, error) {
	record, err := r.find(ctx, key)
	if err != nil {
		return false, err
	}
	return record.Value, nil
}

// Upsert creates or updates the persisted value.
func (r *BunRepository) Upsert(ctx context.Context, key string, value bool) (Record, error) {
	if r.db == nil {
		return Record{}, errNoDatabase
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Record{}, ErrKeyRequired
	}
	existing, err := r.find(ctx, key)
	created := errors.Is(err, ErrPreferenceNotFound)
	if err != nil && !created {
		return Record{}, err
	}
	if !created && existing.Value == value {
		return existing, nil
	}

	record := Record{Key: key, Value: value, UpdatedAt: r.now()}
	if created {
		if _, err := r.db.NewInsert().Model(&record).Exec(ctx); err != nil {
			return Record{}, err
		}
	} else {
		if _, err := r.db.NewUpdate().
			Model(&record).
			Column("value", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return Record{}, err
		}
	}

	changeType := ChangeUpdated
	if created {
		changeType = ChangeCreated
	}
	r.broadcaster.Broadcast(ChangeEvent{Type: changeType, Key: key, Value: value, Previous: existing.Value})
	return record, nil
}

// List returns persisted values sorted by key.
func (r *BunRepository) List(ctx context.Context) ([]Record, error) {
	if r.db == nil {
		return nil, errNoDatabase
	}
	var records []Record
	if err := r.db.NewSelect().Model(&records).OrderExpr("key ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete clears a persisted value.
func (r *BunRepository) Delete(ctx context.Context, key string) error {
	existing, err := r.find(ctx, key)
	if err != nil {
		return err
	}
	if _, err := r.db.NewDelete().Model(&existing).WherePK().Exec(ctx); err != nil {
		return err
	}
	r.broadcaster.Broadcast(ChangeEvent{Type: ChangeDeleted, Key: key, Previous: existing.Value})
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

func (r *BunRepository) find(ctx context.Context, key string) (Record, error) {
	if r.db == nil {
		return Record{}, errNoDatabase
	}
	var record Record
	if err := r.db.NewSelect().Model(&record).Where("key = ?", key).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrPreferenceNotFound
		}
		return Record{}, err
	}
	return record, nil
}

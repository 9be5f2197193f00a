package preferences

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryRepository keeps preference values for the process lifetime.
type MemoryRepository struct {
	mu          sync.RWMutex
	records     map[string]Record
	now         func() time.Time
	broadcaster *changeBroadcaster
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:     make(map[string]Record),
		now:         func() time.Time { return time.Now().UTC() },
		broadcaster: newChangeBroadcaster(),
	}
}

// Get returns the stored value or ErrPreferenceNotFound.
func (r *MemoryRepository) Get(_ context.Context, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[key]
	if !ok {
		return false, ErrPreferenceNotFound
	}
	return record.Value, nil
}

// Upsert stores the value, emitting a change event when it differs.
func (r *MemoryRepository) Upsert(_ context.Context, key string, value bool) (Record, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Record{}, ErrKeyRequired
	}
	r.mu.Lock()
	previous, existed := r.records[key]
	record := Record{Key: key, Value: value, UpdatedAt: r.now()}
	if existed && previous.Value == value {
		r.mu.Unlock()
		return previous, nil
	}
	r.records[key] = record
	r.mu.Unlock()

	changeType := ChangeUpdated
	if !existed {
		changeType = ChangeCreated
	}
	r.broadcaster.Broadcast(ChangeEvent{Type: changeType, Key: key, Value: value, Previous: previous.Value})
	return record, nil
}

// List returns stored values sorted by key.
func (r *MemoryRepository) List(context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record)
	}
	slices.SortFunc(out, func(a, b Record) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}

// Delete clears a stored value and emits a change event.
func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	previous, ok := r.records[key]
	if !ok {
		r.mu.Unlock()
		return ErrPreferenceNotFound
	}
	delete(r.records, key)
	r.mu.Unlock()

	r.broadcaster.Broadcast(ChangeEvent{Type: ChangeDeleted, Key: key, Previous: previous.Value})
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

package overrides

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// MemoryRepository keeps overrides for the lifetime of the editor session.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[interfaces.NodeID]map[string]Entry
	opts    options
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository constructs an empty session store.
func NewMemoryRepository(opts ...Option) *MemoryRepository {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryRepository{
		entries: make(map[interfaces.NodeID]map[string]Entry),
		opts:    o,
	}
}

func (r *MemoryRepository) Get(_ context.Context, nodeID interfaces.NodeID, widget string) (bool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[nodeID][strings.TrimSpace(widget)]
	return entry.Hidden, ok, nil
}

func (r *MemoryRepository) Set(_ context.Context, nodeID interfaces.NodeID, widget string, hidden bool) (Entry, error) {
	widget, err := normalizeWidget(nodeID, widget)
	if err != nil {
		return Entry{}, err
	}
	now := r.opts.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	byWidget, ok := r.entries[nodeID]
	if !ok {
		byWidget = make(map[string]Entry)
		r.entries[nodeID] = byWidget
	}
	entry, exists := byWidget[widget]
	if !exists {
		entry = Entry{
			ID:         r.opts.newID(),
			Key:        EntryKey(nodeID, widget),
			NodeID:     nodeID,
			WidgetName: widget,
			CreatedAt:  now,
		}
	}
	entry.Hidden = hidden
	entry.UpdatedAt = now
	byWidget[widget] = entry
	return entry, nil
}

// ListByNode returns the node's overrides sorted by widget name.
func (r *MemoryRepository) ListByNode(_ context.Context, nodeID interfaces.NodeID) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byWidget := r.entries[nodeID]
	out := make([]Entry, 0, len(byWidget))
	for _, entry := range byWidget {
		out = append(out, entry)
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.WidgetName, b.WidgetName) })
	return out, nil
}

func (r *MemoryRepository) DeleteByNode(_ context.Context, nodeID interfaces.NodeID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := len(r.entries[nodeID])
	delete(r.entries, nodeID)
	return removed, nil
}

// Len returns the total number of stored overrides.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, byWidget := range r.entries {
		total += len(byWidget)
	}
	return total
}

// Package overrides stores per node instance visibility choices made through
// the node context menu. Entries are owned by their node and are deleted when
// the node is removed.
package overrides

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

var (
	// ErrWidgetRequired is returned when an override has no widget name.
	ErrWidgetRequired = errors.New("overrides: widget name is required")
	ErrNodeRequired   = errors.New("overrides: node id is required")
)

// Entry is a user choice to hide or show one widget on one node instance.
type Entry struct {
	bun.BaseModel `bun:"table:node_widget_overrides,alias:nwo"`

	ID         uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	Key        string            `bun:"override_key,notnull,unique" json:"key"`
	NodeID     interfaces.NodeID `bun:"node_id,notnull" json:"node_id"`
	WidgetName string            `bun:"widget_name,notnull" json:"widget_name"`
	Hidden     bool              `bun:"hidden" json:"hidden"`
	CreatedAt  time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Repository reads and writes overrides.
type Repository interface {
	// Get returns the override for a widget. ok is false when none exists.
	Get(ctx context.Context, nodeID interfaces.NodeID, widget string) (hidden bool, ok bool, err error)
	Set(ctx context.Context, nodeID interfaces.NodeID, widget string, hidden bool) (Entry, error)
	ListByNode(ctx context.Context, nodeID interfaces.NodeID) ([]Entry, error)
	// DeleteByNode removes every override owned by the node and reports how
	// many were removed.
	DeleteByNode(ctx context.Context, nodeID interfaces.NodeID) (int, error)
}

// Toggle flips the stored override for a widget. Without a stored entry the
// flip starts from currentHidden, the widget's effective state.
func Toggle(ctx context.Context, repo Repository, nodeID interfaces.NodeID, widget string, currentHidden bool) (Entry, error) {
	hidden, ok, err := repo.Get(ctx, nodeID, widget)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		hidden = currentHidden
	}
	return repo.Set(ctx, nodeID, widget, !hidden)
}

// EntryKey is the unique identifier of an override.
func EntryKey(nodeID interfaces.NodeID, widget string) string {
	return fmt.Sprintf("%d/%s", nodeID, widget)
}

func normalizeWidget(nodeID interfaces.NodeID, widget string) (string, error) {
	if nodeID == 0 {
		return "", ErrNodeRequired
	}
	widget = strings.TrimSpace(widget)
	if widget == "" {
		return "", ErrWidgetRequired
	}
	return widget, nil
}

// Option configures repositories.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() uuid.UUID
}

func defaultOptions() options {
	return options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.New,
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides the row id generator.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

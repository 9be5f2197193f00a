// Package preferences holds the boolean settings that drive visibility: the
// hiding kill switch, hide-by-default values for toggleable widgets, and
// settings mirrored to a remote endpoint.
package preferences

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

var (
	// ErrPreferenceNotFound indicates no value has been stored for a key.
	ErrPreferenceNotFound = errors.New("preferences: value not found")
	ErrUnknownPreference  = errors.New("preferences: preference is not registered")
	ErrKeyRequired        = errors.New("preferences: key is required")
)

// Record is one stored preference value.
type Record struct {
	bun.BaseModel `bun:"table:nodevis_preferences,alias:np"`

	Key       string    `bun:"key,pk" json:"key"`
	Value     bool      `bun:"value" json:"value"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Repository stores preference values and emits change notifications.
type Repository interface {
	Get(ctx context.Context, key string) (bool, error)
	Upsert(ctx context.Context, key string, value bool) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, key string) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates stored value change events.
type ChangeType string

const (
	// ChangeCreated indicates a value was first stored.
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports a stored value mutation.
type ChangeEvent struct {
	Type     ChangeType
	Key      string
	Value    bool
	Previous bool
}

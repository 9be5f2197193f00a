// Package hooks provides ordered handler lists keyed by name. Hosts expose one
// list per lifecycle event and extensions register into it instead of
// replacing a single callback slot, so handlers compose and registering the
// same key twice never causes a handler to run twice.
package hooks

import (
	"strings"
	"sync"
)

// Handler receives the payload emitted for an event.
type Handler[T any] func(T)

type entry[T any] struct {
	key string
	fn  Handler[T]
}

// List is an ordered collection of keyed handlers. The zero value is ready to use.
type List[T any] struct {
	mu      sync.Mutex
	entries []entry[T]
}

// Add appends fn under key. It reports false when key is empty, fn is nil, or
// the key is already registered; the existing handler keeps its position.
func (l *List[T]) Add(key string, fn Handler[T]) bool {
	key = strings.TrimSpace(key)
	if key == "" || fn == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.key == key {
			return false
		}
	}
	l.entries = append(l.entries, entry[T]{key: key, fn: fn})
	return true
}

// Remove drops the handler registered under key.
func (l *List[T]) Remove(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.key == key {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether key is registered.
func (l *List[T]) Has(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.key == key {
			return true
		}
	}
	return false
}

// Keys returns registered keys in invocation order.
func (l *List[T]) Keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		keys = append(keys, e.key)
	}
	return keys
}

// Len returns the number of registered handlers.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Emit invokes every handler in registration order. Handlers may add or remove
// entries while running; changes apply to the next Emit.
func (l *List[T]) Emit(value T) {
	l.mu.Lock()
	snapshot := make([]Handler[T], 0, len(l.entries))
	for _, e := range l.entries {
		snapshot = append(snapshot, e.fn)
	}
	l.mu.Unlock()

	for _, fn := range snapshot {
		fn(value)
	}
}

package preferences

import "sync/atomic"

// State provides a concurrency-safe view of the hiding kill switch.
type State struct {
	hiding atomic.Bool
}

// NewState constructs a state seeded with the kill switch value.
func NewState(hidingEnabled bool) *State {
	st := &State{}
	st.hiding.Store(hidingEnabled)
	return st
}

// HidingEnabled reports whether widgets may be hidden at all.
func (s *State) HidingEnabled() bool {
	if s == nil {
		return true
	}
	return s.hiding.Load()
}

// SetHidingEnabled updates the kill switch.
func (s *State) SetHidingEnabled(enabled bool) {
	if s == nil {
		return
	}
	s.hiding.Store(enabled)
}

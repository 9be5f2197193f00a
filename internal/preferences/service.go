package preferences

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-nodevis/internal/logging"
	"github.com/goliatone/go-nodevis/pkg/hooks"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// Change is delivered to OnChange handlers after a value takes effect.
type Change struct {
	Key      string
	Value    bool
	Previous bool
}

// Service owns registered preference definitions and their current values.
type Service struct {
	mu        sync.RWMutex
	defs      map[string]Definition
	order     []string
	values    map[string]bool
	handlers  map[string]*hooks.List[Change]
	anyChange hooks.List[Change]

	repo   Repository
	sink   Sink
	state  *State
	logger interfaces.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithSink routes Remote preferences through sink.
func WithSink(sink Sink) ServiceOption {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithState shares the kill switch state with other components.
func WithState(state *State) ServiceOption {
	return func(s *Service) {
		if state != nil {
			s.state = state
		}
	}
}

// NewService constructs a service backed by repo. A nil repo keeps values in memory.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	if repo == nil {
		repo = NewMemoryRepository()
	}
	s := &Service{
		defs:     make(map[string]Definition),
		values:   make(map[string]bool),
		handlers: make(map[string]*hooks.List[Change]),
		repo:     repo,
		state:    NewState(true),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds or replaces a definition. Re-registering keeps any value
// already set.
func (s *Service) Register(def Definition) error {
	def.Key = strings.TrimSpace(def.Key)
	if def.Key == "" {
		return ErrKeyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.defs[def.Key]; !exists {
		s.order = append(s.order, def.Key)
	}
	s.defs[def.Key] = def
	if def.Key == KeyHideWidgets {
		if _, set := s.values[def.Key]; !set {
			s.state.SetHidingEnabled(def.Default)
		}
	}
	return nil
}

// Definitions returns registered definitions in registration order.
func (s *Service) Definitions() []Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Definition, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.defs[key])
	}
	return out
}

// Definition returns the definition registered under key.
func (s *Service) Definition(key string) (Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.defs[key]
	return def, ok
}

// Value returns the current value, falling back to the definition default.
// Unknown keys read as false.
func (s *Service) Value(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.valueLocked(key)
}

// Lookup reports the value together with whether key is registered.
func (s *Service) Lookup(key string) (bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.defs[key]; !ok {
		return false, false
	}
	return s.valueLocked(key), true
}

func (s *Service) valueLocked(key string) bool {
	if value, ok := s.values[key]; ok {
		return value
	}
	return s.defs[key].Default
}

// HidingEnabled reports the kill switch.
func (s *Service) HidingEnabled() bool {
	return s.state.HidingEnabled()
}

// State exposes the shared kill switch state.
func (s *Service) State() *State {
	return s.state
}

// Set stores a new value. Remote preferences are pushed to the sink first;
// when the push fails the value is left unchanged and the error returned.
func (s *Service) Set(ctx context.Context, key string, value bool) error {
	key = strings.TrimSpace(key)
	def, ok := s.Definition(key)
	if !ok {
		return ErrUnknownPreference
	}
	if s.Value(key) == value {
		return nil
	}
	logger := logging.WithFields(s.logger, map[string]any{"key": key, "value": value})

	if def.Remote && s.sink != nil {
		if err := s.sink.Push(ctx, def.remoteName(), value); err != nil {
			logger.Error("preferences.remote.failed", "error", err)
			return err
		}
	}
	if _, err := s.repo.Upsert(ctx, key, value); err != nil {
		logger.Error("preferences.store.failed", "error", err)
		return err
	}

	s.mu.Lock()
	previous := s.valueLocked(key)
	s.values[key] = value
	if key == KeyHideWidgets {
		s.state.SetHidingEnabled(value)
	}
	list := s.handlers[key]
	s.mu.Unlock()

	if previous == value {
		return nil
	}
	logger.Debug("preferences.changed", "previous", previous)
	change := Change{Key: key, Value: value, Previous: previous}
	if list != nil {
		list.Emit(change)
	}
	s.anyChange.Emit(change)
	return nil
}

// Load reads stored values for registered keys. Stored values for unknown
// keys are ignored.
func (s *Service) Load(ctx context.Context) error {
	records, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		if _, ok := s.defs[record.Key]; !ok {
			continue
		}
		s.values[record.Key] = record.Value
		if record.Key == KeyHideWidgets {
			s.state.SetHidingEnabled(record.Value)
		}
	}
	return nil
}

// OnChange registers fn for changes to key under handlerKey. Registering the
// same handlerKey twice for a key is a no-op and returns false.
func (s *Service) OnChange(key, handlerKey string, fn hooks.Handler[Change]) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	s.mu.Lock()
	list, ok := s.handlers[key]
	if !ok {
		list = &hooks.List[Change]{}
		s.handlers[key] = list
	}
	s.mu.Unlock()
	return list.Add(handlerKey, fn)
}

// OnAnyChange registers fn for changes to every key.
func (s *Service) OnAnyChange(handlerKey string, fn hooks.Handler[Change]) bool {
	return s.anyChange.Add(handlerKey, fn)
}

// Subscribe streams repository change events until ctx ends.
func (s *Service) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.repo.Subscribe(ctx)
}

// Reset clears a stored value so the default applies again.
func (s *Service) Reset(ctx context.Context, key string) error {
	if _, ok := s.Definition(key); !ok {
		return ErrUnknownPreference
	}
	if err := s.repo.Delete(ctx, key); err != nil && !errors.Is(err, ErrPreferenceNotFound) {
		return err
	}
	s.mu.Lock()
	previous := s.valueLocked(key)
	delete(s.values, key)
	current := s.valueLocked(key)
	if key == KeyHideWidgets {
		s.state.SetHidingEnabled(current)
	}
	list := s.handlers[key]
	s.mu.Unlock()

	if previous != current {
		change := Change{Key: key, Value: current, Previous: previous}
		if list != nil {
			list.Emit(change)
		}
		s.anyChange.Emit(change)
	}
	return nil
}

// Package logtest provides an in-memory logger that records entries so tests
// can assert on emitted events.
package logtest

import (
	"context"
	"maps"
	"sync"

	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// Entry is one recorded log call.
type Entry struct {
	Level  string
	Msg    string
	Fields map[string]any
	Args   []any
}

// Recorder implements Logger, FieldsLogger and LoggerProvider. Child loggers
// share the parent's entry sink.
type Recorder struct {
	sink   *sink
	fields map[string]any
}

type sink struct {
	mu      sync.Mutex
	entries []Entry
	names   []string
}

var (
	_ interfaces.Logger         = (*Recorder)(nil)
	_ interfaces.FieldsLogger   = (*Recorder)(nil)
	_ interfaces.LoggerProvider = (*Recorder)(nil)
)

// New constructs an empty recorder.
func New() *Recorder {
	return &Recorder{sink: &sink{}}
}

func (r *Recorder) Trace(msg string, args ...any) { r.record("trace", msg, args) }
func (r *Recorder) Debug(msg string, args ...any) { r.record("debug", msg, args) }
func (r *Recorder) Info(msg string, args ...any)  { r.record("info", msg, args) }
func (r *Recorder) Warn(msg string, args ...any)  { r.record("warn", msg, args) }
func (r *Recorder) Error(msg string, args ...any) { r.record("error", msg, args) }
func (r *Recorder) Fatal(msg string, args ...any) { r.record("fatal", msg, args) }

func (r *Recorder) WithFields(fields map[string]any) interfaces.Logger {
	merged := maps.Clone(r.fields)
	if merged == nil {
		merged = map[string]any{}
	}
	maps.Copy(merged, fields)
	return &Recorder{sink: r.sink, fields: merged}
}

func (r *Recorder) WithContext(context.Context) interfaces.Logger {
	return r
}

// GetLogger records the requested name and returns a child sharing the sink.
func (r *Recorder) GetLogger(name string) interfaces.Logger {
	r.sink.mu.Lock()
	r.sink.names = append(r.sink.names, name)
	r.sink.mu.Unlock()
	return &Recorder{sink: r.sink, fields: maps.Clone(r.fields)}
}

// Entries returns a snapshot of every recorded entry.
func (r *Recorder) Entries() []Entry {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	return append([]Entry(nil), r.sink.entries...)
}

// Names returns the logger names requested through GetLogger.
func (r *Recorder) Names() []string {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	return append([]string(nil), r.sink.names...)
}

// Find returns the first entry with the given message.
func (r *Recorder) Find(msg string) (Entry, bool) {
	for _, entry := range r.Entries() {
		if entry.Msg == msg {
			return entry, true
		}
	}
	return Entry{}, false
}

func (r *Recorder) record(level, msg string, args []any) {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	r.sink.entries = append(r.sink.entries, Entry{
		Level:  level,
		Msg:    msg,
		Fields: maps.Clone(r.fields),
		Args:   append([]any(nil), args...),
	})
}

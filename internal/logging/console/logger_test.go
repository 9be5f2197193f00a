package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-nodevis/internal/logging"
	"github.com/goliatone/go-nodevis/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
	})

	logger := provider.GetLogger("nodevis.toggle")
	logger = logging.WithFields(logger, map[string]any{"module": "nodevis.toggle"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"event": "configure",
	})
	logger = logger.WithContext(ctx)

	logger.Info("toggle.applied",
		"widget", "alpha",
		"show", false,
		"height", 98.5,
	)

	got := strings.TrimSpace(buf.String())
	want := "2024-03-14T15:09:26.535897Z INFO toggle.applied event=configure height=98.5 logger=nodevis.toggle module=nodevis.toggle show=false widget=alpha"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("nodevis.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
}

func TestConsoleLogger_QuotesAndPositionalArgs(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return time.Unix(0, 0) },
	})

	provider.GetLogger("x").Error("preferences.remote.failed", "error", errors.New("status 503 from sink"), "dangling")

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, `error="status 503 from sink"`) {
		t.Fatalf("expected quoted error, got %s", line)
	}
	if !strings.Contains(line, "field_1=dangling") {
		t.Fatalf("expected positional field, got %s", line)
	}
}

func TestParseLevel(t *testing.T) {
	if level, ok := console.ParseLevel("WARNING"); !ok || level != console.LevelWarn {
		t.Fatalf("expected warn, got %v %v", level, ok)
	}
	if _, ok := console.ParseLevel("verbose"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
}

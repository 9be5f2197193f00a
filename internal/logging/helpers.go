package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

const (
	fieldNodeID     = "node_id"
	fieldNodeType   = "node_type"
	fieldWidgetName = "widget"
)

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return logger
}

// WithNode annotates the logger with the node instance id and type.
func WithNode(logger interfaces.Logger, node interfaces.Node) interfaces.Logger {
	if node == nil {
		return logger
	}
	return WithFields(logger, map[string]any{
		fieldNodeID:   int64(node.ID()),
		fieldNodeType: node.Type(),
	})
}

// WithWidget annotates the logger with a widget name. Blank names are ignored.
func WithWidget(logger interfaces.Logger, name string) interfaces.Logger {
	name = strings.TrimSpace(name)
	if name == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldWidgetName: name})
}

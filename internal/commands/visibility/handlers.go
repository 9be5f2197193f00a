// Package visibilitycmd exposes the visibility runtime's user actions as
// go-command messages so hosts can dispatch them from menus, shortcuts or
// remote requests.
package visibilitycmd

import (
	"context"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-nodevis/internal/commands"
	"github.com/goliatone/go-nodevis/internal/logging"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

const (
	refreshNodeOperation   = "visibility.refresh_node"
	refreshAllOperation    = "visibility.refresh_all"
	toggleWidgetOperation  = "visibility.toggle_widget"
	setPreferenceOperation = "visibility.set_preference"
)

// Binder is the part of the binding layer the handlers drive.
type Binder interface {
	RefreshByID(ctx context.Context, id interfaces.NodeID) error
	RefreshAll(ctx context.Context) error
	ToggleWidget(ctx context.Context, id interfaces.NodeID, widget string) (bool, error)
}

// PreferenceSetter stores preference values.
type PreferenceSetter interface {
	Set(ctx context.Context, key string, value bool) error
}

var (
	_ command.Commander[RefreshNodeCommand]   = (*RefreshNodeHandler)(nil)
	_ command.Commander[RefreshAllCommand]    = (*RefreshAllHandler)(nil)
	_ command.Commander[ToggleWidgetCommand]  = (*ToggleWidgetHandler)(nil)
	_ command.Commander[SetPreferenceCommand] = (*SetPreferenceHandler)(nil)
)

// RefreshNodeHandler executes RefreshNodeCommand.
type RefreshNodeHandler struct {
	inner *commands.Handler[RefreshNodeCommand]
}

// NewRefreshNodeHandler binds the handler to binder.
func NewRefreshNodeHandler(binder Binder, logger interfaces.Logger, opts ...commands.HandlerOption[RefreshNodeCommand]) *RefreshNodeHandler {
	exec := func(ctx context.Context, msg RefreshNodeCommand) error {
		return binder.RefreshByID(ctx, interfaces.NodeID(msg.NodeID))
	}
	handlerOpts := []commands.HandlerOption[RefreshNodeCommand]{
		commands.WithLogger[RefreshNodeCommand](logger),
		commands.WithOperation[RefreshNodeCommand](refreshNodeOperation),
		commands.WithMessageFields(func(msg RefreshNodeCommand) map[string]any {
			return map[string]any{"node_id": msg.NodeID}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RefreshNodeCommand](logger)),
	}
	return &RefreshNodeHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[RefreshNodeCommand].
func (h *RefreshNodeHandler) Execute(ctx context.Context, msg RefreshNodeCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RefreshAllHandler executes RefreshAllCommand.
type RefreshAllHandler struct {
	inner *commands.Handler[RefreshAllCommand]
}

// NewRefreshAllHandler binds the handler to binder.
func NewRefreshAllHandler(binder Binder, logger interfaces.Logger, opts ...commands.HandlerOption[RefreshAllCommand]) *RefreshAllHandler {
	exec := func(ctx context.Context, _ RefreshAllCommand) error {
		return binder.RefreshAll(ctx)
	}
	handlerOpts := []commands.HandlerOption[RefreshAllCommand]{
		commands.WithLogger[RefreshAllCommand](logger),
		commands.WithOperation[RefreshAllCommand](refreshAllOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[RefreshAllCommand](logger)),
	}
	return &RefreshAllHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[RefreshAllCommand].
func (h *RefreshAllHandler) Execute(ctx context.Context, msg RefreshAllCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ToggleWidgetHandler executes ToggleWidgetCommand.
type ToggleWidgetHandler struct {
	inner *commands.Handler[ToggleWidgetCommand]
}

// NewToggleWidgetHandler binds the handler to binder.
func NewToggleWidgetHandler(binder Binder, logger interfaces.Logger, opts ...commands.HandlerOption[ToggleWidgetCommand]) *ToggleWidgetHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(ctx context.Context, msg ToggleWidgetCommand) error {
		hidden, err := binder.ToggleWidget(ctx, interfaces.NodeID(msg.NodeID), msg.Widget)
		if err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{
			"node_id": msg.NodeID,
			"widget":  msg.Widget,
			"hidden":  hidden,
		}).Debug("visibility.command.toggle_widget.completed")
		return nil
	}
	handlerOpts := []commands.HandlerOption[ToggleWidgetCommand]{
		commands.WithLogger[ToggleWidgetCommand](logger),
		commands.WithOperation[ToggleWidgetCommand](toggleWidgetOperation),
		commands.WithMessageFields(func(msg ToggleWidgetCommand) map[string]any {
			return map[string]any{"node_id": msg.NodeID, "widget": msg.Widget}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ToggleWidgetCommand](logger)),
	}
	return &ToggleWidgetHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[ToggleWidgetCommand].
func (h *ToggleWidgetHandler) Execute(ctx context.Context, msg ToggleWidgetCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SetPreferenceHandler executes SetPreferenceCommand.
type SetPreferenceHandler struct {
	inner *commands.Handler[SetPreferenceCommand]
}

// NewSetPreferenceHandler binds the handler to a preference store.
func NewSetPreferenceHandler(prefs PreferenceSetter, logger interfaces.Logger, opts ...commands.HandlerOption[SetPreferenceCommand]) *SetPreferenceHandler {
	exec := func(ctx context.Context, msg SetPreferenceCommand) error {
		return prefs.Set(ctx, msg.Key, msg.Value)
	}
	handlerOpts := []commands.HandlerOption[SetPreferenceCommand]{
		commands.WithLogger[SetPreferenceCommand](logger),
		commands.WithOperation[SetPreferenceCommand](setPreferenceOperation),
		commands.WithMessageFields(func(msg SetPreferenceCommand) map[string]any {
			return map[string]any{"key": msg.Key, "value": msg.Value}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SetPreferenceCommand](logger)),
	}
	return &SetPreferenceHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[SetPreferenceCommand].
func (h *SetPreferenceHandler) Execute(ctx context.Context, msg SetPreferenceCommand) error {
	return h.inner.Execute(ctx, msg)
}

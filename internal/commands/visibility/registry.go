package visibilitycmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-nodevis/internal/commands"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// CommandRegistry is the registration contract of a go-command registry.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the handlers built by RegisterCommands.
type HandlerSet struct {
	RefreshNode   *RefreshNodeHandler
	RefreshAll    *RefreshAllHandler
	ToggleWidget  *ToggleWidgetHandler
	SetPreference *SetPreferenceHandler
}

// RegisterCommands builds the visibility handlers and registers them with reg
// when it is non-nil.
func RegisterCommands(reg CommandRegistry, binder Binder, prefs PreferenceSetter, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if binder == nil {
		return nil, errors.New("visibility command registration: binder is nil")
	}
	if prefs == nil {
		return nil, errors.New("visibility command registration: preferences are nil")
	}

	logger := commands.CommandLogger(provider, "visibility")
	set := &HandlerSet{
		RefreshNode:   NewRefreshNodeHandler(binder, logger),
		RefreshAll:    NewRefreshAllHandler(binder, logger),
		ToggleWidget:  NewToggleWidgetHandler(binder, logger),
		SetPreference: NewSetPreferenceHandler(prefs, logger),
	}

	if reg != nil {
		for _, handler := range []any{set.RefreshNode, set.RefreshAll, set.ToggleWidget, set.SetPreference} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// MenuActions runs node context menu entries through the handler set, so
// menu clicks get the same validation, timeout and logging as dispatched
// commands.
type MenuActions struct {
	set *HandlerSet
}

// MenuActions returns the context menu executor backed by s.
func (s *HandlerSet) MenuActions() MenuActions {
	return MenuActions{set: s}
}

// Refresh executes RefreshNodeCommand for id.
func (a MenuActions) Refresh(ctx context.Context, id interfaces.NodeID) error {
	return a.set.RefreshNode.Execute(ctx, RefreshNodeCommand{NodeID: int64(id)})
}

// Toggle executes ToggleWidgetCommand for the widget on id.
func (a MenuActions) Toggle(ctx context.Context, id interfaces.NodeID, widget string) error {
	return a.set.ToggleWidget.Execute(ctx, ToggleWidgetCommand{NodeID: int64(id), Widget: widget})
}

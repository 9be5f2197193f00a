package binding

import (
	"context"

	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

// MenuKeyRefresh is the context menu key of the refresh action.
const MenuKeyRefresh = "nodevis.refresh"

const menuTogglePrefix = "nodevis.toggle."

// MenuToggleKey returns the context menu key of the toggle action for widget.
func MenuToggleKey(widget string) string {
	return menuTogglePrefix + widget
}

// MenuActions runs the node context menu entries. The container routes them
// through the visibility command handlers; without one the binder calls
// itself.
type MenuActions interface {
	Refresh(ctx context.Context, id interfaces.NodeID) error
	Toggle(ctx context.Context, id interfaces.NodeID, widget string) error
}

// SetMenuActions replaces the executor of context menu entries. Passing nil
// restores the binder's own actions.
func (b *Binder) SetMenuActions(actions MenuActions) {
	b.mu.Lock()
	b.actions = actions
	b.mu.Unlock()
}

func (b *Binder) menuActions() MenuActions {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.actions != nil {
		return b.actions
	}
	return directActions{b}
}

type directActions struct {
	binder *Binder
}

func (a directActions) Refresh(ctx context.Context, id interfaces.NodeID) error {
	return a.binder.RefreshByID(ctx, id)
}

func (a directActions) Toggle(ctx context.Context, id interfaces.NodeID, widget string) error {
	_, err := a.binder.ToggleWidget(ctx, id, widget)
	return err
}

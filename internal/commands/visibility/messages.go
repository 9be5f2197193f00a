package visibilitycmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	refreshNodeMessageType   = "nodevis.visibility.refresh_node"
	refreshAllMessageType    = "nodevis.visibility.refresh_all"
	toggleWidgetMessageType  = "nodevis.visibility.toggle_widget"
	setPreferenceMessageType = "nodevis.visibility.set_preference"
)

// RefreshNodeCommand re-runs every rule on one attached node, the same as
// the "refresh" context menu action.
type RefreshNodeCommand struct {
	NodeID int64 `json:"node_id"`
}

// Type implements command.Message.
func (RefreshNodeCommand) Type() string { return refreshNodeMessageType }

// Validate ensures a node id is present.
func (cmd RefreshNodeCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.NodeID, validation.By(positiveID)),
	)
}

// RefreshAllCommand re-runs every rule on every attached node.
type RefreshAllCommand struct{}

// Type implements command.Message.
func (RefreshAllCommand) Type() string { return refreshAllMessageType }

// ToggleWidgetCommand flips the per-instance override of a toggleable widget.
type ToggleWidgetCommand struct {
	NodeID int64  `json:"node_id"`
	Widget string `json:"widget"`
}

// Type implements command.Message.
func (ToggleWidgetCommand) Type() string { return toggleWidgetMessageType }

// Validate ensures node and widget are present.
func (cmd ToggleWidgetCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.NodeID, validation.By(positiveID)),
		validation.Field(&cmd.Widget, validation.By(nonBlank("nodevis.visibility.widget_required", "widget is required"))),
	)
}

// SetPreferenceCommand stores a boolean preference.
type SetPreferenceCommand struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// Type implements command.Message.
func (SetPreferenceCommand) Type() string { return setPreferenceMessageType }

// Validate ensures the key is present.
func (cmd SetPreferenceCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Key, validation.By(nonBlank("nodevis.visibility.key_required", "preference key is required"))),
	)
}

func positiveID(value any) error {
	if id, _ := value.(int64); id <= 0 {
		return validation.NewError("nodevis.visibility.node_id_required", "node id must be positive")
	}
	return nil
}

func nonBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}

package preferences

import (
	"strings"

	"github.com/goliatone/go-nodevis/internal/rules"
)

const (
	// KeyHideWidgets is the global kill switch. When false every managed
	// widget is shown.
	KeyHideWidgets = "nodevis.hideWidgets"
	// KeyUpdatedTimestepScaling is mirrored to the remote settings endpoint.
	KeyUpdatedTimestepScaling = "nodevis.updatedTimestepScaling"

	remoteTimestepScaling = "updatedTimestepScaling"
)

// Definition describes one boolean preference.
type Definition struct {
	Key     string
	Label   string
	Default bool
	// Remote marks preferences whose new value must be accepted by the
	// remote sink before it takes effect locally.
	Remote bool
	// RemoteName is the setting name sent to the sink. Defaults to the key.
	RemoteName string
}

func (d Definition) remoteName() string {
	if name := strings.TrimSpace(d.RemoteName); name != "" {
		return name
	}
	return d.Key
}

// BuiltinDefinitions returns the kill switch, the remote timestep setting and
// one hide-by-default preference per toggleable widget.
func BuiltinDefinitions(toggleables []rules.ToggleableWidget) []Definition {
	defs := []Definition{
		{
			Key:     KeyHideWidgets,
			Label:   "Hide widgets that are not in use",
			Default: true,
		},
		{
			Key:        KeyUpdatedTimestepScaling,
			Label:      "Use updated timestep scaling",
			Default:    false,
			Remote:     true,
			RemoteName: remoteTimestepScaling,
		},
	}
	for _, spec := range toggleables {
		key := strings.TrimSpace(spec.SettingKey)
		if key == "" {
			key = rules.SettingKeyPrefix + spec.WidgetName
		}
		defs = append(defs, Definition{
			Key:     key,
			Label:   spec.Label,
			Default: spec.DefaultHidden,
		})
	}
	return defs
}

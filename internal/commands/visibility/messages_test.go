package visibilitycmd

import "testing"

func TestMessageValidation(t *testing.T) {
	cases := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{"refresh ok", RefreshNodeCommand{NodeID: 1}, false},
		{"refresh missing id", RefreshNodeCommand{}, true},
		{"refresh negative id", RefreshNodeCommand{NodeID: -4}, true},
		{"toggle ok", ToggleWidgetCommand{NodeID: 2, Widget: "extra_options"}, false},
		{"toggle blank widget", ToggleWidgetCommand{NodeID: 2, Widget: "  "}, true},
		{"toggle missing node", ToggleWidgetCommand{Widget: "extra_options"}, true},
		{"preference ok", SetPreferenceCommand{Key: "nodevis.hideWidgets"}, false},
		{"preference blank key", SetPreferenceCommand{Key: ""}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestMessageTypes(t *testing.T) {
	if got := (RefreshNodeCommand{}).Type(); got != "nodevis.visibility.refresh_node" {
		t.Fatalf("unexpected type %q", got)
	}
	if got := (ToggleWidgetCommand{}).Type(); got != "nodevis.visibility.toggle_widget" {
		t.Fatalf("unexpected type %q", got)
	}
	if got := (SetPreferenceCommand{}).Type(); got != "nodevis.visibility.set_preference" {
		t.Fatalf("unexpected type %q", got)
	}
	if got := (RefreshAllCommand{}).Type(); got != "nodevis.visibility.refresh_all" {
		t.Fatalf("unexpected type %q", got)
	}
}

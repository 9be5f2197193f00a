package commands

import (
	"strings"

	"github.com/goliatone/go-nodevis/internal/logging"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

const (
	commandModuleRoot   = "nodevis.commands"
	defaultCommandGroup = "visibility"
)

// CommandLogger returns the logger for a group of visibility commands. Every
// entry carries the group and the hiding tier the commands act on, so a menu
// toggle shows up next to the binding's own override entries.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.ToLower(strings.TrimSpace(group))
	if group == "" {
		group = defaultCommandGroup
	}
	return logging.WithFields(logging.ModuleLogger(provider, commandModuleRoot+"."+group), map[string]any{
		"command_group": group,
		"tier":          tierForGroup(group),
	})
}

// tierForGroup names the visibility tier a command group writes to.
func tierForGroup(group string) string {
	switch group {
	case "preferences":
		return "default"
	case defaultCommandGroup:
		return "override"
	default:
		return "none"
	}
}

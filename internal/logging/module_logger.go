package logging

import (
	"context"

	"github.com/goliatone/go-nodevis/pkg/interfaces"
)

const (
	rootModule        = "nodevis"
	bindingModule     = "nodevis.binding"
	toggleModule      = "nodevis.toggle"
	preferencesModule = "nodevis.preferences"
	overridesModule   = "nodevis.overrides"
	rulesModule       = "nodevis.rules"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// BindingLogger returns the logger for node lifecycle binding.
func BindingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, bindingModule)
}

// ToggleLogger returns the logger for the toggle engine.
func ToggleLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, toggleModule)
}

// PreferencesLogger returns the logger for preference storage and the remote sink.
func PreferencesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, preferencesModule)
}

// OverridesLogger returns the logger for the override store.
func OverridesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, overridesModule)
}

// RulesLogger returns the logger for rule loading.
func RulesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rulesModule)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

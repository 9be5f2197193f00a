package nodevis

import "github.com/goliatone/go-nodevis/internal/runtimeconfig"

var (
	ErrRuleSourceRequired       = runtimeconfig.ErrRuleSourceRequired
	ErrRuleFilePathEmpty        = runtimeconfig.ErrRuleFilePathEmpty
	ErrRemoteEndpointInvalid    = runtimeconfig.ErrRemoteEndpointInvalid
	ErrRemoteTimeoutInvalid     = runtimeconfig.ErrRemoteTimeoutInvalid
	ErrStorageRequired          = runtimeconfig.ErrStorageRequired
	ErrStorageDriverUnknown     = runtimeconfig.ErrStorageDriverUnknown
	ErrCacheRequiresPersistence = runtimeconfig.ErrCacheRequiresPersistence
	ErrCacheTTLInvalid          = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config            = runtimeconfig.Config
	RulesConfig       = runtimeconfig.RulesConfig
	PreferencesConfig = runtimeconfig.PreferencesConfig
	OverridesConfig   = runtimeconfig.OverridesConfig
	StorageConfig     = runtimeconfig.StorageConfig
	CacheConfig       = runtimeconfig.CacheConfig
	Features          = runtimeconfig.Features
	LoggingConfig     = runtimeconfig.LoggingConfig
)

// DefaultConfig returns session-only defaults with the builtin sampler rules.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file layered over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

package di

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-nodevis/internal/binding"
	visibilitycmd "github.com/goliatone/go-nodevis/internal/commands/visibility"
	"github.com/goliatone/go-nodevis/internal/logging"
	"github.com/goliatone/go-nodevis/internal/logging/console"
	"github.com/goliatone/go-nodevis/internal/logging/gologger"
	"github.com/goliatone/go-nodevis/internal/overrides"
	"github.com/goliatone/go-nodevis/internal/preferences"
	"github.com/goliatone/go-nodevis/internal/rules"
	"github.com/goliatone/go-nodevis/internal/runtimeconfig"
	"github.com/goliatone/go-nodevis/internal/toggle"
	"github.com/goliatone/go-nodevis/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires the visibility runtime from a runtime config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	registry     *rules.Registry
	engine       *toggle.Engine
	overrideRepo overrides.Repository
	prefRepo     preferences.Repository
	sink         preferences.Sink
	prefs        *preferences.Service
	binder       *binding.Binder

	commandRegistry visibilitycmd.CommandRegistry
	commands        *visibilitycmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithBunDB supplies the database used when persistence is enabled. The
// container never closes a database it did not open.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache supplies the cache used in front of persisted overrides.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithRegistry replaces the registry built from the rules config. The
// registry is frozen once the container is built.
func WithRegistry(registry *rules.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// WithOverrideRepository replaces the override store.
func WithOverrideRepository(repo overrides.Repository) Option {
	return func(c *Container) {
		c.overrideRepo = repo
	}
}

// WithPreferenceRepository replaces the preference store.
func WithPreferenceRepository(repo preferences.Repository) Option {
	return func(c *Container) {
		c.prefRepo = repo
	}
}

// WithSink replaces the remote preference sink built from the endpoint config.
func WithSink(sink preferences.Sink) Option {
	return func(c *Container) {
		c.sink = sink
	}
}

// WithCommandRegistry registers the visibility command handlers with reg.
func WithCommandRegistry(reg visibilitycmd.CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = reg
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	ctx := context.Background()
	steps := []func(context.Context) error{
		c.configureLoggerProvider,
		c.configureRules,
		c.configureStorage,
		c.configureCacheDefaults,
		c.configureRepositories,
		c.configureServices,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	c.logger.Info("container.configured",
		"node_types", len(c.registry.NodeTypes()),
		"toggleables", len(c.registry.Toggleables()),
		"persist_overrides", c.Config.Overrides.Persist,
		"persist_preferences", c.Config.Preferences.Persist,
		"cache", c.cacheService != nil,
		"remote_sink", c.sink != nil,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider(context.Context) error {
	if c.loggerProvider == nil && c.Config.Features.Logger {
		logCfg := c.Config.Logging
		switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     logCfg.Level,
				Format:    logCfg.Format,
				AddSource: logCfg.AddSource,
				Focus:     logCfg.Focus,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		default:
			opts := console.Options{}
			if level, ok := console.ParseLevel(logCfg.Level); ok {
				opts.MinLevel = &level
			}
			c.loggerProvider = console.NewProvider(opts)
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "nodevis")
	return nil
}

func (c *Container) configureRules(context.Context) error {
	if c.registry == nil {
		c.registry = rules.NewRegistry()
		if c.Config.Rules.Builtin {
			if err := rules.RegisterBuiltin(c.registry); err != nil {
				return err
			}
		}
		if err := rules.LoadInto(c.registry, c.Config.Rules.Files...); err != nil {
			return err
		}
	}
	c.registry.Freeze()
	logging.RulesLogger(c.loggerProvider).Debug("rules.registry.frozen",
		"node_types", c.registry.NodeTypes(),
		"files", len(c.Config.Rules.Files),
	)
	return nil
}

func (c *Container) configureCacheDefaults(context.Context) error {
	if !c.Config.Cache.Enabled {
		return nil
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("nodevis: cache service: %w", err)
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureRepositories(context.Context) error {
	if c.overrideRepo == nil {
		switch {
		case c.Config.Overrides.Persist && c.cacheService != nil:
			c.overrideRepo = overrides.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		case c.Config.Overrides.Persist:
			c.overrideRepo = overrides.NewBunRepository(c.bunDB)
		default:
			c.overrideRepo = overrides.NewMemoryRepository()
		}
	}
	if c.prefRepo == nil {
		if c.Config.Preferences.Persist {
			c.prefRepo = preferences.NewBunRepository(c.bunDB)
		} else {
			c.prefRepo = preferences.NewMemoryRepository()
		}
	}
	return nil
}

func (c *Container) configureServices(ctx context.Context) error {
	if c.sink == nil && c.Config.Preferences.Endpoint != "" {
		c.sink = preferences.NewRemoteSink(c.Config.Preferences.Endpoint,
			preferences.WithTimeout(c.Config.Preferences.Timeout),
		)
	}

	prefOpts := []preferences.ServiceOption{
		preferences.WithLogger(logging.PreferencesLogger(c.loggerProvider)),
		preferences.WithState(preferences.NewState(c.Config.HidingEnabled)),
	}
	if c.sink != nil {
		prefOpts = append(prefOpts, preferences.WithSink(c.sink))
	}
	c.prefs = preferences.NewService(c.prefRepo, prefOpts...)
	for _, def := range preferences.BuiltinDefinitions(c.registry.Toggleables()) {
		if def.Key == preferences.KeyHideWidgets {
			def.Default = c.Config.HidingEnabled
		}
		if err := c.prefs.Register(def); err != nil {
			return err
		}
	}
	if err := c.prefs.Load(ctx); err != nil {
		return fmt.Errorf("nodevis: load preferences: %w", err)
	}

	c.engine = toggle.NewEngine(toggle.WithLogger(logging.ToggleLogger(c.loggerProvider)))
	c.binder = binding.New(c.registry, c.engine,
		binding.WithOverrides(c.overrideRepo),
		binding.WithPreferences(c.prefs),
		binding.WithLogger(logging.BindingLogger(c.loggerProvider)),
	)

	set, err := visibilitycmd.RegisterCommands(c.commandRegistry, c.binder, c.prefs, c.loggerProvider)
	if err != nil {
		return err
	}
	c.commands = set
	c.binder.SetMenuActions(set.MenuActions())
	return nil
}

// LoggerProvider returns the configured provider, or nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Registry returns the frozen rule registry.
func (c *Container) Registry() *rules.Registry {
	return c.registry
}

// Engine returns the toggle engine.
func (c *Container) Engine() *toggle.Engine {
	return c.engine
}

// Overrides returns the override store.
func (c *Container) Overrides() overrides.Repository {
	return c.overrideRepo
}

// Preferences returns the preference service.
func (c *Container) Preferences() *preferences.Service {
	return c.prefs
}

// Binder returns the node binder.
func (c *Container) Binder() *binding.Binder {
	return c.binder
}

// Commands returns the visibility command handlers.
func (c *Container) Commands() *visibilitycmd.HandlerSet {
	return c.commands
}

// DB returns the database used for persistence, if any.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// Package container provides dependency injection for the application.
package container

import (
	"fmt"
	"log/slog"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/services"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/commands"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/help"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/injector"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/persistence/memory"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/permissions"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/system"
)

// Container holds all application dependencies.
type Container struct {
	config      *system.Config
	permissions *permissions.Manager
	records     *memory.DispatchRecordRepository
	mapper      *services.CommandMapper
	help        *help.Provider
	handler     *services.CommandHandler
	logger      *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger *slog.Logger
	// Config defaults to system.DefaultConfig.
	Config *system.Config
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = system.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	threshold := cfg.Dispatch.SuggestionThreshold

	// Permissions: the file is optional, a missing one grants nothing
	store := permissions.NewFileStore(cfg.Permissions.File)
	manager, err := permissions.NewManager(store, permissions.WithLogger(opts.Logger.With("component", "permissions")))
	if err != nil {
		return nil, fmt.Errorf("failed to load permissions: %w", err)
	}

	capacity := cfg.Audit.Capacity
	if capacity == 0 {
		capacity = memory.DefaultCapacity
	}
	records := memory.NewDispatchRecordRepository(capacity)

	// Command registry and its executables
	roots := commands.BuildTree(cfg.MainCommand)
	deps := &commands.Dependencies{
		Permissions: manager,
		Reloader:    manager,
		History:     records,
		Logger:      opts.Logger.With("component", "commands"),
		Roots:       roots,
		PluginName:  cfg.PluginName,
		Threshold:   threshold,
	}
	inj := injector.New(injector.Singleton(true))
	if err := commands.Register(inj, deps); err != nil {
		return nil, err
	}

	mapper, err := services.NewCommandMapper(roots, manager, services.WithMapperSuggestionThreshold(threshold))
	if err != nil {
		return nil, err
	}
	helpProvider := help.NewProvider(manager, cfg.PluginName)
	deps.Mapper = mapper
	deps.Help = helpProvider

	handler, err := services.NewCommandHandler(inj, mapper, manager, helpProvider,
		services.WithSuggestionThreshold(threshold),
		services.WithRecorder(records),
		services.WithPluginName(cfg.PluginName),
		services.WithMainCommand(cfg.MainCommand),
		services.WithLogger(opts.Logger.With("component", "dispatcher")),
	)
	if err != nil {
		return nil, err
	}

	return &Container{
		config:      cfg,
		permissions: manager,
		records:     records,
		mapper:      mapper,
		help:        helpProvider,
		handler:     handler,
		logger:      opts.Logger,
	}, nil
}

// CommandHandler returns the dispatcher entry point.
func (c *Container) CommandHandler() *services.CommandHandler {
	return c.handler
}

// CommandMapper returns the mapper over the command tree.
func (c *Container) CommandMapper() *services.CommandMapper {
	return c.mapper
}

// HelpProvider returns the help renderer.
func (c *Container) HelpProvider() *help.Provider {
	return c.help
}

// Commands returns the base commands of the registry.
func (c *Container) Commands() []*command.Description {
	return c.mapper.BaseCommands()
}

// Permissions returns the permissions manager.
func (c *Container) Permissions() *permissions.Manager {
	return c.permissions
}

// DispatchRecords returns the dispatch history.
func (c *Container) DispatchRecords() *memory.DispatchRecordRepository {
	return c.records
}

// SystemConfig returns the system configuration.
func (c *Container) SystemConfig() *system.Config {
	return c.config
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

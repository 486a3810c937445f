package commands

import (
	"errors"
	"log/slog"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/ports"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/repositories"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/injector"
)

// Dependencies are the collaborators of the shipped commands. Providers read
// the fields when invoked, so Mapper and Help may be filled in after Register.
type Dependencies struct {
	Mapper      ports.CommandMapper
	Help        ports.HelpProvider
	Permissions PermissionInspector
	Reloader    Reloader
	History     repositories.DispatchRecordRepository
	Logger      *slog.Logger
	Roots       []*command.Description
	PluginName  string
	Threshold   float64
}

// Register binds a provider for every command type of BuildTree.
func Register(inj *injector.Injector, deps *Dependencies) error {
	providers := map[command.CommandType]injector.Provider{
		HelpType: func() (any, error) {
			if deps.Mapper == nil || deps.Help == nil {
				return nil, errors.New("help command requires a mapper and a help provider")
			}
			return NewHelpCommand(deps.Mapper, deps.Help, deps.Threshold), nil
		},
		VersionType: func() (any, error) {
			return NewVersionCommand(deps.PluginName), nil
		},
		ReloadType: func() (any, error) {
			if deps.Reloader == nil {
				return nil, errors.New("reload command requires a reloader")
			}
			return NewReloadCommand(deps.Reloader, deps.Logger), nil
		},
		PermsType: func() (any, error) {
			if deps.Permissions == nil {
				return nil, errors.New("perms command requires a permission inspector")
			}
			return NewPermsCommand(deps.Permissions, deps.Roots), nil
		},
		HistoryType: func() (any, error) {
			if deps.History == nil {
				return nil, errors.New("history command requires a dispatch record repository")
			}
			return NewHistoryCommand(deps.History), nil
		},
	}

	for _, t := range []command.CommandType{HelpType, VersionType, ReloadType, PermsType, HistoryType} {
		if err := inj.Register(t, providers[t]); err != nil {
			return err
		}
	}
	return nil
}

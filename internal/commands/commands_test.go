package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/services"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/audit"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/permissions"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/help"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/injector"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/persistence/memory"
	permstore "github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/permissions"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/version"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	name     string
	messages []string
}

func (s *recordingSender) Name() string { return s.name }

func (s *recordingSender) SendMessage(msg string) { s.messages = append(s.messages, msg) }

type mockReloader struct {
	mock.Mock
}

func (m *mockReloader) Reload() error {
	args := m.Called()
	return args.Error(0)
}

const playerID = "0b8d6c3e-2f0a-4f57-9f3a-3c1f6a7d9e01"

func samplePermissions() *permstore.Document {
	doc := permstore.NewDocument()
	doc.Groups["admins"] = []string{"authme.admin.*"}
	doc.Groups["default"] = []string{"authme.user"}
	doc.Players["alice"] = permstore.PlayerEntry{
		Groups: []string{"admins"},
		Nodes:  []string{"-authme.admin.history"},
	}
	doc.Players[playerID] = permstore.PlayerEntry{Nodes: []string{"authme.admin.perms"}}
	doc.Ops = []string{"steve"}
	return doc
}

type fixture struct {
	roots   []*command.Description
	manager *permstore.Manager
	mapper  *services.CommandMapper
	help    *help.Provider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	roots := BuildTree("")
	manager, err := permstore.NewManagerFromDocument(samplePermissions())
	require.NoError(t, err)
	mapper, err := services.NewCommandMapper(roots, manager)
	require.NoError(t, err)
	return &fixture{
		roots:   roots,
		manager: manager,
		mapper:  mapper,
		help:    help.NewProvider(manager, ""),
	}
}

func TestBuildTree(t *testing.T) {
	roots := BuildTree("")
	require.Len(t, roots, 1)
	assert.Equal(t, []string{"authme", "auth"}, roots[0].Labels())
	assert.False(t, roots[0].IsExecutable())
	assert.NoError(t, command.ValidateTree(roots))

	var types []command.CommandType
	command.Walk(roots, func(d *command.Description) bool {
		if d.IsExecutable() {
			types = append(types, d.Executable())
		}
		return true
	})
	assert.Equal(t, []command.CommandType{HelpType, VersionType, ReloadType, PermsType, HistoryType}, types)
}

func TestBuildTree_CustomMainCommand(t *testing.T) {
	roots := BuildTree("login")

	assert.Equal(t, []string{"login", "authme"}, roots[0].Labels())
	assert.Equal(t, []string{"authme", "auth"}, BuildTree("AuthMe")[0].Labels())
}

func TestFindPermission(t *testing.T) {
	roots := BuildTree("")

	node := FindPermission(roots, "AUTHME.ADMIN.RELOAD")
	require.NotNil(t, node)
	assert.Equal(t, permissions.OpOnly, node.Default)
	assert.Nil(t, FindPermission(roots, "authme.unknown"))
}

func TestHelpCommand(t *testing.T) {
	tests := []struct {
		name      string
		arguments []string
		first     string
		contains  []string
		excludes  []string
	}{
		{
			name:      "nothing to map",
			arguments: nil,
			first:     MessageNoHelp,
		},
		{
			name:      "base command shows children",
			arguments: []string{"authme"},
			first:     "Command: /authme",
			contains:  []string{"Commands:", " /authme reload: Reload permissions"},
			excludes:  []string{"Permissions:"},
		},
		{
			name:      "child shows everything",
			arguments: []string{"authme", "reload"},
			first:     "Command: /authme reload",
			contains:  []string{"Permissions:", " authme.admin.reload (No permission)"},
		},
		{
			name:      "close typo is assumed",
			arguments: []string{"authme", "relaod"},
			first:     "Assuming /authme reload",
			contains:  []string{"Command: /authme reload"},
		},
		{
			name:      "unrelated child label",
			arguments: []string{"authme", "zzzzzzzz"},
			first:     MessageNoHelp,
		},
		{
			name:      "unrelated base label",
			arguments: []string{"qqq"},
			first:     MessageNoHelp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cmd := NewHelpCommand(f.mapper, f.help, command.SuggestionThreshold)
			sender := &recordingSender{name: "bob"}

			cmd.ExecuteCommand(context.Background(), sender, tt.arguments)

			require.NotEmpty(t, sender.messages)
			assert.Equal(t, tt.first, sender.messages[0])
			for _, line := range tt.contains {
				assert.Contains(t, sender.messages, line)
			}
			for _, line := range tt.excludes {
				assert.NotContains(t, sender.messages, line)
			}
		})
	}
}

func TestHelpCommand_NoHelpSendsSingleLine(t *testing.T) {
	f := newFixture(t)
	sender := &recordingSender{name: "bob"}

	NewHelpCommand(f.mapper, f.help, command.SuggestionThreshold).
		ExecuteCommand(context.Background(), sender, []string{"qqq"})

	assert.Equal(t, []string{MessageNoHelp}, sender.messages)
}

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		version string
		dev     bool
	}{
		{"5.7.0", false},
		{"dev", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			cmd := NewVersionCommand("AuthMe")
			cmd.info = func() version.Info {
				return version.Info{Version: tt.version, Commit: "abc123", BuildDate: "2026-01-01", GoVersion: "go1.25", Platform: "linux/amd64"}
			}
			sender := &recordingSender{}

			cmd.ExecuteCommand(context.Background(), sender, nil)

			assert.Equal(t, "==========[ AuthMe ABOUT ]==========", sender.messages[0])
			assert.Contains(t, sender.messages, "Version: "+tt.version)
			assert.Contains(t, sender.messages, "Commit: abc123")
			assert.Contains(t, sender.messages, "Runtime: go1.25 linux/amd64")
			if tt.dev {
				assert.Contains(t, sender.messages, "This is a development build.")
			} else {
				assert.NotContains(t, sender.messages, "This is a development build.")
			}
		})
	}
}

func TestReloadCommand(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		reloader := new(mockReloader)
		reloader.On("Reload").Return(nil).Once()
		sender := &recordingSender{name: "steve"}

		NewReloadCommand(reloader, nil).ExecuteCommand(context.Background(), sender, nil)

		assert.Equal(t, []string{MessageReloadSuccess}, sender.messages)
		reloader.AssertExpectations(t)
	})

	t.Run("failure", func(t *testing.T) {
		reloader := new(mockReloader)
		reloader.On("Reload").Return(errors.New("permissions.yaml: bad rule")).Once()
		sender := &recordingSender{name: "steve"}

		NewReloadCommand(reloader, nil).ExecuteCommand(context.Background(), sender, nil)

		assert.Equal(t, []string{MessageReloadFailure, "permissions.yaml: bad rule"}, sender.messages)
		reloader.AssertExpectations(t)
	})
}

func TestPermsCommand_Overview(t *testing.T) {
	f := newFixture(t)
	sender := &recordingSender{name: "steve"}

	NewPermsCommand(f.manager, f.roots).ExecuteCommand(context.Background(), sender, []string{"Alice"})

	assert.Equal(t, []string{
		"Permissions of Alice:",
		" Operator: no",
		" Groups: admins, default",
		" Nodes: -authme.admin.history, authme.admin.*, authme.user",
	}, sender.messages)
}

func TestPermsCommand_UnknownPlayer(t *testing.T) {
	doc := permstore.NewDocument()
	manager, err := permstore.NewManagerFromDocument(doc)
	require.NoError(t, err)
	sender := &recordingSender{}

	NewPermsCommand(manager, BuildTree("")).ExecuteCommand(context.Background(), sender, []string{"nobody"})

	assert.Equal(t, " Groups: none", sender.messages[2])
	assert.Equal(t, " Nodes: none", sender.messages[3])
}

func TestPermsCommand_CheckNode(t *testing.T) {
	tests := []struct {
		name   string
		player string
		node   string
		want   string
	}{
		{"granted by group", "Alice", "authme.admin.reload", "Alice has authme.admin.reload"},
		{"denied by own node", "Alice", "authme.admin.history", "Alice does not have authme.admin.history"},
		{"op default", "Steve", "authme.admin.reload", "Steve has authme.admin.reload"},
		{"undeclared node", "Steve", "authme.other", "Steve does not have authme.other"},
		{"by uuid", playerID, "authme.admin.perms", playerID + " has authme.admin.perms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			sender := &recordingSender{}

			NewPermsCommand(f.manager, f.roots).ExecuteCommand(context.Background(), sender, []string{tt.player, tt.node})

			assert.Equal(t, []string{tt.want}, sender.messages)
		})
	}
}

func TestHistoryCommand(t *testing.T) {
	repo := memory.NewDispatchRecordRepository(memory.DefaultCapacity)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, status := range []command.ResultStatus{command.StatusSuccess, command.StatusUnknownLabel, command.StatusNoPermission} {
		rec := &audit.DispatchRecord{
			ID:     uuid.New(),
			At:     base.Add(time.Duration(i) * time.Minute),
			Sender: "bob",
			Parts:  []string{"authme", "reload"},
			Status: status,
		}
		require.NoError(t, repo.Save(context.Background(), rec))
	}

	t.Run("default count newest first", func(t *testing.T) {
		sender := &recordingSender{}
		NewHistoryCommand(repo).ExecuteCommand(context.Background(), sender, nil)

		assert.Equal(t, []string{
			"12:02:00 bob /authme reload -> NO_PERMISSION",
			"12:01:00 bob /authme reload -> UNKNOWN_LABEL",
			"12:00:00 bob /authme reload -> SUCCESS",
		}, sender.messages)
	})

	t.Run("explicit count", func(t *testing.T) {
		sender := &recordingSender{}
		NewHistoryCommand(repo).ExecuteCommand(context.Background(), sender, []string{"1"})

		assert.Equal(t, []string{"12:02:00 bob /authme reload -> NO_PERMISSION"}, sender.messages)
	})

	t.Run("invalid count", func(t *testing.T) {
		sender := &recordingSender{}
		NewHistoryCommand(repo).ExecuteCommand(context.Background(), sender, []string{"-3"})

		assert.Equal(t, []string{`Invalid count "-3": expected a positive number`}, sender.messages)
	})

	t.Run("empty", func(t *testing.T) {
		sender := &recordingSender{}
		NewHistoryCommand(memory.NewDispatchRecordRepository(10)).ExecuteCommand(context.Background(), sender, nil)

		assert.Equal(t, []string{MessageNoHistory}, sender.messages)
	})

	t.Run("filtered by player", func(t *testing.T) {
		require.NoError(t, repo.Save(context.Background(), &audit.DispatchRecord{
			ID:     uuid.New(),
			At:     base.Add(10 * time.Minute),
			Sender: "Alice",
			Parts:  []string{"authme", "version"},
			Status: command.StatusSuccess,
		}))

		sender := &recordingSender{}
		NewHistoryCommand(repo).ExecuteCommand(context.Background(), sender, []string{"5", "BOB"})
		assert.Equal(t, []string{
			"12:02:00 bob /authme reload -> NO_PERMISSION",
			"12:01:00 bob /authme reload -> UNKNOWN_LABEL",
			"12:00:00 bob /authme reload -> SUCCESS",
		}, sender.messages)

		sender = &recordingSender{}
		NewHistoryCommand(repo).ExecuteCommand(context.Background(), sender, []string{"5", "alice"})
		assert.Equal(t, []string{"12:10:00 Alice /authme version -> SUCCESS"}, sender.messages)

		sender = &recordingSender{}
		NewHistoryCommand(repo).ExecuteCommand(context.Background(), sender, []string{"5", "steve"})
		assert.Equal(t, []string{"No commands have been recorded for steve."}, sender.messages)
	})
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	inj := injector.New()
	deps := &Dependencies{
		Permissions: f.manager,
		Reloader:    new(mockReloader),
		History:     memory.NewDispatchRecordRepository(10),
		Roots:       f.roots,
		PluginName:  "AuthMe",
		Threshold:   command.SuggestionThreshold,
	}

	require.NoError(t, Register(inj, deps))
	for _, ct := range []command.CommandType{VersionType, ReloadType, PermsType, HistoryType} {
		_, err := inj.NewInstance(ct)
		assert.NoError(t, err, ct)
	}

	// Providers read the dependencies lazily.
	_, err := inj.NewInstance(HelpType)
	require.Error(t, err)

	deps.Mapper = f.mapper
	deps.Help = f.help
	instance, err := inj.NewInstance(HelpType)
	require.NoError(t, err)
	assert.IsType(t, &HelpCommand{}, instance)

	assert.Error(t, Register(inj, deps), "duplicate registration")
}

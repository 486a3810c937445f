package permissions

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	perms "github.com/Shadowhackercz/AuthMeReloaded/internal/domain/permissions"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	name    string
	id      uuid.UUID
	op      bool
	console bool
}

func (s *fakeSender) Name() string { return s.name }

func (s *fakeSender) SendMessage(string) {}

func (s *fakeSender) IsOp() bool { return s.op }

func (s *fakeSender) IsConsole() bool { return s.console }

func (s *fakeSender) UniqueID() uuid.UUID { return s.id }

func newSampleManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(NewFileStore(writeFile(t, samplePermissions)))
	require.NoError(t, err)
	return m
}

func TestManager_HasPermission(t *testing.T) {
	m := newSampleManager(t)

	alice := &fakeSender{name: "alice"}
	steve := &fakeSender{name: "steve"}
	nobody := &fakeSender{name: "nobody"}
	byUUID := &fakeSender{name: "renamed", id: uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")}
	staff := &fakeSender{name: "staff_jo"}
	console := &fakeSender{name: "CONSOLE", console: true}

	reload := perms.NewNode("authme.admin.reload", perms.OpOnly)
	permsNode := perms.NewNode("authme.admin.perms", perms.OpOnly)
	history := perms.NewNode("authme.admin.history", perms.NotAllowed)
	playerNode := perms.NewNode("authme.player.login", perms.NotAllowed)
	open := perms.NewNode("authme.version", perms.Allowed)

	tests := []struct {
		name   string
		sender *fakeSender
		node   *perms.Node
		want   bool
	}{
		{"nil node", nobody, nil, true},
		{"console", console, history, true},
		{"group wildcard", alice, reload, true},
		{"group denial beats own grant", alice, permsNode, false},
		{"default group", nobody, playerNode, true},
		{"op by document", steve, reload, true},
		{"op only without op", nobody, reload, false},
		{"not allowed default", nobody, history, false},
		{"allowed default", nobody, open, true},
		{"player by uuid", byUUID, history, true},
		{"rule grants", staff, history, true},
		{"rule does not match", nobody, history, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.HasPermission(tt.sender, tt.node))
		})
	}
}

func TestManager_OperatorSender(t *testing.T) {
	m, err := NewManagerFromDocument(NewDocument())
	require.NoError(t, err)

	node := perms.NewNode("authme.admin.reload", perms.OpOnly)

	assert.True(t, m.HasPermission(&fakeSender{name: "x", op: true}, node))
	assert.False(t, m.HasPermission(&fakeSender{name: "x"}, node))
}

func TestManager_RuleDenial(t *testing.T) {
	doc := NewDocument()
	doc.Rules = []RuleEntry{{Expr: `!sender.op && node == "authme.version"`, Nodes: []string{"-authme.version"}}}
	m, err := NewManagerFromDocument(doc)
	require.NoError(t, err)

	node := perms.NewNode("authme.version", perms.Allowed)

	assert.False(t, m.HasPermission(&fakeSender{name: "x"}, node))
	assert.True(t, m.HasPermission(&fakeSender{name: "x", op: true}, node))
}

func TestManager_InvalidDocuments(t *testing.T) {
	t.Run("bad expression", func(t *testing.T) {
		doc := NewDocument()
		doc.Rules = []RuleEntry{{Name: "broken", Expr: "sender.name +", Nodes: []string{"a"}}}

		_, err := NewManagerFromDocument(doc)
		assert.ErrorContains(t, err, "broken")
	})

	t.Run("non-boolean expression", func(t *testing.T) {
		doc := NewDocument()
		doc.Rules = []RuleEntry{{Expr: "sender.name", Nodes: []string{"a"}}}

		_, err := NewManagerFromDocument(doc)
		assert.Error(t, err)
	})

	t.Run("unknown group", func(t *testing.T) {
		doc := NewDocument()
		doc.Players["bob"] = PlayerEntry{Groups: []string{"ghosts"}}

		_, err := NewManagerFromDocument(doc)
		assert.ErrorContains(t, err, "ghosts")
	})
}

func TestManager_EffectiveGrantAndGroups(t *testing.T) {
	m := newSampleManager(t)
	alice := &fakeSender{name: "Alice"}

	grant := m.EffectiveGrant(alice)

	assert.Equal(t, perms.Grant{"authme.admin.perms", "authme.admin.*", "-authme.admin.perms", "authme.player.*"}, grant)
	assert.Equal(t, []string{"admins", DefaultGroup}, m.GroupsOf(alice))
	assert.True(t, m.IsOp(&fakeSender{name: "STEVE"}))
}

func TestManager_Reload(t *testing.T) {
	path := writeFile(t, "ops: [steve]\n")
	m, err := NewManager(NewFileStore(path))
	require.NoError(t, err)

	bob := &fakeSender{name: "bob"}
	assert.False(t, m.IsOp(bob))

	require.NoError(t, os.WriteFile(path, []byte("ops: [bob]\n"), 0o600))
	require.NoError(t, m.Reload())
	assert.True(t, m.IsOp(bob))

	// A broken file keeps the previous state
	require.NoError(t, os.WriteFile(path, []byte("ops: bob\n"), 0o600))
	assert.Error(t, m.Reload())
	assert.True(t, m.IsOp(bob))
}

func TestManager_ReloadWithoutStore(t *testing.T) {
	m, err := NewManagerFromDocument(nil)
	require.NoError(t, err)

	assert.Error(t, m.Reload())
	assert.NotNil(t, m.Document())
}

func TestManager_AutoReload(t *testing.T) {
	path := writeFile(t, "ops: [steve]\n")
	m, err := NewManager(NewFileStore(path))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.AutoReload(ctx, 10*time.Millisecond) }()

	require.NoError(t, os.WriteFile(path, []byte("ops: [bob]\n"), 0o600))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	bob := &fakeSender{name: "bob"}
	assert.Eventually(t, func() bool { return m.IsOp(bob) }, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestManager_AutoReloadPicksUpChangeBeforeStart(t *testing.T) {
	path := writeFile(t, "ops: [steve]\n")
	m, err := NewManager(NewFileStore(path))
	require.NoError(t, err)

	// Written after the load but before polling starts
	require.NoError(t, os.WriteFile(path, []byte("ops: [bob]\n"), 0o600))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.AutoReload(ctx, 10*time.Millisecond) }()

	bob := &fakeSender{name: "bob"}
	assert.Eventually(t, func() bool { return m.IsOp(bob) }, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestManager_AutoReloadKeepsStateOnBrokenFile(t *testing.T) {
	path := writeFile(t, "ops: [steve]\n")
	m, err := NewManager(NewFileStore(path))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("ops: steve\n"), 0o600))
	broken := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, broken, broken))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.AutoReload(ctx, 10*time.Millisecond) }()

	steve := &fakeSender{name: "steve"}
	bob := &fakeSender{name: "bob"}
	time.Sleep(50 * time.Millisecond)
	assert.True(t, m.IsOp(steve))

	// The next change is picked up once the file is valid again
	require.NoError(t, os.WriteFile(path, []byte("ops: [bob]\n"), 0o600))
	fixed := broken.Add(time.Minute)
	require.NoError(t, os.Chtimes(path, fixed, fixed))
	assert.Eventually(t, func() bool { return m.IsOp(bob) }, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestManager_AutoReloadWithoutStore(t *testing.T) {
	m, err := NewManagerFromDocument(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, m.AutoReload(ctx, time.Millisecond))
}

func TestManager_DefaultLogger(t *testing.T) {
	// Not t.Parallel() because it replaces the default logger
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	m, err := NewManager(NewFileStore(writeFile(t, "ops: [steve]\n")))
	require.NoError(t, err)
	require.NoError(t, m.Reload())

	assert.Contains(t, buf.String(), "permissions reloaded")
}

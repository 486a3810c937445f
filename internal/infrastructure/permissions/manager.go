package permissions

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/ports"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	perms "github.com/Shadowhackercz/AuthMeReloaded/internal/domain/permissions"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"
)

// DefaultGroup applies to every player.
const DefaultGroup = "default"

// Ensure interface compliance
var _ ports.PermissionsManager = (*Manager)(nil)

// SenderEnv describes the sender to rule expressions.
type SenderEnv struct {
	Name    string `expr:"name"`
	UUID    string `expr:"uuid"`
	Op      bool   `expr:"op"`
	Console bool   `expr:"console"`
}

// RuleEnv defines the variables available during rule evaluation.
type RuleEnv struct {
	Node   string    `expr:"node"`
	Sender SenderEnv `expr:"sender"`
}

type compiledRule struct {
	program *vm.Program
	name    string
	nodes   perms.Grant
}

// state is an immutable snapshot of a loaded document.
type state struct {
	doc     *Document
	ops     map[string]bool
	groups  map[string]perms.Grant
	grants  map[string]perms.Grant
	pGroups map[string][]string
	rules   []compiledRule
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager answers permission checks from a permissions document.
//
// HasPermission resolves in this order: nil nodes and console senders are
// allowed; explicit player and group entries decide next, denials first;
// then rules; then the node's default.
type Manager struct {
	store  *FileStore
	policy *perms.Policy
	logger *slog.Logger
	state  *state

	// loadedMod is the file's modification time sampled before state was read.
	loadedMod time.Time
	mu        sync.RWMutex
}

// NewManager loads the store and creates a manager over it.
func NewManager(store *FileStore, opts ...Option) (*Manager, error) {
	mod := fileModTime(store.Path())
	doc, err := store.Load()
	if err != nil {
		return nil, err
	}
	m, err := NewManagerFromDocument(doc, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", store.Path(), err)
	}
	m.store = store
	m.loadedMod = mod
	return m, nil
}

// NewManagerFromDocument creates a manager over an in-memory document.
// Reload is not available on such a manager.
func NewManagerFromDocument(doc *Document, opts ...Option) (*Manager, error) {
	m := &Manager{
		policy: perms.NewPolicy(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	st, err := compile(doc)
	if err != nil {
		return nil, err
	}
	m.state = st
	return m, nil
}

// Reload re-reads the permissions file. On failure the previous state stays
// in effect.
func (m *Manager) Reload() error {
	if m.store == nil {
		return fmt.Errorf("permissions manager has no backing file")
	}
	mod := fileModTime(m.store.Path())
	doc, err := m.store.Load()
	if err != nil {
		return err
	}
	st, err := compile(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", m.store.Path(), err)
	}

	m.mu.Lock()
	m.state = st
	m.loadedMod = mod
	m.mu.Unlock()

	m.logger.Info("permissions reloaded",
		"file", m.store.Path(),
		"groups", len(doc.Groups),
		"players", len(doc.Players),
		"rules", len(doc.Rules),
	)
	return nil
}

// AutoReload reloads the file whenever its modification time differs from the
// one seen by the last successful load, checking every interval, until ctx is
// done. Failed reloads are logged and retried on the next change.
func (m *Manager) AutoReload(ctx context.Context, interval time.Duration) error {
	if m.store == nil || interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var failedMod time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			mod := fileModTime(m.store.Path())
			if mod.Equal(m.loadedModTime()) || mod.Equal(failedMod) {
				continue
			}
			if err := m.Reload(); err != nil {
				failedMod = mod
				m.logger.Warn("permissions reload failed", "file", m.store.Path(), "error", err)
			}
		}
	}
}

func (m *Manager) loadedModTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadedMod
}

// fileModTime returns the zero time when path cannot be stat'ed.
func fileModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// Document returns the currently loaded document. Callers must not modify it.
func (m *Manager) Document() *Document {
	return m.snapshot().doc
}

// HasPermission implements ports.PermissionsManager.
func (m *Manager) HasPermission(sender command.Sender, node *perms.Node) bool {
	if node == nil || command.IsConsoleSender(sender) {
		return true
	}
	st := m.snapshot()

	switch m.policy.Decide(*node, st.grantFor(sender)) {
	case perms.Granted:
		return true
	case perms.Denied:
		return false
	}

	env := RuleEnv{Node: node.Name, Sender: st.envFor(sender)}
	for _, rule := range st.rules {
		out, err := expr.Run(rule.program, env)
		if err != nil {
			m.logger.Warn("permission rule failed", "rule", rule.name, "node", node.Name, "error", err)
			continue
		}
		if matched, ok := out.(bool); !ok || !matched {
			continue
		}
		switch m.policy.Decide(*node, rule.nodes) {
		case perms.Granted:
			return true
		case perms.Denied:
			return false
		}
	}

	switch node.Default {
	case perms.Allowed:
		return true
	case perms.OpOnly:
		return st.isOp(sender)
	default:
		return false
	}
}

// EffectiveGrant returns the explicit patterns that apply to sender, own
// nodes first, then group nodes.
func (m *Manager) EffectiveGrant(sender command.Sender) perms.Grant {
	return m.snapshot().grantFor(sender)
}

// GroupsOf returns the groups sender belongs to, including DefaultGroup when
// it is defined.
func (m *Manager) GroupsOf(sender command.Sender) []string {
	return m.snapshot().groupsFor(sender)
}

// IsOp reports whether sender has operator status.
func (m *Manager) IsOp(sender command.Sender) bool {
	return m.snapshot().isOp(sender)
}

func (m *Manager) snapshot() *state {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func compile(doc *Document) (*state, error) {
	if doc == nil {
		doc = NewDocument()
	}
	st := &state{
		doc:     doc,
		ops:     make(map[string]bool, len(doc.Ops)),
		groups:  make(map[string]perms.Grant, len(doc.Groups)),
		grants:  make(map[string]perms.Grant, len(doc.Players)),
		pGroups: make(map[string][]string, len(doc.Players)),
	}
	for _, op := range doc.Ops {
		st.ops[key(op)] = true
	}
	for name, nodes := range doc.Groups {
		g := st.groups[key(name)]
		g.Merge(perms.NewGrant(nodes...))
		st.groups[key(name)] = g
	}
	for name, entry := range doc.Players {
		k := key(name)
		g := st.grants[k]
		g.Merge(perms.NewGrant(entry.Nodes...))
		st.grants[k] = g
		for _, group := range entry.Groups {
			if _, ok := st.groups[key(group)]; !ok {
				return nil, fmt.Errorf("player %q references unknown group %q", name, group)
			}
			st.pGroups[k] = append(st.pGroups[k], key(group))
		}
	}
	for i, rule := range doc.Rules {
		name := rule.Name
		if name == "" {
			name = fmt.Sprintf("rule[%d]", i)
		}
		program, err := expr.Compile(rule.Expr, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("invalid expression in %s: %w", name, err)
		}
		st.rules = append(st.rules, compiledRule{
			name:    name,
			program: program,
			nodes:   perms.NewGrant(rule.Nodes...),
		})
	}
	return st, nil
}

// playerKeys returns the document keys that may describe sender: its UUID
// and its name.
func playerKeys(sender command.Sender) []string {
	keys := make([]string, 0, 2)
	if id := command.UniqueIDOf(sender); id != uuid.Nil {
		keys = append(keys, id.String())
	}
	return append(keys, key(sender.Name()))
}

func (st *state) grantFor(sender command.Sender) perms.Grant {
	grant := perms.NewGrant()
	for _, k := range playerKeys(sender) {
		grant.Merge(st.grants[k])
	}
	for _, group := range st.groupsFor(sender) {
		grant.Merge(st.groups[group])
	}
	return grant
}

func (st *state) groupsFor(sender command.Sender) []string {
	var groups []string
	seen := make(map[string]bool)
	for _, k := range playerKeys(sender) {
		for _, g := range st.pGroups[k] {
			if !seen[g] {
				seen[g] = true
				groups = append(groups, g)
			}
		}
	}
	if _, ok := st.groups[DefaultGroup]; ok && !seen[DefaultGroup] {
		groups = append(groups, DefaultGroup)
	}
	return groups
}

func (st *state) isOp(sender command.Sender) bool {
	if command.IsOperator(sender) {
		return true
	}
	for _, k := range playerKeys(sender) {
		if st.ops[k] {
			return true
		}
	}
	return false
}

func (st *state) envFor(sender command.Sender) SenderEnv {
	env := SenderEnv{
		Name:    sender.Name(),
		Op:      st.isOp(sender),
		Console: command.IsConsoleSender(sender),
	}
	if id := command.UniqueIDOf(sender); id != uuid.Nil {
		env.UUID = id.String()
	}
	return env
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

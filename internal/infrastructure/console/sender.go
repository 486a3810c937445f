// Package console adapts a line-oriented terminal to the command dispatcher.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/google/uuid"
)

// ConsoleName is the name the server console dispatches under.
const ConsoleName = "CONSOLE"

// Ensure interface compliance
var (
	_ command.Sender     = (*ConsoleSender)(nil)
	_ command.Console    = (*ConsoleSender)(nil)
	_ command.Sender     = (*PlayerSender)(nil)
	_ command.Operator   = (*PlayerSender)(nil)
	_ command.Identified = (*PlayerSender)(nil)
)

// lineWriter serializes writes so concurrent dispatches do not interleave lines.
type lineWriter struct {
	out io.Writer
	mu  sync.Mutex
}

func (w *lineWriter) writeLine(prefix, msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.out, "%s%s\n", prefix, msg)
}

// ConsoleSender is the server console. It holds every permission.
type ConsoleSender struct {
	w *lineWriter
}

// NewConsoleSender creates a console writing to out.
func NewConsoleSender(out io.Writer) *ConsoleSender {
	return &ConsoleSender{w: &lineWriter{out: out}}
}

// Name returns ConsoleName.
func (c *ConsoleSender) Name() string { return ConsoleName }

// SendMessage writes msg on its own line.
func (c *ConsoleSender) SendMessage(msg string) { c.w.writeLine("", msg) }

// IsConsole always reports true.
func (c *ConsoleSender) IsConsole() bool { return true }

// PlayerSender is a player identified by name and UUID.
type PlayerSender struct {
	w    *lineWriter
	name string
	id   uuid.UUID
	op   bool
}

// PlayerOption configures a PlayerSender.
type PlayerOption func(*PlayerSender)

// WithUUID sets the player's unique ID. Without it, an offline-mode ID is
// derived from the name.
func WithUUID(id uuid.UUID) PlayerOption {
	return func(p *PlayerSender) {
		p.id = id
	}
}

// WithOp grants operator status.
func WithOp(op bool) PlayerOption {
	return func(p *PlayerSender) {
		p.op = op
	}
}

// NewPlayerSender creates a player writing to out.
func NewPlayerSender(out io.Writer, name string, opts ...PlayerOption) *PlayerSender {
	p := &PlayerSender{
		w:    &lineWriter{out: out},
		name: name,
		id:   OfflinePlayerUUID(name),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the player name.
func (p *PlayerSender) Name() string { return p.name }

// SendMessage writes msg prefixed with the player name.
func (p *PlayerSender) SendMessage(msg string) { p.w.writeLine("["+p.name+"] ", msg) }

// IsOp reports operator status.
func (p *PlayerSender) IsOp() bool { return p.op }

// UniqueID returns the player's ID.
func (p *PlayerSender) UniqueID() uuid.UUID { return p.id }

// OfflinePlayerUUID derives a stable name-based ID for players without one.
func OfflinePlayerUUID(name string) uuid.UUID {
	return uuid.NewMD5(uuid.Nil, []byte("OfflinePlayer:"+name))
}

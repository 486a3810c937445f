// Package command defines the command registry tree and the result of
// resolving a raw invocation against it.
package command

import "context"

// CommandType references an executable command implementation.
// The injector builds instances keyed by this value.
type CommandType string

// String returns the type reference.
func (t CommandType) String() string {
	return string(t)
}

// IsZero reports whether the reference is empty (pure parent nodes).
func (t CommandType) IsZero() bool {
	return t == ""
}

// Sender is the principal a command is dispatched for. It carries the identity
// used for permission checks and is the only output channel.
type Sender interface {
	Name() string
	SendMessage(msg string)
}

// Executable is the body of a command. Implementations own their dependencies
// and may send any number of messages to the sender.
type Executable interface {
	ExecuteCommand(ctx context.Context, sender Sender, arguments []string)
}

package command

import "github.com/google/uuid"

// Senders may implement these to expose more about themselves to permission
// checks. A sender implementing none of them is a plain, non-operator player.

// Console is implemented by senders acting for the server itself.
type Console interface {
	IsConsole() bool
}

// Operator is implemented by senders that can hold operator status.
type Operator interface {
	IsOp() bool
}

// Identified is implemented by senders with a stable unique ID.
type Identified interface {
	UniqueID() uuid.UUID
}

// IsConsoleSender reports whether s acts for the server.
func IsConsoleSender(s Sender) bool {
	c, ok := s.(Console)
	return ok && c.IsConsole()
}

// IsOperator reports whether s claims operator status.
func IsOperator(s Sender) bool {
	o, ok := s.(Operator)
	return ok && o.IsOp()
}

// UniqueIDOf returns the sender's ID, or uuid.Nil when it has none.
func UniqueIDOf(s Sender) uuid.UUID {
	if i, ok := s.(Identified); ok {
		return i.UniqueID()
	}
	return uuid.Nil
}

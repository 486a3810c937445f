package console

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
)

// Dispatcher processes one host invocation.
type Dispatcher interface {
	ProcessCommand(ctx context.Context, sender command.Sender, label string, tokens []string)
}

// SplitLine splits a typed line the way a naive host does: on every single
// space, so repeated spaces yield empty tokens. The first token is the label
// with an optional leading "/" removed. A blank line yields an empty label.
func SplitLine(line string) (label string, tokens []string) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, " ")
	label = strings.TrimPrefix(fields[0], "/")
	return label, fields[1:]
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPrompt prints prompt before every line is read.
func WithPrompt(prompt string, out io.Writer) SessionOption {
	return func(s *Session) {
		s.prompt = prompt
		s.promptOut = out
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session feeds lines from a reader to a dispatcher on behalf of one sender.
type Session struct {
	dispatcher Dispatcher
	sender     command.Sender
	logger     *slog.Logger
	promptOut  io.Writer
	prompt     string
}

// NewSession creates a session for sender.
func NewSession(dispatcher Dispatcher, sender command.Sender, opts ...SessionOption) *Session {
	s := &Session{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleLine dispatches one line. Blank lines are ignored.
func (s *Session) HandleLine(ctx context.Context, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	label, tokens := SplitLine(line)
	s.dispatcher.ProcessCommand(ctx, s.sender, label, tokens)
}

// Serve dispatches lines until the reader is exhausted or ctx is done. Lines
// are processed one at a time, in order. When ctx ends first, the goroutine
// reading from in stays blocked until in yields or is closed.
func (s *Session) Serve(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		s.showPrompt()
		select {
		case <-ctx.Done():
			s.logger.Debug("console session cancelled", "sender", s.sender.Name())
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return ctx.Err()
				}
			}
			s.HandleLine(ctx, line)
		}
	}
}

func (s *Session) showPrompt() {
	if s.promptOut != nil && s.prompt != "" {
		_, _ = io.WriteString(s.promptOut, s.prompt)
	}
}

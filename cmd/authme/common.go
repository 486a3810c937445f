package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/console"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/output"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// CommonOptions contains flags shared across commands that render output.
type CommonOptions struct {
	// Output
	Format string

	// Execution
	Timeout time.Duration
}

// DefaultCommonOptions returns sensible defaults.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{
		Timeout: 30 * time.Second,
		Format:  "table",
	}
}

// RegisterFlags adds common flags to a cobra command.
func (opts *CommonOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout,
		"Timeout for the command (0 to disable)")
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format,
		"Output format: "+strings.Join(output.Formats, ", "))
}

// ApplyToContext applies timeout to context.
// Returns new context and cancel function.
func (opts *CommonOptions) ApplyToContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	// No timeout - return no-op cancel
	return ctx, func() {}
}

// ValidateFlags validates common options.
func (opts *CommonOptions) ValidateFlags() error {
	if opts.Timeout < 0 {
		return fmt.Errorf("--timeout must not be negative")
	}
	if !slices.Contains(output.Formats, opts.Format) {
		return fmt.Errorf("invalid format: %s (valid: %s)", opts.Format, strings.Join(output.Formats, ", "))
	}
	return nil
}

// SenderOptions selects who invocations are dispatched for.
type SenderOptions struct {
	As   string
	UUID string
	Op   bool
}

// RegisterFlags adds the sender flags to a cobra command.
func (opts *SenderOptions) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&opts.As, "as", "", "Dispatch as this player instead of the console")
	cmd.Flags().StringVar(&opts.UUID, "uuid", "", "UUID of the player (default: offline UUID of --as)")
	cmd.Flags().BoolVar(&opts.Op, "op", false, "Give the player operator status")
}

// Sender builds the sender; its messages are written to out.
func (opts *SenderOptions) Sender(out io.Writer) (command.Sender, error) {
	if opts.As == "" || strings.EqualFold(opts.As, console.ConsoleName) {
		if opts.UUID != "" || opts.Op {
			return nil, fmt.Errorf("--uuid and --op require --as")
		}
		return console.NewConsoleSender(out), nil
	}

	playerOpts := []console.PlayerOption{console.WithOp(opts.Op)}
	if opts.UUID != "" {
		id, err := uuid.Parse(opts.UUID)
		if err != nil {
			return nil, fmt.Errorf("invalid --uuid %q: %w", opts.UUID, err)
		}
		playerOpts = append(playerOpts, console.WithUUID(id))
	}
	return console.NewPlayerSender(out, opts.As, playerOpts...), nil
}

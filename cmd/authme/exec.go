package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/console"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/container"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newExecCmd())
}

func newExecCmd() *cobra.Command {
	opts := DefaultCommonOptions()
	var senderOpts SenderOptions

	cmd := &cobra.Command{
		Use:   "exec <label> [tokens...]",
		Short: "Dispatch a single command invocation",
		Long: `Dispatch one invocation and print the messages sent back to the sender.

Tokens are passed through unchanged. A single quoted argument is split on
spaces like a typed chat line. With --format json or yaml the messages are
reported together with the dispatch outcome.`,
		Example: `  authme exec authme help
  authme exec --as alice /authme reload
  authme exec --format json "authme perms steve"`,
		Args: cobra.MinimumNArgs(1),
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			if err := opts.ValidateFlags(); err != nil {
				return err
			}
			runCtx, cancel := opts.ApplyToContext(ctx.Context)
			defer cancel()

			return runExec(runCtx, ctx.Container, cmd.OutOrStdout(), opts.Format, &senderOpts, args)
		}),
	}
	// Everything after the label belongs to the invocation
	cmd.Flags().SetInterspersed(false)

	opts.RegisterFlags(cmd)
	senderOpts.RegisterFlags(cmd)

	return cmd
}

// runExec dispatches args once. In table format the sender writes straight to
// out; other formats collect the messages into a report.
func runExec(ctx context.Context, c *container.Container, out io.Writer, format string, senderOpts *SenderOptions, args []string) error {
	label, tokens := invocation(args)

	if format == "table" {
		sender, err := senderOpts.Sender(out)
		if err != nil {
			return err
		}
		c.CommandHandler().ProcessCommand(ctx, sender, label, tokens)
		return nil
	}

	var buf bytes.Buffer
	sender, err := senderOpts.Sender(&buf)
	if err != nil {
		return err
	}
	c.CommandHandler().ProcessCommand(ctx, sender, label, tokens)

	records, err := c.DispatchRecords().Recent(ctx, 1)
	if err != nil {
		return fmt.Errorf("failed to read dispatch record: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("dispatch was not recorded")
	}

	formatter, err := output.New(format, out)
	if err != nil {
		return err
	}
	return formatter.Format(&output.Report{
		Dispatches: []output.DispatchInfo{output.DescribeDispatch(records[0], messageLines(buf.String()))},
	})
}

// invocation turns CLI arguments into a label and tokens.
func invocation(args []string) (string, []string) {
	if len(args) == 1 && strings.Contains(args[0], " ") {
		return console.SplitLine(args[0])
	}
	return strings.TrimPrefix(args[0], "/"), args[1:]
}

func messageLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

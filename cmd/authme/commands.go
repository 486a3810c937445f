package main

import (
	"io"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/container"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/help"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCommandsCmd())
}

func newCommandsCmd() *cobra.Command {
	opts := DefaultCommonOptions()

	cmd := &cobra.Command{
		Use:     "commands",
		Short:   "List the registered command tree",
		Long:    `List every command with its usage, aliases and required permission.`,
		Example: `  authme commands
  authme commands --format yaml`,
		Args: cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
			if err := opts.ValidateFlags(); err != nil {
				return err
			}
			return runCommands(ctx.Container, cmd.OutOrStdout(), opts.Format)
		}),
	}

	opts.RegisterFlags(cmd)

	return cmd
}

func runCommands(c *container.Container, out io.Writer, format string) error {
	formatter, err := output.New(format, out)
	if err != nil {
		return err
	}
	return formatter.Format(&output.Report{
		Commands: output.DescribeTree(c.Commands(), help.Syntax),
	})
}

package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/console"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/container"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(newConsoleCmd())
}

func newConsoleCmd() *cobra.Command {
	var senderOpts SenderOptions
	var prompt string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Dispatch invocations read line by line from standard input",
		Long: `Read one invocation per line from standard input and dispatch it, like a
server console. The permissions file is reloaded automatically when
permissions.reload_interval is set. The session ends at end of input or on
interrupt.`,
		Example: `  authme console
  authme console --as alice --prompt "> "
  printf 'authme version\nauthme help\n' | authme console`,
		Args: cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
			sender, err := senderOpts.Sender(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			session := console.NewSession(ctx.Container.CommandHandler(), sender,
				console.WithPrompt(prompt, cmd.OutOrStdout()),
				console.WithSessionLogger(ctx.Logger),
			)
			return runConsole(sigCtx, ctx.Container, session, cmd.InOrStdin())
		}),
	}

	senderOpts.RegisterFlags(cmd)
	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt printed before each line is read")

	return cmd
}

// runConsole serves the session and, alongside it, the permissions auto
// reload. Both stop when the input ends or ctx is cancelled.
func runConsole(ctx context.Context, c *container.Container, session *console.Session, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		err := session.Serve(gctx, in)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return c.Permissions().AutoReload(gctx, reloadInterval(c))
	})

	return g.Wait()
}

func reloadInterval(c *container.Container) time.Duration {
	return c.SystemConfig().Permissions.ReloadInterval
}

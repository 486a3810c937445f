package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/permissions"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/system"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ChangeOptions describe one edit of the permissions file.
type ChangeOptions struct {
	Subject string
	Nodes   []string
	Group   bool
	Join    string
	Revoke  bool
	Yes     bool
}

// confirmer asks before a change is written.
type confirmer interface {
	IsInteractive() bool
	ConfirmChange(action, subject string, patterns []string) (bool, error)
	FormatNonInteractiveError(action, subject string, patterns []string, path string) error
}

func newGrantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant <player|group> [node...]",
		Short: "Grant permission nodes in the permissions file",
		Long: `Add node patterns to a player or, with --group, to a group.

Use --join to add a player to an existing group. Prefix a node with "-" to deny
it explicitly. Changes are validated before the file is written.`,
		Example: `  authme grant alice authme.admin.reload
  authme grant admins authme.admin.* --group
  authme grant bob --join admins --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := changeFlags(cmd, args)
			return runChange(cmd.OutOrStdout(), permissions.NewTerminalPrompter(), opts)
		},
	}
	cmd.Flags().String("join", "", "Add the player to this group")
	addChangeFlags(cmd)
	return cmd
}

func newRevokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke <player|group> <node...>",
		Short: "Remove permission nodes from the permissions file",
		Example: `  authme revoke alice authme.admin.reload
  authme revoke admins authme.admin.* --group --yes`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := changeFlags(cmd, args)
			opts.Revoke = true
			return runChange(cmd.OutOrStdout(), permissions.NewTerminalPrompter(), opts)
		},
	}
	addChangeFlags(cmd)
	return cmd
}

func addChangeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("group", false, "Treat the subject as a group")
	cmd.Flags().BoolP("yes", "y", false, "Apply without asking for confirmation")
}

func changeFlags(cmd *cobra.Command, args []string) ChangeOptions {
	opts := ChangeOptions{Subject: args[0], Nodes: args[1:]}
	opts.Group, _ = cmd.Flags().GetBool("group")
	opts.Yes, _ = cmd.Flags().GetBool("yes")
	if cmd.Flags().Lookup("join") != nil {
		opts.Join, _ = cmd.Flags().GetString("join")
	}
	return opts
}

func init() {
	rootCmd.AddCommand(newGrantCmd(), newRevokeCmd())
}

func runChange(out io.Writer, prompter confirmer, opts ChangeOptions) error {
	if configErr != nil {
		return configErr
	}
	cfg, err := system.FromViper(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return applyChange(out, permissions.NewFileStore(cfg.Permissions.File), prompter, opts)
}

// applyChange edits the document held by store and saves it.
func applyChange(out io.Writer, store *permissions.FileStore, prompter confirmer, opts ChangeOptions) error {
	if len(opts.Nodes) == 0 && opts.Join == "" {
		return errors.New("nothing to change: give at least one node or --join")
	}
	if opts.Group && opts.Join != "" {
		return errors.New("--join cannot be used with --group")
	}

	action := "Grant"
	if opts.Revoke {
		action = "Revoke"
	}
	subject := opts.Subject
	if opts.Group {
		subject = "group " + subject
	}
	if opts.Join != "" {
		subject += " (joining " + opts.Join + ")"
	}

	if !opts.Yes {
		if !prompter.IsInteractive() {
			return prompter.FormatNonInteractiveError(action, subject, opts.Nodes, store.Path())
		}
		ok, err := prompter.ConfirmChange(action, subject, opts.Nodes)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	doc, err := store.Load()
	if err != nil {
		return err
	}

	var changed []string
	switch {
	case opts.Group && opts.Revoke:
		changed = doc.RevokeGroup(opts.Subject, opts.Nodes...)
	case opts.Group:
		changed = doc.GrantGroup(opts.Subject, opts.Nodes...)
	case opts.Revoke:
		changed = doc.RevokePlayer(opts.Subject, opts.Nodes...)
	default:
		changed = doc.GrantPlayer(opts.Subject, opts.Nodes...)
	}
	if opts.Join != "" {
		if err := doc.AddToGroup(opts.Subject, opts.Join); err != nil {
			return err
		}
		changed = append(changed, "group "+opts.Join)
	}

	if len(changed) == 0 {
		_, _ = fmt.Fprintf(out, "No changes for %s.\n", subject)
		return nil
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := store.Save(doc); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s for %s: %s\n", action, subject, strings.Join(changed, ", "))
	_, _ = fmt.Fprintf(out, "Saved %s\n", store.Path())
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/permissions"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/system"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// InitOptions are the answers needed to write a starter configuration.
type InitOptions struct {
	Dir           string
	PluginName    string
	MainCommand   string
	Threshold     string
	Ops           []string
	Force         bool
	NoInteractive bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config and permissions file",
	Long: `Generate authme.yaml and permissions.yaml in the target directory.

Missing values are asked for interactively unless --no-interactive is set.`,
	Example: `  authme init
  authme init --dir ./server --op steve --no-interactive`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	defaults := system.DefaultConfig()
	initCmd.Flags().String("dir", ".", "Directory to write the files to")
	initCmd.Flags().String("plugin-name", defaults.PluginName, "Name used in messages")
	initCmd.Flags().String("main-command", "", "Label of the base command (default: authme)")
	initCmd.Flags().StringSlice("op", nil, "Players given operator status")
	initCmd.Flags().Bool("force", false, "Overwrite existing files")
	initCmd.Flags().Bool("no-interactive", false, "Disable interactive prompts")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	opts := InitOptions{}

	opts.Dir, _ = cmd.Flags().GetString("dir")
	opts.PluginName, _ = cmd.Flags().GetString("plugin-name")
	opts.MainCommand, _ = cmd.Flags().GetString("main-command")
	opts.Ops, _ = cmd.Flags().GetStringSlice("op")
	opts.Force, _ = cmd.Flags().GetBool("force")
	opts.NoInteractive, _ = cmd.Flags().GetBool("no-interactive")

	if !opts.NoInteractive {
		if err := promptInit(&opts); err != nil {
			return err
		}
	}

	return writeInitFiles(cmd.OutOrStdout(), opts)
}

func promptInit(opts *InitOptions) error {
	var ops string
	fields := []huh.Field{}

	if opts.MainCommand == "" {
		opts.MainCommand = "authme"
		fields = append(fields, huh.NewInput().
			Title("Main command label").
			Value(&opts.MainCommand).
			Validate(func(s string) error {
				if s == "" || strings.ContainsAny(s, " /") {
					return errors.New("must be a single word without slashes")
				}
				return nil
			}))
	}

	opts.Threshold = strconv.FormatFloat(system.DefaultConfig().Dispatch.SuggestionThreshold, 'f', -1, 64)
	fields = append(fields, huh.NewInput().
		Title("Suggestion threshold").
		Description("Label difference below which \"Did you mean\" hints are shown (0 to 1]").
		Value(&opts.Threshold).
		Validate(func(s string) error {
			_, err := parseThreshold(s)
			return err
		}))

	if len(opts.Ops) == 0 {
		fields = append(fields, huh.NewInput().
			Title("Operators").
			Description("Comma-separated player names").
			Value(&ops))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}

	for _, op := range strings.Split(ops, ",") {
		if op = strings.TrimSpace(op); op != "" {
			opts.Ops = append(opts.Ops, op)
		}
	}
	return nil
}

func parseThreshold(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v > 1 {
		return 0, fmt.Errorf("threshold must be a number in (0, 1], got %q", s)
	}
	return v, nil
}

// writeInitFiles writes authme.yaml and permissions.yaml into opts.Dir.
func writeInitFiles(out io.Writer, opts InitOptions) error {
	cfg := system.DefaultConfig()
	if opts.PluginName != "" {
		cfg.PluginName = opts.PluginName
	}
	if opts.MainCommand != "" {
		cfg.MainCommand = opts.MainCommand
	}
	if opts.Threshold != "" {
		threshold, err := parseThreshold(opts.Threshold)
		if err != nil {
			return err
		}
		cfg.Dispatch.SuggestionThreshold = threshold
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	configPath := filepath.Join(opts.Dir, "authme.yaml")
	permissionsPath := filepath.Join(opts.Dir, cfg.Permissions.File)
	if !opts.Force {
		for _, path := range []string{configPath, permissionsPath} {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.Dir, err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	doc := permissions.NewDocument()
	doc.Groups["admins"] = []string{"authme.admin.*"}
	doc.Ops = opts.Ops
	if err := permissions.NewFileStore(permissionsPath).Save(doc); err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Config saved to %s\n", configPath)
	fmt.Fprintf(out, "✓ Permissions saved to %s\n", permissionsPath)

	// Read both files back the way the other commands will
	loaded, err := system.NewConfigLoader().Load(configPath)
	if err != nil {
		return fmt.Errorf("written config does not load: %w", err)
	}
	if _, err := permissions.NewManager(permissions.NewFileStore(loaded.Permissions.File)); err != nil {
		return fmt.Errorf("written permissions do not load: %w", err)
	}
	fmt.Fprintln(out, "✓ Setup verified")
	return nil
}

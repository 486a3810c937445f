package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/Shadowhackercz/AuthMeReloaded/internal/application/errors"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/infrastructure/system"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	// configErr is set when an explicitly requested config file cannot be read.
	configErr error
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "authme",
	Short: "Terminal host for the AuthMe command dispatcher",
	Long: `authme resolves raw command invocations against the AuthMe command tree,
checks permissions, and runs the matching command or explains why it could not.

Invocations can be dispatched one at a time with "authme exec" or read line by
line from standard input with "authme console".`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./authme.yaml or $HOME/.authme/authme.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// initConfig loads configuration from the config file and environment.
func initConfig() {
	system.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix(system.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".authme"))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("authme")
	}

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		configErr = apperrors.NewConfigurationError("file", "failed to read "+cfgFile, err)
	}
}

func setupLogging() {
	cfg := &system.Config{}
	cfg.Logging.Level = viper.GetString("logging.level")
	level, err := cfg.LogLevel()
	if err != nil {
		slog.Warn("falling back to info logging", "error", err)
	}
	if verbose {
		level = slog.LevelDebug
	}

	// Using TextHandler for CLI friendliness
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

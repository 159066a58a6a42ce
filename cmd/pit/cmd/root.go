/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ssargent/pitkit/pkg/archive"
	"github.com/ssargent/pitkit/pkg/config"
	"github.com/ssargent/pitkit/pkg/di"
	"github.com/ssargent/pitkit/pkg/logging"
	"github.com/ssargent/pitkit/pkg/pit"
)

var container *di.Container

// SetContainer injects the dependency container used by the commands
func SetContainer(c *di.Container) {
	container = c
}

var (
	cfgFile  string
	dataDir  string
	logLevel string
	output   string

	// Populated by the root command before any subcommand runs
	appConfig = config.DefaultConfig()
	logger    = logging.Discard()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pit",
	Short: "pitkit - Partition Information Table toolkit",
	Long: `pitkit reads, writes and compares PIT (Partition Information Table)
files, the binary partition layout used by Samsung download mode.

Tables can be printed, searched, repacked and diffed locally, kept as
snapshots in a local archive, or served over an HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		l, err := logging.New(cmd.ErrOrStderr(), cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		appConfig = cfg
		logger = l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: ~/.config/pitkit/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory for the archive")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&output, "output", "", "Output format (table, json)")
}

// annotationCreatesConfig marks commands that may run before a config file exists
const annotationCreatesConfig = "pitkit/creates-config"

// loadConfig reads the config file, if any, and applies flag overrides.
// An explicit --config must exist unless the command creates it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath()

	cfg := config.DefaultConfig()
	_, creates := cmd.Annotations[annotationCreatesConfig]
	switch {
	case creates:
		// init writes the file; an old one may be invalid and about to be replaced
	case cfgFile != "" || config.ConfigExists(path):
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("output") {
		cfg.Output.Format = output
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// configPath returns the config file location the commands read and write
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.GetDefaultConfigPath()
}

// readTableFile unpacks the PIT stored at path
func readTableFile(path string) (*pit.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	t, err := pit.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", path, err)
	}
	logger.Debug("unpacked PIT", "file", path, "entries", t.EntryCount(), "size", len(data))
	return t, nil
}

// openArchive opens the snapshot archive under the configured data directory
func openArchive(cfg *config.Config) (*archive.Archive, error) {
	if container == nil {
		return nil, fmt.Errorf("dependency container not initialized")
	}
	dir := filepath.Join(cfg.DataDir, "archive")
	logger.Debug("opening archive", "dir", dir)
	return container.GetArchiveOpener()(dir)
}

// logWith returns the package logger scoped to a command
func logWith(cmd *cobra.Command) *slog.Logger {
	return logger.With("command", cmd.Name())
}

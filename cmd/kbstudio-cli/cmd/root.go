package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"kbstudio/internal/adapters/schema"
	"kbstudio/internal/adapters/sqlite"
	"kbstudio/internal/config"
	"kbstudio/internal/logging"
	"kbstudio/internal/ports"
)

var (
	storePath string
	logLevel  string
	cfg       *config.Config
	store     *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "kbstudio-cli",
	Short: "CLI for managing workflow documents",
	Long: `kbstudio-cli is a command-line interface for workflow documents made of
nodes, nested blocks and edges.

It stores workflows in a local SQLite database and can copy, paste and
duplicate nodes between them. Pasted node IDs are rewritten so that they
never collide with the IDs of the target workflow.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("store") {
			cfg.StorePath = storePath
		}

		logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}, os.Stderr)
		if err != nil {
			return err
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

		store = sqlite.NewStore()
		return store.Open(cfg.StorePath)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		return store.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", config.StorePath(), "path to the workflow database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
}

// GetStore returns the opened workflow store
func GetStore() ports.WorkflowStore {
	return store
}

// GetValidator returns the workflow schema validator
func GetValidator() (ports.DocumentValidator, error) {
	return schema.NewValidator()
}

// readInput reads path, or stdin when path is empty or "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(config.ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return b, nil
}

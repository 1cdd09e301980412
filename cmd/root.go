// =============================================================================
// SuperSlice ETL - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand
// except 'version' needs the configuration and the logger, which are set up
// once in PersistentPreRunE.
//
// COBRA CLI STRUCTURE:
//   rootCmd (slicetl)
//   ├── processCmd  (slicetl process)
//   ├── validateCmd (slicetl validate)
//   ├── migrateCmd  (slicetl migrate)
//   └── versionCmd  (slicetl version)
//
// STARTUP:
//   1. Load .env from the working directory, if present
//   2. Load config.yaml (or --config)
//   3. Build the logger (--verbose forces debug level)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/bwilly/SuperSliceETL/internal/config"
	"github.com/bwilly/SuperSliceETL/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// cfg and log are set by PersistentPreRunE.
var (
	cfg *config.Config
	log *zap.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "slicetl",
	Short: "SuperSlice ETL - Load POS exports from Slice, Square and Uber Eats",
	Long: `slicetl imports point-of-sale transaction exports into a relational
database. Every row is stored twice: in its platform's own table, and as a
unified order keyed by (platform, external order id).

Exports are dropped into one directory per platform:
  raw_csv/slice/   raw_csv/square/   raw_csv/uber/

Re-importing an export never duplicates or changes stored rows.

Example Usage:
  slicetl process                      # Process every export under raw_csv_dir
  slicetl process --dry-run            # Process but leave files in place
  slicetl validate --file x.csv        # Check a file's headers without writing
  slicetl migrate                      # Create the database tables`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return setup()
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// setup loads the environment, the configuration and the logger.
func setup() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}

	l, err := logger.New(loaded.Logging, "slicetl")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	cfg = loaded
	log = l
	return nil
}

// =============================================================================
// SuperSlice ETL - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the ETL over every
// export found under raw_csv_dir.
//
// COMMAND USAGE:
//   slicetl process [flags]
//
// FLAGS:
//   --dry-run    : Process and write records, but leave files in place
//   --file       : Process only this file
//   --platform   : Process only files in this platform's directory
//
// PROCESSING PIPELINE:
//   1. Scan raw_csv_dir/<platform>/ for files matching file_regex
//   2. Connect to the database (migrating first if auto_migrate is set)
//   3. Run every file through the pipeline, max_concurrency at a time
//   4. Print a summary, then write the run report and metrics if configured
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/bwilly/SuperSliceETL/internal/config"
	"github.com/bwilly/SuperSliceETL/internal/metrics"
	"github.com/bwilly/SuperSliceETL/internal/parsers"
	"github.com/bwilly/SuperSliceETL/internal/pipeline"
	"github.com/bwilly/SuperSliceETL/internal/platform"
	"github.com/bwilly/SuperSliceETL/internal/store"
	"github.com/bwilly/SuperSliceETL/pkg/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	dryRun         bool
	filePath       string
	platformFilter string
)

// ErrNoFiles is returned when a run finds nothing and empty_run is "error".
var ErrNoFiles = errors.New("no export files found")

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Import POS exports into the database",
	Long: `The process command scans raw_csv_dir for exports, one subdirectory per
platform, and imports each file.

Files are processed concurrently. A file that fails classification or its
header check is moved to failed_path; rows that fail to decode or persist are
reported but do not stop the rest of the file.

On completion:
  - Completed files are moved to archive_path (unless --dry-run)
  - A summary is printed
  - A run report is written to report_dir, if set
  - Metrics are written to metrics_textfile, if set`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if dryRun {
			cfg.DryRun = true
		}
		return runProcess(cmd.Context(), cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Leave processed files in place")
	processCmd.Flags().StringVar(&filePath, "file", "", "Process only this file")
	processCmd.Flags().StringVar(&platformFilter, "platform", "", "Process only this platform (slice, square, uber)")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	runID := uuid.New().String()
	log = log.With(zap.String("run_id", runID))
	startTime := time.Now()

	fmt.Println("=== SuperSlice ETL ===")

	// =========================================================================
	// STEP 1: DISCOVER FILES
	// =========================================================================

	fm := utils.NewFileManager(cfg.RawCSVDir, cfg.ArchivePath, cfg.FailedPath, cfg.ArchiveByDate)

	files, err := discover(fm, cfg)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		switch cfg.EmptyRun {
		case config.EmptyRunError:
			return fmt.Errorf("%w in %s", ErrNoFiles, cfg.RawCSVDir)
		case config.EmptyRunWarn:
			log.Warn("no export files found", zap.String("dir", cfg.RawCSVDir))
		default:
			log.Info("no export files found", zap.String("dir", cfg.RawCSVDir))
		}
		fmt.Println("No export files found.")
		return nil
	}

	fmt.Printf("Found %d file(s) to process\n", len(files))

	// =========================================================================
	// STEP 2: CONNECT
	// =========================================================================

	db, err := store.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	if !cfg.DryRun {
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
	}

	// =========================================================================
	// STEP 3: PROCESS
	// =========================================================================

	patterns, err := platform.CompilePatterns(cfg.FileTypeRegexes.Trax, cfg.FileTypeRegexes.Itemz)
	if err != nil {
		return err
	}

	recorder := metrics.New()
	p := pipeline.New(pipeline.Options{
		DryRun:         cfg.DryRun,
		MaxConcurrency: cfg.MaxConcurrency,
		RowConcurrency: cfg.RowConcurrency,
		Patterns:       patterns,
	}, pipeline.Deps{
		Factory: parsers.NewFactory(cfg.Platforms),
		Writer:  db,
		Mover:   fm,
		Metrics: recorder,
		Log:     log,
	})

	fmt.Println("Processing files...")
	outcomes := p.ProcessFiles(ctx, files)

	// =========================================================================
	// STEP 4: SUMMARY
	// =========================================================================

	report := utils.RunReport{
		RunID:     runID,
		StartTime: startTime,
		EndTime:   time.Now(),
		DryRun:    cfg.DryRun,
	}

	var rowErrors int
	for _, out := range outcomes {
		report.Files = append(report.Files, toFileReport(out))
		rowErrors += len(out.RowErrors)

		name := filepath.Base(out.FilePath)
		if out.Succeeded() {
			fmt.Printf("  ✓ %s [%s] %d row(s), %d new\n", name, out.Platform, out.RowCount, out.UnifiedInserted)
		} else {
			fmt.Printf("  ✗ %s: %v\n", name, out.Err)
		}
	}

	succeeded, failed, rows := report.Totals()
	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Run ID:          %s\n", runID)
	fmt.Printf("Total files:     %d\n", len(outcomes))
	fmt.Printf("Successful:      %d\n", succeeded)
	fmt.Printf("Failed:          %d\n", failed)
	fmt.Printf("Rows persisted:  %d\n", rows)
	fmt.Printf("Row errors:      %d\n", rowErrors)
	fmt.Printf("Time elapsed:    %s\n", report.EndTime.Sub(startTime))

	if cfg.ReportDir != "" {
		path, err := utils.WriteRunReport(report, cfg.ReportDir)
		if err != nil {
			log.Error("failed to write run report", zap.Error(err))
		} else {
			fmt.Printf("Report:          %s\n", path)
		}
	}

	if cfg.MetricsTextfile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Error("failed to write metrics", zap.Error(err))
		}
	}

	log.Info("run finished",
		zap.Int("files", len(outcomes)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
		zap.Int("rows", rows))

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(outcomes))
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// discover returns the files selected by the flags.
func discover(fm *utils.FileManager, cfg *config.Config) ([]string, error) {
	if filePath != "" {
		return []string{filePath}, nil
	}

	pattern, err := regexp.Compile(cfg.FileRegex)
	if err != nil {
		return nil, fmt.Errorf("invalid file_regex: %w", err)
	}

	files, err := fm.ScanPlatformDirs(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to discover input files: %w", err)
	}

	if platformFilter == "" {
		return files, nil
	}

	want, err := platform.Parse(platformFilter)
	if err != nil {
		return nil, err
	}

	var selected []string
	for _, f := range files {
		if got, err := platform.Parse(filepath.Base(filepath.Dir(f))); err == nil && got == want {
			selected = append(selected, f)
		}
	}
	return selected, nil
}

// toFileReport flattens an outcome for the run report.
func toFileReport(out pipeline.Outcome) utils.FileReport {
	fr := utils.FileReport{
		Path:             out.FilePath,
		Platform:         out.Platform.String(),
		Status:           out.Status,
		Rows:             out.RowCount,
		Skipped:          out.Skipped,
		IsolatedInserted: out.IsolatedInserted,
		UnifiedInserted:  out.UnifiedInserted,
		MovedTo:          out.MovedTo,
		Duration:         out.Duration,
	}
	if out.Err != nil {
		fr.Error = out.Err.Error()
	} else if out.MoveErr != nil {
		fr.Error = out.MoveErr.Error()
	}
	for _, re := range out.RowErrors {
		fr.RowErrors = append(fr.RowErrors, utils.RowErrorEntry{Row: re.Row, Key: re.Key, Message: re.Err.Error()})
	}
	return fr
}

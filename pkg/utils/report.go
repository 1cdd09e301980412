package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// =============================================================================
// RUN REPORT
// =============================================================================

// RunReport summarizes one process invocation.
type RunReport struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time
	DryRun    bool
	Files     []FileReport
}

// FileReport is the outcome of one file.
type FileReport struct {
	Path             string
	Platform         string
	Status           string
	Rows             int
	Skipped          int
	IsolatedInserted int
	UnifiedInserted  int
	MovedTo          string
	Error            string
	Duration         time.Duration
	RowErrors        []RowErrorEntry
}

// RowErrorEntry is a single failed row.
type RowErrorEntry struct {
	Row     int
	Key     string
	Message string
}

// Totals returns the number of successful files, failed files and rows.
func (r RunReport) Totals() (succeeded, failed, rows int) {
	for _, f := range r.Files {
		if f.Status == "success" {
			succeeded++
		} else {
			failed++
		}
		rows += f.Rows
	}
	return succeeded, failed, rows
}

// WriteRunReport writes the report to dir as run_<timestamp>_<run id>.txt.
//
// PARAMETERS:
//   - report: The run to describe.
//   - dir: The report directory. Created if missing.
//
// RETURNS:
//   - The path to the report file.
//   - An error if writing fails.
func WriteRunReport(report RunReport, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := fmt.Sprintf("run_%s_%s.txt", report.StartTime.Format("20060102_150405"), report.RunID)
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create run report: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	succeeded, failed, rows := report.Totals()

	fmt.Fprintf(w, "SuperSlice ETL - Run Report\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Dry Run:        %t\n\n"+
		"Statistics:\n"+
		"  Total Files:    %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n"+
		"  Rows Persisted: %d\n\n",
		report.RunID,
		report.StartTime.Format("2006-01-02 15:04:05"),
		report.EndTime.Format("2006-01-02 15:04:05"),
		report.EndTime.Sub(report.StartTime).String(),
		report.DryRun,
		len(report.Files),
		succeeded,
		failed,
		rows)

	if len(report.Files) > 0 {
		w.WriteString("Files:\n")
		w.WriteString("--------------------------------------------------------------------------------\n")
	}
	for _, f := range report.Files {
		fmt.Fprintf(w, "  File:      %s\n", f.Path)
		fmt.Fprintf(w, "  Platform:  %s\n", f.Platform)
		fmt.Fprintf(w, "  Status:    %s\n", f.Status)
		fmt.Fprintf(w, "  Rows:      %d (skipped %d, isolated inserted %d, unified inserted %d)\n",
			f.Rows, f.Skipped, f.IsolatedInserted, f.UnifiedInserted)
		fmt.Fprintf(w, "  Duration:  %s\n", f.Duration.String())
		if f.MovedTo != "" {
			fmt.Fprintf(w, "  Moved To:  %s\n", f.MovedTo)
		}
		if f.Error != "" {
			fmt.Fprintf(w, "  Error:     %s\n", f.Error)
		}
		for _, re := range f.RowErrors {
			fmt.Fprintf(w, "    Row %d [%s]: %s\n", re.Row, re.Key, re.Message)
		}
		w.WriteString("\n")
	}

	w.WriteString("================================================================================\n" +
		"End of Report\n")

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush run report: %w", err)
	}

	return path, nil
}

// =============================================================================
// SuperSlice ETL - Main Entry Point
// =============================================================================
//
// USAGE:
//   slicetl process       - Import every export under raw_csv_dir
//   slicetl validate      - Validate configuration and export headers
//   slicetl migrate       - Create the database tables
//   slicetl version       - Display the application version
//
// LAYOUT:
//   cmd/                  : CLI command definitions (Cobra)
//   internal/             : ETL stages, storage, config, logging, metrics
//   pkg/utils/            : File scanning, moves and run reports
//
// =============================================================================

package main

import (
	"github.com/bwilly/SuperSliceETL/cmd"
)

func main() {
	cmd.Execute()
}

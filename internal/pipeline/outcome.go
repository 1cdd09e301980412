package pipeline

import (
	"time"

	"github.com/bwilly/SuperSliceETL/internal/platform"
)

// State is where a file is in its lifecycle.
//
//	Discovered -> Classified -> Decoding -> Completed
//	     |             |            |
//	     +-------------+------------+-----> Aborted
type State int

const (
	Discovered State = iota
	Classified
	Decoding
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case Discovered:
		return "discovered"
	case Classified:
		return "classified"
	case Decoding:
		return "decoding"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Final file statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Row outcomes reported to the metrics recorder.
const (
	RowInserted  = "inserted"
	RowDuplicate = "duplicate"
	RowSkipped   = "skipped"
	RowError     = "error"
)

// RowFailure is a row that could not be decoded or persisted. The rest of
// the file is unaffected.
type RowFailure struct {
	Row int
	Key string
	Err error
}

// Outcome is the result of processing one file.
type Outcome struct {
	FilePath string
	Platform platform.Platform
	Kind     platform.Kind
	State    State
	Status   string

	// RowCount counts rows decoded and persisted without failure,
	// including rows whose keys already existed.
	RowCount int

	// Skipped counts repeated header rows.
	Skipped int

	IsolatedInserted int
	UnifiedInserted  int
	RowErrors        []RowFailure

	// Err is the file-level error that aborted the file.
	Err error

	// MovedTo is the archive or failed path. Empty in dry-run mode.
	MovedTo string

	// MoveErr is set when the file could not be moved. It does not change
	// Status.
	MoveErr error

	Duration time.Duration
}

// Succeeded reports whether the file completed.
func (o Outcome) Succeeded() bool { return o.Status == StatusSuccess }

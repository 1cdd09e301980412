// =============================================================================
// SuperSlice ETL - CSV Row Stream
// =============================================================================
//
// This module reads POS exports one row at a time. The first record is the
// header row; every header is normalized (see NormalizeHeader) before any
// row is handed out, so downstream code only sees canonical keys.
//
// FEATURES:
//   - Single pass, constant memory, suitable for month-long exports
//   - Ragged rows: short rows simply omit the missing columns
//   - Fully blank rows are skipped
//   - Cell text is passed through untouched
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bwilly/SuperSliceETL/internal/types"
)

// ErrNoHeader is returned for a file without a header row.
var ErrNoHeader = errors.New("file has no header row")

// Settings controls how the CSV reader splits records.
type Settings struct {
	// Delimiter is the field separator. Accepts ",", "|", ";", "\t" or the
	// words "tab", "pipe" and "semicolon". Empty means comma.
	Delimiter string
}

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser yields one RawRow per non-blank data record. Headers are
// normalized once, when the parser is opened. RowNumber is the 1-based
// record number within the file, header included.
//
// USAGE:
//   src, err := NewStreamingParser("raw_csv/slice/slice_trax.csv", Settings{})
//   ...
//   defer src.Close()
//   for src.Next() {
//       id, _ := src.Row().Get("order_number")
//   }
//   err = src.Err()
type StreamingParser struct {
	closer     io.Closer
	reader     *csv.Reader
	headers    []string
	currentRow types.RawRow
	rowNumber  int
	err        error
}

// NewStreamingParser opens filePath and reads its header row.
//
// RETURNS:
//   - The parser, positioned before the first data row.
//   - An error if the file cannot be opened, has no header row, or its
//     headers collide after normalization (*HeaderCollisionError).
func NewStreamingParser(filePath string, settings Settings) (*StreamingParser, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	parser, err := NewReaderParser(bufio.NewReader(file), settings)
	if err != nil {
		file.Close()
		return nil, err
	}
	parser.closer = file

	return parser, nil
}

// NewReaderParser reads CSV from r. Close is a no-op unless r came from
// NewStreamingParser.
func NewReaderParser(r io.Reader, settings Settings) (*StreamingParser, error) {
	reader := csv.NewReader(r)
	configureReader(reader, settings)

	parser := &StreamingParser{reader: reader}
	if err := parser.readHeaders(); err != nil {
		return nil, err
	}
	return parser, nil
}

// configureReader applies the settings to the CSV reader.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Ragged rows and stray quotes are accepted.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

// readHeaders reads and normalizes the header row.
func (p *StreamingParser) readHeaders() error {
	for {
		row, err := p.reader.Read()
		if err == io.EOF {
			return ErrNoHeader
		}
		if err != nil {
			return fmt.Errorf("error reading header row: %w", err)
		}
		p.rowNumber++

		// Leading blank lines are tolerated.
		if IsRowEmpty(row) {
			continue
		}

		headers, err := NormalizeHeaders(row)
		if err != nil {
			return err
		}
		p.headers = headers
		return nil
	}
}

// Next advances to the next non-blank row. Returns false at end of input
// or on a read error (see Err).
func (p *StreamingParser) Next() bool {
	for p.err == nil {
		row, err := p.reader.Read()
		if err == io.EOF {
			return false
		}
		if err != nil {
			p.err = fmt.Errorf("error reading row %d: %w", p.rowNumber+1, err)
			return false
		}
		p.rowNumber++

		if IsRowEmpty(row) {
			continue
		}

		p.currentRow = ToRawRow(p.headers, row)
		return true
	}
	return false
}

// Row returns the current row.
func (p *StreamingParser) Row() types.RawRow {
	return p.currentRow
}

// Headers returns the normalized headers.
func (p *StreamingParser) Headers() []string {
	return p.headers
}

// RowNumber returns the 1-indexed record number of the current row. The
// header row is record 1.
func (p *StreamingParser) RowNumber() int {
	return p.rowNumber
}

// Err returns the first read error, if any.
func (p *StreamingParser) Err() error {
	return p.err
}

// Close closes the underlying file.
func (p *StreamingParser) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// ToRawRow zips headers with cells. Cells past the last header are dropped;
// headers past the last cell are left out of the row.
func ToRawRow(headers, cells []string) types.RawRow {
	row := make(types.RawRow, len(headers))
	for i, header := range headers {
		if i >= len(cells) {
			break
		}
		row[header] = cells[i]
	}
	return row
}

// IsRowEmpty reports whether every cell is blank.
func IsRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

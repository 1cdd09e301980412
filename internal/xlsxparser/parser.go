// =============================================================================
// SuperSlice ETL - XLSX Row Stream
// =============================================================================
//
// Some platforms let operators download reports as Excel workbooks instead
// of CSV. This module streams a worksheet with the same contract as the CSV
// StreamingParser: the first non-blank row is the header row, headers are
// normalized, blank rows are skipped and short rows omit missing columns.
//
// WORKSHEET SELECTION:
//   The configured sheet name is used when set; otherwise the first sheet.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"

	"github.com/bwilly/SuperSliceETL/internal/csvparser"
	"github.com/bwilly/SuperSliceETL/internal/types"
	"github.com/xuri/excelize/v2"
)

// Settings selects the worksheet to read.
type Settings struct {
	// Sheet is the worksheet name. Empty means the first sheet.
	Sheet string
}

// StreamingParser yields one RawRow per data row of a worksheet.
type StreamingParser struct {
	file       *excelize.File
	rows       *excelize.Rows
	headers    []string
	currentRow types.RawRow
	rowNumber  int
	err        error
}

// NewStreamingParser opens the workbook and reads the header row.
//
// PARAMETERS:
//   - filePath: The path to the .xlsx file.
//   - settings: Worksheet selection.
//
// RETURNS:
//   - The parser, positioned before the first data row.
//   - An error if the workbook or sheet cannot be opened, the sheet has no
//     header row, or headers collide after normalization.
func NewStreamingParser(filePath string, settings Settings) (*StreamingParser, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheet := settings.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		f.Close()
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	p := &StreamingParser{file: f, rows: rows}
	if err := p.readHeaders(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

func (p *StreamingParser) readHeaders() error {
	for p.rows.Next() {
		p.rowNumber++

		cells, err := p.rows.Columns()
		if err != nil {
			return fmt.Errorf("error reading header row: %w", err)
		}
		if csvparser.IsRowEmpty(cells) {
			continue
		}

		headers, err := csvparser.NormalizeHeaders(cells)
		if err != nil {
			return err
		}
		p.headers = headers
		return nil
	}

	if err := p.rows.Error(); err != nil {
		return fmt.Errorf("error reading header row: %w", err)
	}
	return csvparser.ErrNoHeader
}

// Next advances to the next non-blank row.
func (p *StreamingParser) Next() bool {
	for p.err == nil && p.rows.Next() {
		p.rowNumber++

		cells, err := p.rows.Columns()
		if err != nil {
			p.err = fmt.Errorf("error reading row %d: %w", p.rowNumber, err)
			return false
		}
		if csvparser.IsRowEmpty(cells) {
			continue
		}

		p.currentRow = csvparser.ToRawRow(p.headers, cells)
		return true
	}

	if p.err == nil {
		if err := p.rows.Error(); err != nil {
			p.err = fmt.Errorf("error reading row %d: %w", p.rowNumber+1, err)
		}
	}
	return false
}

// Row returns the current row.
func (p *StreamingParser) Row() types.RawRow { return p.currentRow }

// Headers returns the normalized headers.
func (p *StreamingParser) Headers() []string { return p.headers }

// RowNumber returns the 1-indexed worksheet row of the current row.
func (p *StreamingParser) RowNumber() int { return p.rowNumber }

// Err returns the first read error, if any.
func (p *StreamingParser) Err() error { return p.err }

// Close releases the row iterator and the workbook.
func (p *StreamingParser) Close() error {
	var rowsErr error
	if p.rows != nil {
		rowsErr = p.rows.Close()
	}
	if err := p.file.Close(); err != nil {
		return err
	}
	return rowsErr
}

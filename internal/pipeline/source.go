package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/bwilly/SuperSliceETL/internal/csvparser"
	"github.com/bwilly/SuperSliceETL/internal/parsers"
	"github.com/bwilly/SuperSliceETL/internal/types"
	"github.com/bwilly/SuperSliceETL/internal/xlsxparser"
)

// rowSource is a stream of normalized rows from one export file.
type rowSource interface {
	Next() bool
	Row() types.RawRow
	RowNumber() int
	Headers() []string
	Err() error
	Close() error
}

// openSource opens path as a workbook when it ends in .xlsx and as
// delimited text otherwise.
func openSource(path string, settings parsers.StreamSettings) (rowSource, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		src, err := xlsxparser.NewStreamingParser(path, xlsxparser.Settings{Sheet: settings.Sheet})
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	src, err := csvparser.NewStreamingParser(path, csvparser.Settings{Delimiter: settings.Delimiter})
	if err != nil {
		return nil, err
	}
	return src, nil
}

package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves rows into the first sheet of a new workbook.
func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "uber_trax.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestStreamingParser(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Store", "Order UUID", "Scheduled?"},
		{"Main St", "u-1", "1"},
		{},
		{"Main St", "u-2"},
	})

	p, err := NewStreamingParser(path, Settings{})
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, []string{"store", "order_uuid", "scheduled"}, p.Headers())

	require.True(t, p.Next())
	assert.Equal(t, "u-1", p.Row()["order_uuid"])
	assert.Equal(t, "1", p.Row()["scheduled"])
	assert.Equal(t, 2, p.RowNumber())

	require.True(t, p.Next())
	assert.Equal(t, "u-2", p.Row()["order_uuid"])
	_, ok := p.Row().Get("scheduled")
	assert.False(t, ok)

	assert.False(t, p.Next())
	assert.NoError(t, p.Err())
}

func TestStreamingParserUnknownSheet(t *testing.T) {
	path := writeWorkbook(t, [][]any{{"Store"}})

	_, err := NewStreamingParser(path, Settings{Sheet: "Nope"})
	assert.Error(t, err)
}

func TestStreamingParserEmptySheet(t *testing.T) {
	path := writeWorkbook(t, nil)

	_, err := NewStreamingParser(path, Settings{})
	assert.Error(t, err)
}

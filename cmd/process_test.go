package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bwilly/SuperSliceETL/internal/config"
	"github.com/bwilly/SuperSliceETL/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	t.Setenv("DATABASE_URL", "")
	t.Setenv("SLICETL_DATABASE_DSN", "")
	t.Setenv("SLICETL_DATABASE_DRIVER", "")
	t.Setenv("SLICETL_RAW_CSV_DIR", "")

	c, err := config.Parse([]byte(`
raw_csv_dir: ` + filepath.Join(root, "raw") + `
archive_path: ` + filepath.Join(root, "archive") + `
failed_path: ` + filepath.Join(root, "failed") + `
report_dir: ` + filepath.Join(root, "reports") + `
metrics_textfile: ` + filepath.Join(root, "slicetl.prom") + `
database:
  driver: sqlite
  dsn: ` + filepath.Join(root, "etl.db") + `
  auto_migrate: true
`))
	require.NoError(t, err)
	return c
}

func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		filePath = ""
		platformFilter = ""
	})
}

func writeExport(t *testing.T, c *config.Config, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(c.RawCSVDir, dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunProcess(t *testing.T) {
	resetFlags(t)
	c := testConfig(t)
	writeExport(t, c, "slice", "slice_trax.csv",
		"Order #,Order Date,Customer,Order Type,Subtotal,Prepaid Tip,Tax,Order Total,Status\n"+
			"1001,03-01-2025 01:47 AM,Jane,Pickup,$10.00,,$0.80,$10.80,Completed\n")

	require.NoError(t, runProcess(context.Background(), c, zap.NewNop()))

	assert.FileExists(t, filepath.Join(c.ArchivePath, "slice", "slice_trax.csv"))
	assert.FileExists(t, c.MetricsTextfile)

	reports, err := os.ReadDir(c.ReportDir)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestRunProcessReportsFailedFiles(t *testing.T) {
	resetFlags(t)
	c := testConfig(t)
	writeExport(t, c, "uber", "uber_trax.csv", "Store\nMain St\n")

	err := runProcess(context.Background(), c, zap.NewNop())
	assert.ErrorContains(t, err, "1 of 1 file(s) failed")
	assert.FileExists(t, filepath.Join(c.FailedPath, "uber", "uber_trax.csv"))
}

func TestRunProcessEmptyRunPolicy(t *testing.T) {
	resetFlags(t)
	c := testConfig(t)
	require.NoError(t, os.MkdirAll(c.RawCSVDir, 0755))

	require.NoError(t, runProcess(context.Background(), c, zap.NewNop()))

	c.EmptyRun = config.EmptyRunError
	err := runProcess(context.Background(), c, zap.NewNop())
	assert.True(t, errors.Is(err, ErrNoFiles))
}

func TestDiscoverPlatformFilter(t *testing.T) {
	resetFlags(t)
	c := testConfig(t)
	slice := writeExport(t, c, "slice", "slice_trax.csv", "x")
	writeExport(t, c, "uber", "uber_trax.csv", "x")

	fm := utils.NewFileManager(c.RawCSVDir, c.ArchivePath, c.FailedPath, false)

	platformFilter = "Slice"
	files, err := discover(fm, c)
	require.NoError(t, err)
	assert.Equal(t, []string{slice}, files)

	platformFilter = "doordash"
	_, err = discover(fm, c)
	assert.Error(t, err)

	platformFilter = ""
	filePath = "/some/where/square/square_trax.csv"
	files, err = discover(fm, c)
	require.NoError(t, err)
	assert.Equal(t, []string{filePath}, files)
}

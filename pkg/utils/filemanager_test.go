package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestScanPlatformDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "uber", "uber_trax.csv"), "x")
	writeFile(t, filepath.Join(root, "slice", "slice_trax.CSV"), "x")
	writeFile(t, filepath.Join(root, "slice", "notes.txt"), "x")
	writeFile(t, filepath.Join(root, "top_level.csv"), "x")
	writeFile(t, filepath.Join(root, "square", "nested", "deep.csv"), "x")

	fm := NewFileManager(root, "", "", false)
	files, err := fm.ScanPlatformDirs(regexp.MustCompile(`(?i)\.(csv|xlsx)$`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "slice", "slice_trax.CSV"),
		filepath.Join(root, "uber", "uber_trax.csv"),
	}, files)
}

func TestScanPlatformDirsMissingRoot(t *testing.T) {
	fm := NewFileManager(filepath.Join(t.TempDir(), "absent"), "", "", false)
	_, err := fm.ScanPlatformDirs(nil)
	assert.Error(t, err)
}

func TestMoveKeepsPlatformDirectory(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "raw", "square", "square_trax.csv")
	writeFile(t, src, "data")

	fm := NewFileManager(filepath.Join(root, "raw"), filepath.Join(root, "archive"), filepath.Join(root, "failed"), false)
	dest, err := fm.Archive(src)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "archive", "square", "square_trax.csv"), dest)
	assert.NoFileExists(t, src)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestMoveByDate(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "raw", "uber", "uber_trax.csv")
	writeFile(t, src, "data")

	fm := NewFileManager(filepath.Join(root, "raw"), filepath.Join(root, "archive"), filepath.Join(root, "failed"), true)
	fm.now = func() time.Time { return time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC) }

	dest, err := fm.Fail(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "failed", "uber", "2024", "01", "05", "uber_trax.csv"), dest)
}

func TestMoveDoesNotOverwrite(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(root, "archive")
	writeFile(t, filepath.Join(archive, "slice", "slice_trax.csv"), "old")

	src := filepath.Join(root, "raw", "slice", "slice_trax.csv")
	writeFile(t, src, "new")

	fm := NewFileManager(filepath.Join(root, "raw"), archive, filepath.Join(root, "failed"), false)
	dest, err := fm.Archive(src)
	require.NoError(t, err)

	assert.NotEqual(t, filepath.Join(archive, "slice", "slice_trax.csv"), dest)
	assert.True(t, strings.HasPrefix(filepath.Base(dest), "slice_trax_"))
	assert.Equal(t, ".csv", filepath.Ext(dest))

	old, err := os.ReadFile(filepath.Join(archive, "slice", "slice_trax.csv"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

func TestMoveMissingSource(t *testing.T) {
	root := t.TempDir()
	fm := NewFileManager(root, filepath.Join(root, "archive"), filepath.Join(root, "failed"), false)

	_, err := fm.Archive(filepath.Join(root, "slice", "absent.csv"))
	assert.Error(t, err)
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	fm := NewFileManager(root, filepath.Join(root, "a", "b"), filepath.Join(root, "f"), false)

	require.NoError(t, fm.EnsureDirectories())
	assert.DirExists(t, filepath.Join(root, "a", "b"))
	assert.DirExists(t, filepath.Join(root, "f"))
}

func TestWriteRunReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	start := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

	report := RunReport{
		RunID:     "abc",
		StartTime: start,
		EndTime:   start.Add(2 * time.Second),
		Files: []FileReport{
			{Path: "raw/slice/slice_trax.csv", Platform: "slice", Status: "success", Rows: 3, UnifiedInserted: 3},
			{
				Path: "raw/uber/uber_trax.csv", Platform: "uber", Status: "failed", Error: "missing headers",
				RowErrors: []RowErrorEntry{{Row: 4, Key: "U-1", Message: "bad timestamp"}},
			},
		},
	}

	succeeded, failed, rows := report.Totals()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 3, rows)

	path, err := WriteRunReport(report, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run_20240301_083000_abc.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Run ID:         abc")
	assert.Contains(t, text, "Successful:     1")
	assert.Contains(t, text, "Error:     missing headers")
	assert.Contains(t, text, "Row 4 [U-1]: bad timestamp")
}

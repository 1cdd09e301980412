// =============================================================================
// SuperSlice ETL - File Manager Utility
// =============================================================================
//
// File handling around the pipeline:
//   - Scanning the platform directories under the raw export directory
//   - Moving finished files to the archive or failed directory
//   - Writing the per-run report
//
// LAYOUT:
//   raw_csv/<platform>/<export>.csv      input, one directory per platform
//   archive/<platform>/<export>.csv      completed files
//   failed/<platform>/<export>.csv       aborted files
//
// With ArchiveByDate the destination gains a YYYY/MM/DD level below the
// platform directory. A file already present at the destination is never
// overwritten; the moved file gets a short unique suffix instead.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the pipeline.
type FileManager struct {
	// RawDir holds one subdirectory per platform.
	RawDir string

	// ArchiveDir receives completed files.
	ArchiveDir string

	// FailedDir receives aborted files.
	FailedDir string

	// ArchiveByDate adds YYYY/MM/DD subdirectories to every destination.
	// Example: archive/slice/2024/01/15/slice_trax.csv
	ArchiveByDate bool

	now func() time.Time
}

// NewFileManager creates a FileManager for the given directories.
func NewFileManager(rawDir, archiveDir, failedDir string, archiveByDate bool) *FileManager {
	return &FileManager{
		RawDir:        rawDir,
		ArchiveDir:    archiveDir,
		FailedDir:     failedDir,
		ArchiveByDate: archiveByDate,
		now:           time.Now,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the archive and failed directories.
//
// RETURNS:
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.ArchiveDir, fm.FailedDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// ScanPlatformDirs lists the files one level below RawDir whose base name
// matches pattern. Files directly in RawDir and deeper nesting are ignored.
//
// PARAMETERS:
//   - pattern: Matched against the base name. nil matches everything.
//
// RETURNS:
//   - The matching paths, sorted.
//   - An error if RawDir or one of its subdirectories cannot be read.
func (fm *FileManager) ScanPlatformDirs(pattern *regexp.Regexp) ([]string, error) {
	entries, err := os.ReadDir(fm.RawDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fm.RawDir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(fm.RawDir, entry.Name())
		children, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", dir, err)
		}

		for _, child := range children {
			if child.IsDir() {
				continue
			}
			if pattern != nil && !pattern.MatchString(child.Name()) {
				continue
			}
			files = append(files, filepath.Join(dir, child.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// =============================================================================
// FILE MOVES
// =============================================================================

// Move moves path below destRoot, keeping its platform directory.
//
// PARAMETERS:
//   - path: The processed file.
//   - destRoot: ArchiveDir or FailedDir.
//
// RETURNS:
//   - The new path of the file.
//   - An error if the file could not be moved. The original is left in
//     place in that case.
func (fm *FileManager) Move(path, destRoot string) (string, error) {
	dir := filepath.Join(destRoot, filepath.Base(filepath.Dir(path)))
	if fm.ArchiveByDate {
		now := fm.clock()
		dir = filepath.Join(dir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	dest, err := freeName(dir, filepath.Base(path))
	if err != nil {
		return "", err
	}

	if err := os.Rename(path, dest); err != nil {
		// Cross-device rename: copy, then remove the original.
		if err := copyFile(path, dest); err != nil {
			os.Remove(dest)
			return "", fmt.Errorf("failed to copy %s: %w", path, err)
		}
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return dest, nil
}

// Archive moves a completed file to ArchiveDir.
func (fm *FileManager) Archive(path string) (string, error) {
	return fm.Move(path, fm.ArchiveDir)
}

// Fail moves an aborted file to FailedDir.
func (fm *FileManager) Fail(path string) (string, error) {
	return fm.Move(path, fm.FailedDir)
}

func (fm *FileManager) clock() time.Time {
	if fm.now == nil {
		return time.Now()
	}
	return fm.now()
}

// freeName returns dir/name, or dir/<stem>_<id><ext> if that is taken.
func freeName(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	_, err := os.Stat(candidate)
	if errors.Is(err, os.ErrNotExist) {
		return candidate, nil
	}
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, suffix, ext)), nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// =============================================================================
// SuperSlice ETL - Platform Classification
// =============================================================================
//
// This package defines the closed set of source platforms and record kinds,
// and classifies an input file into a (platform, kind) pair.
//
// CLASSIFICATION RULES:
//   - The platform is the name of the file's containing directory
//     (raw_csv/slice/..., raw_csv/square/..., raw_csv/uber/...), compared
//     case-insensitively.
//   - The record kind is decided by matching the file path against the
//     configured trax and itemz patterns. Trax wins when both match.
//   - Anything else is a ClassificationError.
//
// =============================================================================

package platform

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// =============================================================================
// PLATFORM ENUM
// =============================================================================

// Platform identifies the POS system that produced an export.
type Platform int

const (
	// Unknown is the zero value and never a valid classification.
	Unknown Platform = iota
	Slice
	Square
	Uber
)

// All lists every supported platform in a stable order.
var All = []Platform{Slice, Square, Uber}

// String returns the lowercase platform name used in directory names,
// config keys and the unified table.
func (p Platform) String() string {
	switch p {
	case Slice:
		return "slice"
	case Square:
		return "square"
	case Uber:
		return "uber"
	default:
		return "unknown"
	}
}

// Parse converts a platform name into a Platform.
func Parse(name string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "slice":
		return Slice, nil
	case "square":
		return Square, nil
	case "uber":
		return Uber, nil
	}
	return Unknown, fmt.Errorf("unknown platform %q", name)
}

// =============================================================================
// RECORD KIND ENUM
// =============================================================================

// Kind is the record kind carried by a file.
type Kind int

const (
	KindUnknown Kind = iota
	// Trax files carry one row per order or transaction.
	Trax
	// Itemz files carry itemized order lines.
	Itemz
)

func (k Kind) String() string {
	switch k {
	case Trax:
		return "trax"
	case Itemz:
		return "itemz"
	default:
		return "unknown"
	}
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Patterns holds the compiled file-type patterns.
type Patterns struct {
	Trax  *regexp.Regexp
	Itemz *regexp.Regexp
}

// CompilePatterns compiles the trax and itemz patterns. Both are matched
// case-insensitively.
func CompilePatterns(trax, itemz string) (Patterns, error) {
	var p Patterns
	var err error

	if p.Trax, err = compileFold(trax); err != nil {
		return Patterns{}, fmt.Errorf("invalid trax pattern: %w", err)
	}
	if p.Itemz, err = compileFold(itemz); err != nil {
		return Patterns{}, fmt.Errorf("invalid itemz pattern: %w", err)
	}

	return p, nil
}

func compileFold(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	if !strings.HasPrefix(expr, "(?i)") {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}

// ClassificationError reports a file that cannot be assigned a platform or
// a record kind. It is fatal for that file.
type ClassificationError struct {
	Path   string
	Reason string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("cannot classify %s: %s", e.Path, e.Reason)
}

// Classify determines the platform and record kind of the file at path.
//
// PARAMETERS:
//   - path: The file path. Its parent directory names the platform.
//   - patterns: The compiled trax/itemz patterns.
//
// RETURNS:
//   - The platform and kind.
//   - A *ClassificationError when either cannot be determined.
func Classify(path string, patterns Patterns) (Platform, Kind, error) {
	dir := filepath.Base(filepath.Dir(path))

	p, err := Parse(dir)
	if err != nil {
		return Unknown, KindUnknown, &ClassificationError{
			Path:   path,
			Reason: fmt.Sprintf("directory %q is not a known platform", dir),
		}
	}

	switch {
	case patterns.Trax != nil && patterns.Trax.MatchString(path):
		return p, Trax, nil
	case patterns.Itemz != nil && patterns.Itemz.MatchString(path):
		return p, Itemz, nil
	}

	return p, KindUnknown, &ClassificationError{
		Path:   path,
		Reason: "file name matches neither the trax nor the itemz pattern",
	}
}

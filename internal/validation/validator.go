// =============================================================================
// SuperSlice ETL - Record Validation
// =============================================================================
//
// This module holds the checks that decide whether a file, and then each row
// of it, is accepted for a platform.
//
// VALIDATION LEVELS:
//   1. File-level: every expected header must be present after
//      normalization. A miss is a HeaderContractError and the whole file is
//      rejected, since it means a wrong or stale export format.
//   2. Row-level: a blank natural key or a non-empty cell that fails
//      coercion is a RowDecodeError. The row is rejected and the file
//      continues.
//
// REPEATED HEADERS:
//   Some exports repeat the header row mid-file. A row whose natural-key
//   cell is the key column's own header label is skipped silently.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/bwilly/SuperSliceETL/internal/csvparser"
	"github.com/bwilly/SuperSliceETL/internal/platform"
	"github.com/bwilly/SuperSliceETL/internal/types"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// HeaderContractError reports expected headers missing from a file.
type HeaderContractError struct {
	Platform platform.Platform
	Missing  []string
}

func (e *HeaderContractError) Error() string {
	return fmt.Sprintf("%s export is missing %d expected header(s): %s",
		e.Platform, len(e.Missing), strings.Join(e.Missing, ", "))
}

// RowDecodeError reports a rejected row.
type RowDecodeError struct {
	// Row is the 1-indexed record number in the source file.
	Row int

	// Field is the normalized header of the offending column.
	Field string

	// Value is the raw cell text.
	Value string

	// Reason is a short human-readable explanation.
	Reason string

	// Err is the underlying coercion error, if any.
	Err error
}

func (e *RowDecodeError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d, field '%s': %s", e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d, field '%s': %s (value: '%s')", e.Row, e.Field, e.Reason, e.Value)
}

func (e *RowDecodeError) Unwrap() error { return e.Err }

// =============================================================================
// HEADER CONTRACT
// =============================================================================

// Contract is a platform's expected header set and natural-key column.
type Contract struct {
	Platform platform.Platform

	// Expected holds normalized header keys in export order.
	Expected []string

	// KeyColumn is the normalized natural-key header.
	KeyColumn string
}

// NewContract normalizes the expected headers and key column.
func NewContract(p platform.Platform, expected []string, keyColumn string) Contract {
	normalized := make([]string, 0, len(expected))
	for _, h := range expected {
		normalized = append(normalized, csvparser.NormalizeHeader(h))
	}
	return Contract{
		Platform:  p,
		Expected:  normalized,
		KeyColumn: csvparser.NormalizeHeader(keyColumn),
	}
}

// Check verifies every expected header is present.
//
// PARAMETERS:
//   - headers: The file's normalized headers.
//
// RETURNS:
//   - nil when the file satisfies the contract.
//   - A *HeaderContractError listing every missing header in contract order.
func (c Contract) Check(headers []string) error {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}

	var missing []string
	for _, exp := range c.Expected {
		if _, ok := present[exp]; !ok {
			missing = append(missing, exp)
		}
	}

	// The key column is required even if a config leaves it out.
	if _, ok := present[c.KeyColumn]; !ok && !contains(missing, c.KeyColumn) {
		missing = append(missing, c.KeyColumn)
	}

	if len(missing) > 0 {
		return &HeaderContractError{Platform: c.Platform, Missing: missing}
	}
	return nil
}

// IsRepeatedHeader reports whether row is a header row repeated as data.
func (c Contract) IsRepeatedHeader(row types.RawRow) bool {
	cell, ok := row[c.KeyColumn]
	if !ok || strings.TrimSpace(cell) == "" {
		return false
	}
	return csvparser.NormalizeHeader(cell) == c.KeyColumn
}

// =============================================================================
// ROW CHECKS
// =============================================================================

// RequireKey returns the trimmed natural key or a RowDecodeError if blank.
func (c Contract) RequireKey(row types.RawRow, rowNumber int) (string, error) {
	key := strings.TrimSpace(row[c.KeyColumn])
	if key == "" {
		return "", &RowDecodeError{
			Row:    rowNumber,
			Field:  c.KeyColumn,
			Reason: "natural key is blank",
		}
	}
	return key, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

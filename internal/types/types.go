// =============================================================================
// SuperSlice ETL - Shared Types
// =============================================================================
//
// This package contains the record types shared by the parsers, the store
// and the pipeline. Keeping them here avoids import cycles between those
// packages.
//
//   RawRow          one decoded source row keyed by normalized header
//   PlatformRecord  a typed, platform-shaped row (isolated tables)
//   UnifiedRecord   the cross-platform row (unified table)
//
// =============================================================================

package types

import (
	"time"

	"github.com/bwilly/SuperSliceETL/internal/platform"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RAW ROW
// =============================================================================

// RawRow maps a normalized header to the cell text exactly as read.
// Columns missing from a short row are absent from the map.
type RawRow map[string]string

// Get returns the cell for key and whether the column was present.
func (r RawRow) Get(key string) (string, bool) {
	v, ok := r[key]
	return v, ok
}

// Without returns the cells whose keys are not in consumed.
// The returned map is never nil.
func (r RawRow) Without(consumed map[string]struct{}) map[string]string {
	out := make(map[string]string, len(r))
	for k, v := range r {
		if _, ok := consumed[k]; ok {
			continue
		}
		out[k] = v
	}
	return out
}

// =============================================================================
// PLATFORM RECORD
// =============================================================================

// PlatformRecord is a typed row in a platform's own shape. Each platform's
// isolated table holds exactly one record per natural key.
type PlatformRecord interface {
	// Platform reports which platform produced the record.
	Platform() platform.Platform

	// NaturalKey is the platform-native order or transaction identifier.
	// It is never blank on a decoded record.
	NaturalKey() string

	// NaturalKeyColumn names the unique column that holds NaturalKey.
	NaturalKeyColumn() string

	// TableName is the isolated table for the record.
	TableName() string
}

// =============================================================================
// UNIFIED RECORD
// =============================================================================

// UnifiedRecord is the cross-platform order row. Its identity is
// (Platform, ExternalOrderID).
type UnifiedRecord struct {
	Platform        platform.Platform
	ExternalOrderID string
	OrderTimestamp  *time.Time
	Customer        *string
	Store           *string
	FulfillmentType *string
	OrderStatus     *string
	OrderTotal      decimal.NullDecimal
	Tip             decimal.NullDecimal
	Tax             decimal.NullDecimal

	// Metadata holds every source column the fields above do not consume,
	// as the raw cell text.
	Metadata map[string]string

	SourceFile string
}

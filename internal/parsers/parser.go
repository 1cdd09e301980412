// =============================================================================
// SuperSlice ETL - Platform Parsers
// =============================================================================
//
// A Parser turns normalized rows of one platform's export into typed
// PlatformRecords and maps those records onto the unified order schema.
//
// COMPONENTS PER PLATFORM:
//   - Contract: expected headers and the natural-key column
//   - Decode:   RawRow -> PlatformRecord (coercion + row validation)
//   - Unify:    PlatformRecord -> UnifiedRecord (pure, no I/O)
//
// Platform differences live in the per-platform files (slice.go,
// square.go, uber.go). Everything else, including the coercers, is shared.
//
// =============================================================================

package parsers

import (
	"fmt"
	"time"

	"github.com/bwilly/SuperSliceETL/internal/coerce"
	"github.com/bwilly/SuperSliceETL/internal/config"
	"github.com/bwilly/SuperSliceETL/internal/platform"
	"github.com/bwilly/SuperSliceETL/internal/types"
	"github.com/bwilly/SuperSliceETL/internal/validation"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PARSER INTERFACE
// =============================================================================

// Parser decodes and unifies rows for one platform.
type Parser interface {
	Platform() platform.Platform

	// Contract is the header contract files must satisfy.
	Contract() validation.Contract

	// WriteIsolated reports whether records go to the isolated table.
	WriteIsolated() bool

	// Stream returns the row-source settings for the platform.
	Stream() StreamSettings

	// Decode builds a typed record from a row. Errors are
	// *validation.RowDecodeError.
	Decode(row types.RawRow, rowNumber int, sourceFile string) (types.PlatformRecord, error)

	// Unify maps a record produced by Decode onto the unified schema.
	Unify(rec types.PlatformRecord) (types.UnifiedRecord, error)
}

// StreamSettings are passed to the row source opened for a file.
type StreamSettings struct {
	Delimiter string
	Sheet     string
}

// =============================================================================
// SHARED IMPLEMENTATION
// =============================================================================

// defaults are a platform's built-in rules.
type defaults struct {
	headers   []string
	keyColumn string
	layouts   []string
}

// base holds the resolved settings every platform parser shares.
type base struct {
	contract validation.Contract
	format   coerce.TimeFormat
	truthy   []string
	isolated bool
	stream   StreamSettings
}

// resolve merges a platform's config over its defaults.
func resolve(p platform.Platform, pc config.PlatformConfig, d defaults) (base, error) {
	loc, err := pc.Location()
	if err != nil {
		return base{}, fmt.Errorf("%s timezone: %w", p, err)
	}

	headers := d.headers
	if len(pc.ExpectedHeaders) > 0 {
		headers = pc.ExpectedHeaders
	}
	layouts := d.layouts
	if len(pc.TimestampLayouts) > 0 {
		layouts = pc.TimestampLayouts
	}
	truthy := pc.TruthyValues
	if len(truthy) == 0 {
		truthy = coerce.DefaultTruthy
	}

	return base{
		contract: validation.NewContract(p, headers, d.keyColumn),
		format:   coerce.TimeFormat{Layouts: layouts, Location: loc},
		truthy:   truthy,
		isolated: pc.IsolatedEnabled(),
		stream:   StreamSettings{Delimiter: pc.Delimiter, Sheet: pc.Sheet},
	}, nil
}

// parser adapts a platform's decode and unify functions to Parser.
type parser[R types.PlatformRecord] struct {
	base
	decode func(d *decoder, key string) R
	unify  func(R) types.UnifiedRecord
}

func (p *parser[R]) Platform() platform.Platform   { return p.contract.Platform }
func (p *parser[R]) Contract() validation.Contract { return p.contract }
func (p *parser[R]) WriteIsolated() bool           { return p.isolated }
func (p *parser[R]) Stream() StreamSettings        { return p.stream }

func (p *parser[R]) Decode(row types.RawRow, rowNumber int, sourceFile string) (types.PlatformRecord, error) {
	key, err := p.contract.RequireKey(row, rowNumber)
	if err != nil {
		return nil, err
	}

	d := &decoder{
		row:        row,
		rowNumber:  rowNumber,
		sourceFile: sourceFile,
		format:     p.format,
		truthy:     p.truthy,
	}
	rec := p.decode(d, key)
	if d.err != nil {
		return nil, d.err
	}
	return rec, nil
}

func (p *parser[R]) Unify(rec types.PlatformRecord) (types.UnifiedRecord, error) {
	r, ok := rec.(R)
	if !ok {
		return types.UnifiedRecord{}, fmt.Errorf("%s parser cannot unify a %T", p.Platform(), rec)
	}
	return p.unify(r), nil
}

// =============================================================================
// ROW DECODER
// =============================================================================

// decoder reads typed values out of a row. The first coercion failure is
// kept and the rest of the row is still read, so one error is reported
// per row.
type decoder struct {
	row        types.RawRow
	rowNumber  int
	sourceFile string
	format     coerce.TimeFormat
	truthy     []string
	err        error
}

func (d *decoder) text(key string) *string {
	return coerce.MaybeNull(d.row[key])
}

func (d *decoder) money(key string) decimal.NullDecimal {
	return coerce.ParseMoney(d.row[key])
}

func (d *decoder) number(key string) decimal.NullDecimal {
	return coerce.ParseNumber(d.row[key])
}

func (d *decoder) integer(key string) *int64 {
	return coerce.ParseInt(d.row[key])
}

func (d *decoder) flag(key string) bool {
	return coerce.ParseFlagBoolean(d.row[key], d.truthy)
}

func (d *decoder) timestamp(key string) *time.Time {
	return d.timestampValue(key, d.row[key])
}

// timestampValue parses a value that may be assembled from several cells.
// field names it in errors.
func (d *decoder) timestampValue(field, raw string) *time.Time {
	t, err := coerce.ParseFlexibleTimestamp(raw, d.format)
	if err != nil {
		if d.err == nil {
			d.err = &validation.RowDecodeError{
				Row:    d.rowNumber,
				Field:  field,
				Value:  raw,
				Reason: "malformed timestamp",
				Err:    err,
			}
		}
		return nil
	}
	return t
}

// extras returns the row's cells outside consumed.
func (d *decoder) extras(consumed map[string]struct{}) map[string]string {
	return d.row.Without(consumed)
}

// columnSet builds a lookup set from column names.
func columnSet(cols ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		set[c] = struct{}{}
	}
	return set
}

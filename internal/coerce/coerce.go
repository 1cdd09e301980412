// =============================================================================
// SuperSlice ETL - Field Coercers
// =============================================================================
//
// Shared, pure conversions from raw cell text to typed values. Every
// platform decoder uses these; per-platform behavior comes only from the
// TimeFormat and truthy sentinels passed in.
//
// ABSENT VS. ERROR:
//   Blank input is always "absent" (nil / invalid NullDecimal), never an
//   error. The only coercion that can fail is a non-empty timestamp that
//   no layout accepts.
//
// =============================================================================

package coerce

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// nonMoney matches everything ParseMoney discards.
var nonMoney = regexp.MustCompile(`[^0-9.\-]`)

// DefaultTruthy is the sentinel set used when a platform configures none.
var DefaultTruthy = []string{"1", "true"}

// =============================================================================
// TEXT
// =============================================================================

// MaybeNull trims raw and returns nil when nothing is left.
func MaybeNull(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	return &v
}

// =============================================================================
// NUMBERS
// =============================================================================

// ParseMoney strips every character that is not a digit, '.' or '-' and
// parses the rest as a decimal. Anything that does not parse is absent.
//
// EXAMPLES:
//   "$10.80"    -> 10.80
//   "-$1,234.5" -> -1234.5
//   ""          -> absent
//   "N/A"       -> absent
func ParseMoney(raw string) decimal.NullDecimal {
	cleaned := nonMoney.ReplaceAllString(raw, "")
	if cleaned == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParseNumber parses a plain numeric cell such as a duration in minutes or
// a fee rate. No characters are stripped besides surrounding whitespace.
func ParseNumber(raw string) decimal.NullDecimal {
	v := strings.TrimSpace(raw)
	if v == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParseInt parses an integer count. Blank or non-integer input is absent.
func ParseInt(raw string) *int64 {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// =============================================================================
// BOOLEANS
// =============================================================================

// ParseFlagBoolean reports whether the trimmed raw value equals one of the
// truthy sentinels. When truthy is empty, DefaultTruthy applies.
func ParseFlagBoolean(raw string, truthy []string) bool {
	if len(truthy) == 0 {
		truthy = DefaultTruthy
	}
	v := strings.TrimSpace(raw)
	for _, t := range truthy {
		if v == t {
			return true
		}
	}
	return false
}

// =============================================================================
// TIMESTAMPS
// =============================================================================

// TimeFormat describes how a platform writes timestamps.
type TimeFormat struct {
	// Layouts are Go reference layouts tried in order.
	Layouts []string

	// Location is used for values without a zone. Nil means UTC.
	Location *time.Location
}

// TimestampError reports a non-empty value that could not be parsed.
type TimestampError struct {
	Value string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("unparseable timestamp %q", e.Value)
}

// ParseFlexibleTimestamp parses raw with the configured layouts first and
// falls back to generic date parsing.
//
// RETURNS:
//   - nil, nil for blank input.
//   - The parsed time.
//   - A *TimestampError for non-empty input nothing accepts.
func ParseFlexibleTimestamp(raw string, format TimeFormat) (*time.Time, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil
	}

	loc := format.Location
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range format.Layouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return &t, nil
		}
	}

	t, err := dateparse.ParseIn(v, loc)
	if err != nil {
		return nil, &TimestampError{Value: raw}
	}
	return &t, nil
}

// JoinDateTime joins separate date and time cells with a single space,
// ignoring blank parts.
func JoinDateTime(date, clock string) string {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	switch {
	case date == "":
		return clock
	case clock == "":
		return date
	}
	return date + " " + clock
}

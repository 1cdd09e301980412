package coerce

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		valid bool
	}{
		{"$10.80", "10.8", true},
		{"  $0.80 ", "0.8", true},
		{"-$1,234.50", "-1234.5", true},
		{"25", "25", true},
		{"", "", false},
		{"   ", "", false},
		{"N/A", "", false},
		{"$", "", false},
		{"1.2.3", "", false},
		{"-", "", false},
	}

	for _, tt := range tests {
		got := ParseMoney(tt.raw)
		assert.Equal(t, tt.valid, got.Valid, "raw %q", tt.raw)
		if tt.valid {
			assert.Equal(t, tt.want, got.Decimal.String(), "raw %q", tt.raw)
		}
	}
}

func FuzzParseMoney(f *testing.F) {
	for _, seed := range []string{"$10.80", "", "abc", "-", "1e309", "..", "-0.0", "$1,000,000.999"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, raw string) {
		got := ParseMoney(raw)
		if !got.Valid {
			return
		}
		// A valid result must round-trip through its own string form.
		again := ParseMoney(got.Decimal.String())
		if !again.Valid || !again.Decimal.Equal(got.Decimal) {
			t.Fatalf("ParseMoney(%q) = %s does not round-trip", raw, got.Decimal)
		}
	})
}

func TestParseNumberAndInt(t *testing.T) {
	assert.Equal(t, "12.5", ParseNumber(" 12.5 ").Decimal.String())
	assert.False(t, ParseNumber("12 min").Valid)
	assert.False(t, ParseNumber("").Valid)

	n := ParseInt("3")
	require.NotNil(t, n)
	assert.Equal(t, int64(3), *n)
	assert.Nil(t, ParseInt("3.5"))
	assert.Nil(t, ParseInt(""))
}

func TestParseFlagBoolean(t *testing.T) {
	assert.True(t, ParseFlagBoolean("1", nil))
	assert.True(t, ParseFlagBoolean(" true ", nil))
	assert.False(t, ParseFlagBoolean("TRUE", nil))
	assert.False(t, ParseFlagBoolean("0", nil))
	assert.False(t, ParseFlagBoolean("", nil))
	assert.True(t, ParseFlagBoolean("Y", []string{"Y"}))
	assert.False(t, ParseFlagBoolean("1", []string{"Y"}))
}

func TestMaybeNull(t *testing.T) {
	assert.Nil(t, MaybeNull("   "))
	v := MaybeNull("  Jane ")
	require.NotNil(t, v)
	assert.Equal(t, "Jane", *v)
}

func TestParseFlexibleTimestamp(t *testing.T) {
	slice := TimeFormat{Layouts: []string{"01-02-2006 03:04 PM"}}

	got, err := ParseFlexibleTimestamp("03-01-2025 01:47 AM", slice)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 1, 1, 47, 0, 0, time.UTC), *got)

	got, err = ParseFlexibleTimestamp("  ", slice)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseFlexibleTimestamp("not a date", slice)
	var te *TimestampError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "not a date", te.Value)
}

func TestParseFlexibleTimestampFallback(t *testing.T) {
	got, err := ParseFlexibleTimestamp("2025-04-09 14:30", TimeFormat{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 9, 14, 30, 0, 0, time.UTC), *got)
}

func TestParseFlexibleTimestampLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	got, err := ParseFlexibleTimestamp("2025-04-09 14:30", TimeFormat{
		Layouts:  []string{"2006-01-02 15:04"},
		Location: loc,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 9, 19, 30, 0, 0, time.UTC), got.UTC())
}

func TestJoinDateTime(t *testing.T) {
	assert.Equal(t, "2025-04-09 14:30", JoinDateTime(" 2025-04-09", "14:30 "))
	assert.Equal(t, "2025-04-09", JoinDateTime("2025-04-09", ""))
	assert.Equal(t, "", JoinDateTime("", ""))
}

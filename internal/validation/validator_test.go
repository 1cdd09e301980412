package validation

import (
	"errors"
	"testing"

	"github.com/bwilly/SuperSliceETL/internal/coerce"
	"github.com/bwilly/SuperSliceETL/internal/platform"
	"github.com/bwilly/SuperSliceETL/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sliceContract() Contract {
	return NewContract(platform.Slice,
		[]string{"Order #", "Order Date", "Customer", "Order Total"},
		"order_number")
}

func TestNewContractNormalizes(t *testing.T) {
	c := sliceContract()
	assert.Equal(t, []string{"order_number", "order_date", "customer", "order_total"}, c.Expected)
	assert.Equal(t, "order_number", c.KeyColumn)
}

func TestCheck(t *testing.T) {
	c := sliceContract()

	assert.NoError(t, c.Check([]string{"order_number", "order_date", "customer", "order_total", "extra"}))

	err := c.Check([]string{"order_number", "customer"})
	var hce *HeaderContractError
	require.True(t, errors.As(err, &hce))
	assert.Equal(t, []string{"order_date", "order_total"}, hce.Missing)
	assert.Contains(t, err.Error(), "order_date, order_total")
}

func TestCheckRequiresKeyColumn(t *testing.T) {
	c := NewContract(platform.Uber, []string{"Store"}, "order_uuid")

	err := c.Check([]string{"store"})
	var hce *HeaderContractError
	require.True(t, errors.As(err, &hce))
	assert.Equal(t, []string{"order_uuid"}, hce.Missing)
}

func TestIsRepeatedHeader(t *testing.T) {
	c := sliceContract()

	tests := []struct {
		cell string
		want bool
	}{
		{"Order #", true},
		{"order_number", true},
		{" ORDER # ", true},
		{"1001", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.IsRepeatedHeader(types.RawRow{"order_number": tt.cell}), "cell %q", tt.cell)
	}

	assert.False(t, c.IsRepeatedHeader(types.RawRow{"customer": "Customer"}))
}

func TestRequireKey(t *testing.T) {
	c := sliceContract()

	key, err := c.RequireKey(types.RawRow{"order_number": " 1001 "}, 2)
	require.NoError(t, err)
	assert.Equal(t, "1001", key)

	_, err = c.RequireKey(types.RawRow{"order_number": "  "}, 7)
	var rde *RowDecodeError
	require.True(t, errors.As(err, &rde))
	assert.Equal(t, 7, rde.Row)
	assert.Equal(t, "order_number", rde.Field)
}

func TestRowDecodeErrorUnwrap(t *testing.T) {
	err := &RowDecodeError{Row: 3, Field: "order_date", Value: "garbage", Reason: "bad timestamp",
		Err: &coerce.TimestampError{Value: "garbage"}}

	var te *coerce.TimestampError
	assert.True(t, errors.As(err, &te))
	assert.Contains(t, err.Error(), "row 3")
}

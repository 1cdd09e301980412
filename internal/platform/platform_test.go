package platform

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, name := range []string{"slice", "Square", " UBER "} {
		p, err := Parse(name)
		require.NoError(t, err, name)
		assert.NotEqual(t, Unknown, p)
	}

	_, err := Parse("doordash")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	patterns, err := CompilePatterns("trax", "itemz")
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		platform Platform
		kind     Kind
		wantErr  bool
	}{
		{"slice trax", filepath.Join("raw", "slice", "slice_trax_2025-03-01.csv"), Slice, Trax, false},
		{"square upper case", filepath.Join("raw", "Square", "SQUARE_TRAX.csv"), Square, Trax, false},
		{"uber itemz", filepath.Join("raw", "uber", "uber_itemz.csv"), Uber, Itemz, false},
		{"no kind", filepath.Join("raw", "uber", "uber_export.csv"), Uber, KindUnknown, true},
		{"unknown platform", filepath.Join("raw", "doordash", "trax.csv"), Unknown, KindUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, k, err := Classify(tt.path, patterns)
			if tt.wantErr {
				var ce *ClassificationError
				require.True(t, errors.As(err, &ce))
				assert.Equal(t, tt.path, ce.Path)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.platform, p)
			assert.Equal(t, tt.kind, k)
		})
	}
}

func TestCompilePatternsRejectsBadRegex(t *testing.T) {
	_, err := CompilePatterns("trax(", "itemz")
	assert.Error(t, err)
}

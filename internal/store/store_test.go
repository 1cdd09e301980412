package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bwilly/SuperSliceETL/internal/config"
	"github.com/bwilly/SuperSliceETL/internal/platform"
	"github.com/bwilly/SuperSliceETL/internal/types"
	"github.com/segmentio/encoding/json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "etl.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func count(t *testing.T, s *Store, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.DB().Model(model).Count(&n).Error)
	return n
}

func money(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

func TestWriteIsolatedIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &types.SliceOrder{OrderNumber: "1001", OrderTotal: money("10.80"), SourceFile: "a.csv"}
	inserted, err := s.WriteIsolated(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	second := &types.SliceOrder{OrderNumber: "1001", OrderTotal: money("99.99"), SourceFile: "b.csv"}
	inserted, err = s.WriteIsolated(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)

	assert.Equal(t, int64(1), count(t, s, &types.SliceOrder{}))

	var stored types.SliceOrder
	require.NoError(t, s.DB().Where("order_number = ?", "1001").First(&stored).Error)
	assert.Equal(t, "a.csv", stored.SourceFile)
	assert.True(t, stored.OrderTotal.Decimal.Equal(decimal.RequireFromString("10.80")))
}

func TestWriteIsolatedPerPlatformTables(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, rec := range []types.PlatformRecord{
		&types.SliceOrder{OrderNumber: "X1"},
		&types.SquareTransaction{TransactionID: "X1", Tip: money("3.00")},
		&types.UberOrder{OrderUUID: "X1", Scheduled: true},
	} {
		inserted, err := s.WriteIsolated(ctx, rec)
		require.NoError(t, err)
		assert.True(t, inserted, rec.TableName())
	}

	assert.Equal(t, int64(1), count(t, s, &types.SquareTransaction{}))
	assert.Equal(t, int64(1), count(t, s, &types.UberOrder{}))
}

func TestWriteUnifiedIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := types.UnifiedRecord{
		Platform:        platform.Square,
		ExternalOrderID: "T1",
		OrderTotal:      money("25.50"),
		Tip:             money("3.00"),
		Metadata:        map[string]string{"card_brand": "Visa", "fees": ""},
		SourceFile:      "square_trax.csv",
	}

	inserted, err := s.WriteUnified(ctx, u)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.WriteUnified(ctx, u)
	require.NoError(t, err)
	assert.False(t, inserted)

	// Same external id on another platform is a different order.
	u.Platform = platform.Uber
	inserted, err = s.WriteUnified(ctx, u)
	require.NoError(t, err)
	assert.True(t, inserted)

	assert.Equal(t, int64(2), count(t, s, &UnifiedRow{}))

	var row UnifiedRow
	require.NoError(t, s.DB().Where("platform = ? AND external_order_id = ?", "square", "T1").First(&row).Error)
	var meta map[string]string
	require.NoError(t, json.Unmarshal(row.Metadata, &meta))
	assert.Equal(t, map[string]string{"card_brand": "Visa", "fees": ""}, meta)
	assert.False(t, row.Tax.Valid)
}

func TestWriteUnifiedNilMetadata(t *testing.T) {
	s := newTestStore(t)

	_, err := s.WriteUnified(context.Background(), types.UnifiedRecord{Platform: platform.Slice, ExternalOrderID: "1"})
	require.NoError(t, err)

	var row UnifiedRow
	require.NoError(t, s.DB().First(&row).Error)
	assert.JSONEq(t, `{}`, string(row.Metadata))
}

func TestConcurrentDuplicateWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	insertedCount := 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.WriteIsolated(ctx, &types.UberOrder{OrderUUID: "dup"})
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				insertedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, insertedCount)
	assert.Equal(t, int64(1), count(t, s, &types.UberOrder{}))
}

func TestWriteFailureIsPersistenceError(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.WriteIsolated(context.Background(), &types.SliceOrder{OrderNumber: "1"})

	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "slice_trax", pe.Table)
	assert.Equal(t, "1", pe.Key)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle", DSN: "x"}, nil)
	assert.Error(t, err)
}

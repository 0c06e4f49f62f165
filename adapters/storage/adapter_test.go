package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multicloud-cost/core/determinism"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

type tickingClock struct{ t time.Time }

func (c *tickingClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func result(cheapest types.Provider, total string, currency types.Currency) *types.CalculationResult {
	b := types.CostBreakdown{Provider: cheapest, Name: string(cheapest), Total: decimal.RequireFromString(total), Currency: currency}
	return &types.CalculationResult{
		Providers:        []types.CostBreakdown{b},
		Cheapest:         b,
		MostExpensive:    b,
		MultiCloudOption: types.MultiCloudOption{Cost: b.Total},
		Metadata:         types.CalculationMetadata{Currency: currency, TableVersion: "2025.10.1+abc"},
	}
}

func stores(t *testing.T) map[string]Store {
	opts := func() []Option {
		return []Option{
			WithClock(&tickingClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}),
			WithIDs(determinism.NewSequenceGenerator()),
		}
	}
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "snapshots"), opts()...)
	require.NoError(t, err)
	return map[string]Store{
		"file":   fs,
		"memory": NewMemoryStore(opts()...),
	}
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			snap := NewSnapshot(result(types.ProviderGCP, "123.45", types.CurrencyUSD), "baseline")
			require.NoError(t, store.Save(ctx, snap))
			assert.Equal(t, "snap-1", snap.ID)
			assert.False(t, snap.CreatedAt.IsZero())

			got, err := store.Get(ctx, snap.ID)
			require.NoError(t, err)
			assert.Equal(t, "baseline", got.Label)
			assert.Equal(t, types.ProviderGCP, got.Cheapest)
			assert.True(t, got.CheapestTotal.Equal(decimal.RequireFromString("123.45")))
			assert.Equal(t, "2025.10.1+abc", got.TableVersion)
			require.NotNil(t, got.Result)
			assert.True(t, got.Result.Cheapest.Total.Equal(snap.CheapestTotal))
		})
	}
}

func TestSnapshotsAreWriteOnce(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			snap := NewSnapshot(result(types.ProviderAWS, "10", types.CurrencyUSD), "")
			require.NoError(t, store.Save(ctx, snap))

			err := store.Save(ctx, snap)
			assert.True(t, errors.IsType(err, errors.TypeInput), "%v", err)

			err = store.Save(ctx, &Snapshot{})
			assert.True(t, errors.IsType(err, errors.TypeInput), "%v", err)
		})
	}
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"nope", "../etc/passwd", ""} {
				_, err := store.Get(ctx, id)
				assert.True(t, errors.IsType(err, errors.TypeNotFound), "%q: %v", id, err)
			}
		})
	}
}

func TestListNewestFirstWithFilters(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, r := range []struct {
				label    string
				currency types.Currency
			}{
				{"a", types.CurrencyUSD},
				{"b", types.CurrencyINR},
				{"a", types.CurrencyUSD},
			} {
				require.NoError(t, store.Save(ctx, NewSnapshot(result(types.ProviderAWS, "1", r.currency), r.label)))
			}

			all, err := store.List(ctx, nil)
			require.NoError(t, err)
			ids := make([]string, len(all))
			for i, s := range all {
				ids[i] = s.ID
			}
			assert.Equal(t, []string{"snap-3", "snap-2", "snap-1"}, ids)

			labelled, err := store.List(ctx, &ListFilter{Label: "a"})
			require.NoError(t, err)
			assert.Len(t, labelled, 2)

			inr, err := store.List(ctx, &ListFilter{Currency: types.CurrencyINR})
			require.NoError(t, err)
			require.Len(t, inr, 1)
			assert.Equal(t, "snap-2", inr[0].ID)

			paged, err := store.List(ctx, &ListFilter{Offset: 1, Limit: 1})
			require.NoError(t, err)
			require.Len(t, paged, 1)
			assert.Equal(t, "snap-2", paged[0].ID)

			empty, err := store.List(ctx, &ListFilter{Offset: 5})
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestCompare(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	before := NewSnapshot(result(types.ProviderAWS, "200", types.CurrencyUSD), "")
	after := NewSnapshot(result(types.ProviderOracle, "150", types.CurrencyUSD), "")
	other := NewSnapshot(result(types.ProviderAWS, "9000", types.CurrencyINR), "")
	for _, s := range []*Snapshot{before, after, other} {
		require.NoError(t, store.Save(ctx, s))
	}

	cmp, err := store.Compare(ctx, before.ID, after.ID)
	require.NoError(t, err)
	assert.True(t, cmp.Delta.Equal(decimal.NewFromInt(-50)))
	assert.True(t, cmp.DeltaPercent.Equal(decimal.NewFromInt(-25)))
	assert.Equal(t, types.ProviderOracle, cmp.NewCheapest)

	_, err = store.Compare(ctx, before.ID, other.ID)
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = store.Compare(ctx, before.ID, "missing")
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestFileStoreSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), NewSnapshot(result(types.ProviderAzure, "5", types.CurrencyEUR), "")))

	all, err := store.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStoreFactory(t *testing.T) {
	s, err := StoreFactory(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = StoreFactory(BackendFile, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = StoreFactory(BackendFile, "")
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	_, err = StoreFactory("postgres", "")
	assert.True(t, errors.IsType(err, errors.TypeNotSupported))
}

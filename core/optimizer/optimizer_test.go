package optimizer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multicloud-cost/core/types"
)

func breakdown(p types.Provider, name string, amounts map[types.Category]string) types.CostBreakdown {
	b := types.CostBreakdown{Provider: p, Name: name}
	total := decimal.Zero
	for cat, v := range amounts {
		d := decimal.RequireFromString(v)
		b.SetAmount(cat, d)
		total = total.Add(d)
	}
	b.SetTotal(total)
	return b
}

func TestOptimizePicksCheapestPerCategory(t *testing.T) {
	providers := []types.CostBreakdown{
		breakdown(types.ProviderAWS, "AWS", map[types.Category]string{
			types.CategoryCompute: "100", types.CategoryStorage: "10", types.CategoryLicensing: "50",
		}),
		breakdown(types.ProviderGCP, "Google Cloud", map[types.Category]string{
			types.CategoryCompute: "90", types.CategoryStorage: "20", types.CategoryLicensing: "50",
		}),
	}

	opt := Optimize(providers)
	assert.True(t, opt.Cost.Equal(decimal.NewFromInt(150)), "cost %s", opt.Cost)
	assert.Equal(t, "Google Cloud", opt.Breakdown[types.CategoryCompute])
	assert.Equal(t, "AWS", opt.Breakdown[types.CategoryStorage])
	assert.Equal(t, types.AllProvidersLabel, opt.Breakdown[types.CategoryLicensing])
	assert.Equal(t, "AWS", opt.Breakdown[types.CategoryQuantum], "ties go to the earlier provider")
	assert.Len(t, opt.Breakdown, len(types.ServiceCategories)+1)
}

func TestOptimizeEqualsCheapestWhenOneProviderWinsEverything(t *testing.T) {
	providers := []types.CostBreakdown{
		breakdown(types.ProviderOracle, "Oracle Cloud", map[types.Category]string{
			types.CategoryCompute: "10.004", types.CategoryNetworking: "3.333",
		}),
		breakdown(types.ProviderAzure, "Azure", map[types.Category]string{
			types.CategoryCompute: "20", types.CategoryNetworking: "4",
		}),
	}
	opt := Optimize(providers)
	assert.True(t, opt.Cost.Equal(providers[0].Total), "cost %s, cheapest %s", opt.Cost, providers[0].Total)
}

func TestOptimizeUsesExactAmounts(t *testing.T) {
	// each category rounds up on its own, the sum does not
	a := breakdown(types.ProviderAWS, "AWS", map[types.Category]string{
		types.CategoryCompute: "0.005", types.CategoryStorage: "0.005",
	})
	opt := Optimize([]types.CostBreakdown{a})
	assert.True(t, opt.Cost.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, opt.Cost.LessThanOrEqual(a.Total))
}

func TestOptimizeFallsBackToReportedAmounts(t *testing.T) {
	reloaded := types.CostBreakdown{
		Provider: types.ProviderAzure, Name: "Azure",
		Compute: decimal.RequireFromString("12.50"), Licensing: decimal.RequireFromString("3"),
		Total: decimal.RequireFromString("15.50"),
	}
	opt := Optimize([]types.CostBreakdown{reloaded})
	assert.True(t, opt.Cost.Equal(decimal.RequireFromString("15.5")))
}

func TestOptimizeEmpty(t *testing.T) {
	opt := Optimize(nil)
	assert.True(t, opt.Cost.IsZero())
	assert.Empty(t, opt.Breakdown)
}

func TestRank(t *testing.T) {
	input := []types.CostBreakdown{
		breakdown(types.ProviderAWS, "AWS", map[types.Category]string{types.CategoryCompute: "30"}),
		breakdown(types.ProviderAzure, "Azure", map[types.Category]string{types.CategoryCompute: "10"}),
		breakdown(types.ProviderGCP, "Google Cloud", map[types.Category]string{types.CategoryCompute: "30"}),
		breakdown(types.ProviderOracle, "Oracle Cloud", map[types.Category]string{types.CategoryCompute: "45.5"}),
	}

	r := Rank(input)
	require.Len(t, r.Providers, 4)
	order := make([]types.Provider, len(r.Providers))
	for i, b := range r.Providers {
		order[i] = b.Provider
	}
	assert.Equal(t, []types.Provider{types.ProviderAzure, types.ProviderAWS, types.ProviderGCP, types.ProviderOracle}, order)
	assert.Equal(t, types.ProviderAzure, r.Cheapest.Provider)
	assert.Equal(t, types.ProviderOracle, r.MostExpensive.Provider)
	assert.True(t, r.PotentialSavings.Equal(decimal.RequireFromString("35.5")))
	assert.Equal(t, types.ProviderAWS, input[0].Provider, "input is left untouched")
}

func TestRankEmpty(t *testing.T) {
	r := Rank(nil)
	assert.Empty(t, r.Providers)
	assert.True(t, r.PotentialSavings.IsZero())
}

func TestRankSavingsUseReportedTotals(t *testing.T) {
	// 19.745 reports as 19.75 and 15.404 as 15.40; the exact spread 4.341
	// would round to 4.34
	r := Rank([]types.CostBreakdown{
		breakdown(types.ProviderAWS, "AWS", map[types.Category]string{types.CategoryCompute: "19.745"}),
		breakdown(types.ProviderGCP, "Google Cloud", map[types.Category]string{types.CategoryCompute: "15.404"}),
	})
	assert.True(t, r.MostExpensive.Total.Equal(decimal.RequireFromString("19.75")))
	assert.True(t, r.Cheapest.Total.Equal(decimal.RequireFromString("15.40")))
	assert.True(t, r.PotentialSavings.Equal(decimal.RequireFromString("4.35")), "savings %s", r.PotentialSavings)
	assert.True(t, r.PotentialSavings.Equal(r.MostExpensive.Total.Sub(r.Cheapest.Total)))
}

// Package optimizer compares priced providers: it ranks them and builds the
// per-category cheapest allocation across all of them.
package optimizer

import (
	"sort"

	"github.com/shopspring/decimal"

	"multicloud-cost/core/types"
)

// Ranking is the cross-provider ordering of one calculation
type Ranking struct {
	Providers        []types.CostBreakdown
	Cheapest         types.CostBreakdown
	MostExpensive    types.CostBreakdown
	PotentialSavings decimal.Decimal
}

// Rank sorts breakdowns by total, ascending. The sort is stable so equal
// totals keep their input order. The input slice is not modified.
func Rank(providers []types.CostBreakdown) Ranking {
	sorted := make([]types.CostBreakdown, len(providers))
	copy(sorted, providers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExactTotal().LessThan(sorted[j].ExactTotal())
	})

	r := Ranking{Providers: sorted, PotentialSavings: decimal.Zero}
	if len(sorted) == 0 {
		return r
	}
	r.Cheapest = sorted[0]
	r.MostExpensive = sorted[len(sorted)-1]
	r.PotentialSavings = r.MostExpensive.Total.Sub(r.Cheapest.Total)
	return r
}

// Optimize picks the cheapest provider for every service category and sums
// the picks. Licensing does not vary by provider and is taken from the first
// breakdown. Ties go to the earlier provider.
func Optimize(providers []types.CostBreakdown) types.MultiCloudOption {
	opt := types.MultiCloudOption{
		Cost:      decimal.Zero,
		Breakdown: make(map[types.Category]string, len(types.ServiceCategories)+1),
	}
	if len(providers) == 0 {
		return opt
	}

	total := decimal.Zero
	for _, cat := range types.ServiceCategories {
		best := 0
		for i := 1; i < len(providers); i++ {
			if providers[i].ExactAmount(cat).LessThan(providers[best].ExactAmount(cat)) {
				best = i
			}
		}
		total = total.Add(providers[best].ExactAmount(cat))
		opt.Breakdown[cat] = label(providers[best])
	}

	total = total.Add(providers[0].ExactAmount(types.CategoryLicensing))
	opt.Breakdown[types.CategoryLicensing] = types.AllProvidersLabel
	opt.Cost = total.Round(2)
	return opt
}

func label(b types.CostBreakdown) string {
	if b.Name != "" {
		return b.Name
	}
	return string(b.Provider)
}

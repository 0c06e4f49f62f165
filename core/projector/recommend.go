package projector

import (
	"fmt"
	"strings"

	"multicloud-cost/core/types"
)

const (
	oversizedVCPUs     = 8
	largeInventorySize = 50
)

// Recommendations are inventory findings grouped by kind
type Recommendations struct {
	Optimization []string `json:"optimization"`
	RightSizing  []string `json:"rightSizing"`
	CostSavings  []string `json:"costSavings"`
}

// Analysis bundles a projection with the findings on the same inventory
type Analysis struct {
	Summary         types.ResourceSummary            `json:"summary"`
	Requirements    types.InfrastructureRequirements `json:"requirements"`
	Recommendations Recommendations                  `json:"recommendations"`
}

// Analyze projects resources and attaches recommendations
func Analyze(resources []types.UnifiedResource) (*Analysis, error) {
	req, err := Project(resources)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		Summary:         types.Summarize(resources),
		Requirements:    req,
		Recommendations: Recommend(resources),
	}, nil
}

// Recommend inspects an inventory for idle, untagged, throwaway and
// oversized resources and for consolidation opportunities.
func Recommend(resources []types.UnifiedResource) Recommendations {
	recs := Recommendations{
		Optimization: []string{},
		RightSizing:  []string{},
		CostSavings:  []string{},
	}

	var stopped, untagged, throwaway, oversized int
	for _, r := range resources {
		switch strings.ToLower(r.State) {
		case "stopped", "terminated":
			stopped++
		}
		if len(r.Tags) == 0 {
			untagged++
		}
		name := strings.ToLower(r.Name)
		if strings.Contains(name, "test") || strings.Contains(name, "temp") || strings.Contains(name, "old") {
			throwaway++
		}
		if classify(r) == bucketCompute {
			if vcpus, ok := r.DetailFloat(types.DetailVCPUs); ok && vcpus > oversizedVCPUs {
				oversized++
			}
		}
	}

	if stopped > 0 {
		recs.Optimization = append(recs.Optimization,
			fmt.Sprintf("Found %d stopped/terminated resources that may be generating costs", stopped))
	}
	if untagged > 0 {
		recs.Optimization = append(recs.Optimization,
			fmt.Sprintf("%d resources are untagged - consider adding cost allocation tags", untagged))
	}
	if throwaway > 0 {
		recs.Optimization = append(recs.Optimization,
			fmt.Sprintf("Found %d resources with test/temp/old in their names - review for cleanup", throwaway))
	}
	if oversized > 0 {
		recs.RightSizing = append(recs.RightSizing,
			fmt.Sprintf("%d compute instances may be oversized - consider right-sizing", oversized))
	}

	summary := types.Summarize(resources)
	if summary.ByProvider[string(types.ProviderAWS)] > 0 && summary.ByProvider[string(types.ProviderAzure)] > 0 {
		recs.CostSavings = append(recs.CostSavings,
			"Multi-cloud setup detected - consider workload consolidation for better pricing")
	}
	if summary.Total > largeInventorySize {
		recs.CostSavings = append(recs.CostSavings,
			"Large infrastructure detected - consider reserved instances or committed use discounts")
	}
	return recs
}

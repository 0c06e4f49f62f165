package iac

import (
	"github.com/hashicorp/hcl/v2/hclwrite"

	"multicloud-cost/core/types"
)

// dialect is everything provider specific about the emitted configuration
type dialect struct {
	Title         string
	ProviderName  string
	Source        string
	Version       string
	DefaultRegion string
	Variables     []variable

	// Sizes is ordered smallest first; the renderer picks the first entry
	// that fits
	Sizes    []instanceSize
	CPUNames map[string]string

	Provider     func(*hclwrite.Body)
	Compute      func(*hclwrite.Body, workloadRef)
	Database     func(*hclwrite.Body, workloadRef)
	Volume       func(*hclwrite.Body, workloadRef)
	Filesystem   func(*hclwrite.Body, workloadRef)
	LoadBalancer func(*hclwrite.Body, workloadRef)
}

type variable struct {
	Name        string
	Description string
	Default     string
	List        bool
	Sensitive   bool
}

type instanceSize struct {
	Name     string
	VCPUs    float64
	MemoryGB float64
}

var dialects = map[types.Provider]*dialect{
	types.ProviderAWS:    awsDialect,
	types.ProviderAzure:  azureDialect,
	types.ProviderGCP:    gcpDialect,
	types.ProviderOracle: oracleDialect,
}

// Supported reports whether Generate has a dialect for p
func Supported(p types.Provider) bool {
	_, ok := dialects[p]
	return ok
}

func workloadTags(w workloadRef) map[string]string {
	return map[string]string{
		"Name":     w.ApplicationName,
		"Workload": w.WorkloadType,
		"Software": w.Softwares,
	}
}

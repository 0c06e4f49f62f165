package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseProviderAliases(t *testing.T) {
	cases := map[string]Provider{
		"aws":     ProviderAWS,
		"AzureRM": ProviderAzure,
		"google":  ProviderGCP,
		"oci":     ProviderOracle,
		" oracle": ProviderOracle,
	}
	for in, want := range cases {
		got, ok := ParseProvider(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseProvider("digitalocean")
	assert.False(t, ok)
}

func TestParseServiceFallsBackToOther(t *testing.T) {
	assert.Equal(t, ServiceCompute, ParseService("compute"))
	assert.Equal(t, ServiceNetworking, ParseService(" Networking "))
	assert.Equal(t, ServiceOther, ParseService("Blockchain"))
}

func TestDetailAccessors(t *testing.T) {
	r := UnifiedResource{CostDetails: map[string]any{
		"vcpus":        json.Number("4"),
		"memory":       16,
		"storage":      "120",
		"instanceType": "m5.xlarge",
		"multiAZ":      "yes",
		"nothing":      nil,
	}}

	v, ok := r.DetailFloat("vcpus")
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)

	v, _ = r.DetailFloat("memory")
	assert.Equal(t, 16.0, v)

	v, _ = r.DetailFloat("storage")
	assert.Equal(t, 120.0, v)

	_, ok = r.DetailFloat("nothing")
	assert.False(t, ok)

	assert.Equal(t, "m5.xlarge", r.DetailString("instanceType"))
	assert.True(t, r.DetailBool("multiAZ"))
}

func TestEnsureUniqueIDs(t *testing.T) {
	resources := []UnifiedResource{{ID: "a"}, {ID: "b"}, {ID: "a"}, {ID: "a"}}
	EnsureUniqueIDs(resources)

	assert.Equal(t, "a", resources[0].ID)
	assert.Equal(t, "b", resources[1].ID)
	assert.Equal(t, "a#2", resources[2].ID)
	assert.Equal(t, "a#3", resources[3].ID)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]UnifiedResource{
		{Provider: ProviderAWS, Service: ServiceCompute, Location: "us-east-1"},
		{Provider: ProviderAWS, Service: ServiceStorage, Location: "us-east-1"},
		{Provider: ProviderGCP, Service: ServiceOther, Location: "us-central1"},
	})

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.ByProvider["aws"])
	assert.Equal(t, 1, s.ByService["Other"])
	assert.Equal(t, 2, s.ByLocation["us-east-1"])
}

func TestCostBreakdownExactAmounts(t *testing.T) {
	var b CostBreakdown
	b.SetAmount(CategoryCompute, decimal.RequireFromString("10.005"))
	b.SetTotal(decimal.RequireFromString("10.005"))

	assert.Equal(t, "10.01", b.Compute.StringFixed(2))
	assert.True(t, b.ExactAmount(CategoryCompute).Equal(decimal.RequireFromString("10.005")))
	assert.True(t, b.ExactTotal().Equal(decimal.RequireFromString("10.005")))

	// reported value is the fallback when no exact amount was recorded
	b.Storage = decimal.NewFromInt(3)
	assert.True(t, b.ExactAmount(CategoryStorage).Equal(decimal.NewFromInt(3)))
}

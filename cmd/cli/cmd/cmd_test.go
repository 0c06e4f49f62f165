package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multicloud-cost/adapters/storage"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

// execute runs the root command in-process. Each test gets its own snapshot
// directory on first use.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	if os.Getenv("MCCOST_STORE_DIRECTORY") == "" {
		t.Setenv("MCCOST_STORE_DIRECTORY", filepath.Join(t.TempDir(), "snapshots"))
	}
	t.Setenv("MCCOST_LOGGING_LEVEL", "error")

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const requirementsDoc = `{
	"compute": {"vcpus": 4, "ram": 16, "operatingSystem": "linux"},
	"storage": {"objectStorage": {"size": 500}}
}`

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "multicloud-cost version "+Version+"\n", out)
}

func TestCalculateJSON(t *testing.T) {
	path := writeTemp(t, "req.json", requirementsDoc)
	out, err := execute(t, "calculate", path, "--format", "json")
	require.NoError(t, err)

	var result types.CalculationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Providers, len(types.PricedProviders))
	assert.Equal(t, types.CurrencyUSD, result.Metadata.Currency)
	assert.True(t, result.Cheapest.Total.LessThanOrEqual(result.MostExpensive.Total))
}

func TestCalculateCurrencyFlagWins(t *testing.T) {
	path := writeTemp(t, "req.json", `{"currency": "INR", "compute": {"vcpus": 2, "ram": 4}}`)

	out, err := execute(t, "calculate", path, "--format", "json")
	require.NoError(t, err)
	var result types.CalculationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, types.CurrencyINR, result.Metadata.Currency)

	out, err = execute(t, "calculate", path, "--format", "json", "--currency", "eur")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, types.CurrencyEUR, result.Metadata.Currency)

	_, err = execute(t, "calculate", path, "--currency", "GBP")
	assert.True(t, errors.IsType(err, errors.TypeInput), "%v", err)
}

func TestCalculateRejectsInvalidDocument(t *testing.T) {
	path := writeTemp(t, "req.json", `{"compute": {"vcpus": -1}}`)
	_, err := execute(t, "calculate", path)
	assert.True(t, errors.IsType(err, errors.TypeInput), "%v", err)

	_, err = execute(t, "calculate", filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.IsType(err, errors.TypeInput), "%v", err)
}

func TestCalculateRendersTable(t *testing.T) {
	path := writeTemp(t, "req.json", requirementsDoc)
	out, err := execute(t, "calculate", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Multi-Cloud Cost Comparison")
	assert.Contains(t, out, "★")
	assert.NotContains(t, out, "\033[")
}

func TestUnknownFormat(t *testing.T) {
	_, err := execute(t, "version", "--format", "yaml")
	assert.True(t, errors.IsType(err, errors.TypeInput), "%v", err)
}

func TestSaveAndListSnapshots(t *testing.T) {
	path := writeTemp(t, "req.json", requirementsDoc)
	for _, label := range []string{"baseline", "after"} {
		_, err := execute(t, "calculate", path, "--format", "json", "--save", label)
		require.NoError(t, err)
	}

	out, err := execute(t, "snapshots", "list", "--format", "json")
	require.NoError(t, err)
	var snaps []*storage.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snaps))
	require.Len(t, snaps, 2)
	ids := map[string]string{}
	for _, s := range snaps {
		ids[s.Label] = s.ID
	}
	require.Len(t, ids, 2)

	out, err = execute(t, "snapshots", "compare", ids["baseline"], ids["after"], "--format", "json")
	require.NoError(t, err)
	var cmp storage.CompareResult
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	assert.True(t, cmp.Delta.IsZero())

	out, err = execute(t, "snapshots", "list", "--label", "baseline", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, ids["baseline"])
	assert.NotContains(t, out, ids["after"])
}

func TestSnapshotsShowMissing(t *testing.T) {
	_, err := execute(t, "snapshots", "show", "snap-missing")
	assert.True(t, errors.IsType(err, errors.TypeNotFound), "%v", err)
}

func TestNormalizeManual(t *testing.T) {
	path := writeTemp(t, "resources.json", `[
		{"name": "web", "type": "Instance", "service": "compute", "provider": "aws",
		 "location": "eu-west-1", "costDetails": {"vcpus": 2, "memory": 8}}
	]`)
	out, err := execute(t, "normalize", "manual", path)
	require.NoError(t, err)

	var resources []types.UnifiedResource
	require.NoError(t, json.Unmarshal([]byte(out), &resources))
	require.Len(t, resources, 1)
	assert.Equal(t, types.ProviderAWS, resources[0].Provider)
	assert.Equal(t, types.ServiceCompute, resources[0].Service)
}

func TestNormalizeUnknownSource(t *testing.T) {
	path := writeTemp(t, "x.json", "[]")
	_, err := execute(t, "normalize", "cloudformation", path)
	assert.True(t, errors.IsType(err, errors.TypeNotSupported), "%v", err)
}

func TestProjectThenAnalyze(t *testing.T) {
	resources := writeTemp(t, "resources.json", `[
		{"name": "web", "type": "Instance", "service": "compute", "provider": "aws",
		 "location": "eu-west-1", "costDetails": {"vcpus": 4, "memory": 16}},
		{"name": "orders", "type": "Database", "service": "database", "provider": "aws",
		 "location": "eu-west-1", "costDetails": {"engine": "postgres", "storage": 200}}
	]`)

	out, err := execute(t, "project", resources, "--format", "json")
	require.NoError(t, err)
	var analysis struct {
		Requirements types.InfrastructureRequirements `json:"requirements"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.Equal(t, "eu-west-1", analysis.Requirements.Compute.Region)
	assert.Equal(t, 4.0, analysis.Requirements.Compute.VCPUs)

	out, err = execute(t, "analyze", "manual", resources, "--format", "json")
	require.NoError(t, err)
	var result types.CalculationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "eu-west-1", result.Metadata.Region)
	assert.True(t, result.Cheapest.Total.IsPositive())
}

func TestTemplateThenIaC(t *testing.T) {
	sheet := filepath.Join(t.TempDir(), "inventory.xlsx")
	_, err := execute(t, "template", sheet)
	require.NoError(t, err)

	out, err := execute(t, "iac", "spreadsheet", sheet, "--provider", "aws")
	require.NoError(t, err)
	assert.Contains(t, out, `resource "aws_instance"`)
	assert.Contains(t, out, `resource "aws_lb"`)

	tf := filepath.Join(t.TempDir(), "main.tf")
	_, err = execute(t, "iac", "spreadsheet", sheet, "--provider", "gcp", "--out", tf)
	require.NoError(t, err)
	data, err := os.ReadFile(tf)
	require.NoError(t, err)
	assert.Contains(t, string(data), `resource "google_compute_instance"`)

	_, err = execute(t, "iac", "spreadsheet", sheet, "--provider", "multi-cloud")
	assert.True(t, errors.IsType(err, errors.TypeNotSupported), "%v", err)
}

func TestPricingCommands(t *testing.T) {
	out, err := execute(t, "pricing", "validate", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	exported := filepath.Join(t.TempDir(), "table.json")
	_, err = execute(t, "pricing", "export", exported)
	require.NoError(t, err)

	out, err = execute(t, "pricing", "validate", exported, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	incomplete := writeTemp(t, "incomplete.json", `{"version": "x"}`)
	_, err = execute(t, "pricing", "validate", incomplete)
	assert.Error(t, err)

	broken := writeTemp(t, "broken.json", `{`)
	_, err = execute(t, "pricing", "validate", broken)
	assert.True(t, errors.IsType(err, errors.TypeConfig), "%v", err)
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multicloud-cost/internal/errors"
)

func TestDefaultRequirementsAreValid(t *testing.T) {
	require.NoError(t, DefaultRequirements().Validate())
}

func TestParseRequirementsOverlaysDefaults(t *testing.T) {
	req, err := ParseRequirements([]byte(`{
		"currency": "EUR",
		"compute": {"vcpus": 4, "ram": 16, "region": "eu-west-1"},
		"licensing": {"windows": {"enabled": true, "licenses": 2}}
	}`))
	require.NoError(t, err)

	assert.Equal(t, CurrencyEUR, req.Currency)
	assert.Equal(t, 4.0, req.Compute.VCPUs)
	assert.Equal(t, "eu-west-1", req.Compute.Region)
	// untouched fields keep their defaults
	assert.Equal(t, "general-purpose", req.Compute.InstanceType)
	assert.Equal(t, "ssd-gp3", req.Compute.BootVolume.Type)
	assert.Equal(t, 3000.0, req.Compute.BootVolume.IOPS)
	assert.Equal(t, "standard", req.Licensing.SQLServer.Edition)
	assert.True(t, req.Licensing.Windows.Enabled)
}

func TestParseRequirementsRejectsOutOfRange(t *testing.T) {
	_, err := ParseRequirements([]byte(`{
		"compute": {"vcpus": -1, "bootVolume": {"size": 4}},
		"optimization": {"spotInstanceTolerance": 150},
		"scenarios": {"compliance": {"frameworks": ["gdpr", "fedramp"]}}
	}`))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))

	msg := err.Error()
	assert.Contains(t, msg, "compute.vcpus")
	assert.Contains(t, msg, "compute.bootVolume.size")
	assert.Contains(t, msg, "optimization.spotInstanceTolerance")
	assert.Contains(t, msg, "scenarios.compliance.frameworks[1]")
	assert.Contains(t, msg, "4 violations")
}

func TestParseRequirementsRejectsUnknownEnum(t *testing.T) {
	_, err := ParseRequirements([]byte(`{"currency": "GBP"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currency")
}

func TestParseRequirementsMalformed(t *testing.T) {
	_, err := ParseRequirements([]byte(`{"compute": `))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestBootVolumeZeroMeansNone(t *testing.T) {
	req := DefaultRequirements()
	req.Compute.BootVolume.Size = 0
	assert.NoError(t, req.Validate())

	req.Compute.BootVolume.Size = 7
	assert.Error(t, req.Validate())
}

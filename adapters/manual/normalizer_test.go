package manual

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multicloud-cost/core/determinism"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

func TestNormalizeEntries(t *testing.T) {
	input := `[
		{"name": "ledger", "type": "Database", "service": "database", "provider": "oci",
		 "costDetails": {"engine": "postgresql", "storage": 250}},
		{"id": "vm-7", "name": "batch", "type": "Instance", "service": "compute", "provider": "AWS",
		 "location": "ap-south-1", "state": "stopped", "tags": {"team": "data"}},
		{"name": "queue", "type": "Queue", "service": "Messaging", "provider": "gcp"}
	]`

	n := NewNormalizer(determinism.NewSequenceGenerator(), nil)
	resources, err := n.Normalize(context.Background(), []byte(input))
	require.NoError(t, err)
	require.Len(t, resources, 3)

	ledger := resources[0]
	assert.Equal(t, "manual-1", ledger.ID)
	assert.Equal(t, types.ProviderOracle, ledger.Provider)
	assert.Equal(t, types.ServiceDatabase, ledger.Service)
	assert.Equal(t, "us-phoenix-1", ledger.Location)
	assert.Equal(t, "active", ledger.State)
	storage, ok := ledger.DetailFloat(types.DetailStorage)
	require.True(t, ok)
	assert.Equal(t, 250.0, storage)

	want := types.UnifiedResource{
		ID:          "vm-7",
		Name:        "batch",
		Type:        "Instance",
		Service:     types.ServiceCompute,
		Provider:    types.ProviderAWS,
		Location:    "ap-south-1",
		State:       "stopped",
		Tags:        map[string]string{"team": "data"},
		CostDetails: map[string]any{},
	}
	if diff := cmp.Diff(want, resources[1]); diff != "" {
		t.Errorf("batch entry mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, types.ServiceOther, resources[2].Service)
	assert.False(t, resources[2].IsPriced())
}

func TestNormalizeReportsEveryInvalidEntry(t *testing.T) {
	input := `[
		{"type": "Instance", "provider": "aws"},
		{"name": "x", "type": "Instance", "provider": "digitalocean"},
		{"name": "y", "provider": "azure"}
	]`
	_, err := NewNormalizer(nil, nil).Normalize(context.Background(), []byte(input))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))

	msg := err.Error()
	assert.Contains(t, msg, "3 violations")
	assert.Contains(t, msg, "entry 0: name is required")
	assert.Contains(t, msg, `entry 1: unknown provider "digitalocean"`)
	assert.Contains(t, msg, "entry 2: type is required")
}

func TestNormalizeRejectsNonArray(t *testing.T) {
	_, err := NewNormalizer(nil, nil).Normalize(context.Background(), []byte(`{"name": "x"}`))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestDuplicateIDsAreSuffixed(t *testing.T) {
	resources, err := NewNormalizer(nil, nil).Entries([]Entry{
		{ID: "a", Name: "one", Type: "Instance", Provider: "aws"},
		{ID: "a", Name: "two", Type: "Instance", Provider: "aws"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a#2", resources[1].ID)
}

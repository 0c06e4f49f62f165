package oracle

import (
	"context"
	"testing"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multicloud-cost/clouds"
	"multicloud-cost/core/mapper"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

type fakeCompute struct {
	pages [][]core.Instance
	seen  []*string
}

func (f *fakeCompute) ListInstances(_ context.Context, req core.ListInstancesRequest) (core.ListInstancesResponse, error) {
	f.seen = append(f.seen, req.Page)
	i := len(f.seen) - 1
	resp := core.ListInstancesResponse{Items: f.pages[i]}
	if i+1 < len(f.pages) {
		resp.OpcNextPage = common.String("next")
	}
	return resp, nil
}

type fakeBlocks struct {
	volumes []core.Volume
}

func (f *fakeBlocks) ListVolumes(context.Context, core.ListVolumesRequest) (core.ListVolumesResponse, error) {
	return core.ListVolumesResponse{Items: f.volumes}, nil
}

func TestDiscover(t *testing.T) {
	compute := &fakeCompute{pages: [][]core.Instance{
		{{
			Id:             common.String("ocid1.instance.oc1..a"),
			DisplayName:    common.String("erp-app"),
			Shape:          common.String("VM.Standard.E4.Flex"),
			Region:         common.String("ap-mumbai-1"),
			LifecycleState: core.InstanceLifecycleStateRunning,
			FreeformTags:   map[string]string{"cost-center": "42"},
			ShapeConfig:    &core.InstanceShapeConfig{Ocpus: common.Float32(6), MemoryInGBs: common.Float32(96)},
		}},
		{{
			Id:             common.String("ocid1.instance.oc1..b"),
			DisplayName:    common.String("bastion"),
			Shape:          common.String("VM.Standard2.1"),
			LifecycleState: core.InstanceLifecycleStateStopped,
		}},
	}}
	blocks := &fakeBlocks{volumes: []core.Volume{{
		Id:          common.String("ocid1.volume.oc1..v"),
		DisplayName: common.String("erp-data"),
		SizeInGBs:   common.Int64(1024),
		VpusPerGB:   common.Int64(10),
	}}}

	records, err := NewWithClients("ocid1.compartment", "ap-hyderabad-1", compute, blocks, nil).Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Len(t, compute.seen, 2)
	assert.Nil(t, compute.seen[0])
	assert.Equal(t, "next", *compute.seen[1])

	resources := mapper.NewNormalizer(nil).NormalizeAll(records)

	erp := resources[0]
	assert.Equal(t, "erp-app", erp.Name)
	assert.Equal(t, "ap-mumbai-1", erp.Location)
	assert.Equal(t, "running", erp.State)
	assert.Equal(t, "42", erp.Tags["cost-center"])
	vcpus, _ := erp.DetailFloat(types.DetailVCPUs)
	memory, _ := erp.DetailFloat(types.DetailMemory)
	assert.Equal(t, 6.0, vcpus)
	assert.Equal(t, 96.0, memory)

	assert.Equal(t, "ap-hyderabad-1", resources[1].Location, "falls back to the configured region")

	vol := resources[2]
	assert.Equal(t, types.ServiceStorage, vol.Service)
	size, _ := vol.DetailFloat(types.DetailStorage)
	assert.Equal(t, 1024.0, size)
}

func TestNewRequiresReadableKey(t *testing.T) {
	creds := clouds.Credentials{Oracle: clouds.OracleCredentials{
		TenancyOCID: "t", UserOCID: "u", Fingerprint: "f", Region: "us-ashburn-1",
		PrivateKeyPath: t.TempDir() + "/missing.pem",
	}}
	_, err := New(context.Background(), creds, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

package projector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

func res(id string, svc types.Service, typ, loc string, details map[string]any) types.UnifiedResource {
	if details == nil {
		details = map[string]any{}
	}
	return types.UnifiedResource{
		ID: id, Name: id, Type: typ, Service: svc, Provider: types.ProviderAWS,
		Location: loc, State: "running", Tags: map[string]string{"env": "prod"}, CostDetails: details,
	}
}

func inventory() []types.UnifiedResource {
	return []types.UnifiedResource{
		res("web-1", types.ServiceCompute, "Instance", "ap-south-1", map[string]any{"vcpus": 4.0, "memory": 16.0}),
		res("web-2", types.ServiceCompute, "Instance", "ap-south-1", map[string]any{"vcpus": 2.0, "memory": 8.0}),
		res("batch", types.ServiceCompute, "Instance", "eu-west-1", map[string]any{"vcpus": 2.0, "memory": 4.0}),
		res("fn", types.ServiceCompute, "Function", "eu-west-1", nil),
		res("assets", types.ServiceStorage, "Bucket", "ap-south-1", nil),
		res("data", types.ServiceStorage, "Volume", "ap-south-1", map[string]any{"storage": 200.0}),
		res("share", types.ServiceStorage, "FileSystem", "ap-south-1", map[string]any{"storage": 50.0}),
		res("orders", types.ServiceDatabase, "Database", "ap-south-1", map[string]any{"storage": 500.0, "engine": "aurora-postgresql"}),
		res("ledger", types.ServiceDatabase, "Database", "ap-south-1", map[string]any{"storage": 100.0, "engine": "mysql", "multiAZ": true}),
		res("sessions", types.ServiceDatabase, "Cache", "ap-south-1", map[string]any{"nodeCount": 3.0}),
		res("alb", types.ServiceNetworking, "LoadBalancer", "ap-south-1", map[string]any{"lbType": "application"}),
		res("vpc", types.ServiceNetworking, "VPC", "ap-south-1", nil),
		res("mystery", types.ServiceOther, "Unknown", "ap-south-1", nil),
	}
}

func TestProject(t *testing.T) {
	req, err := Project(inventory())
	require.NoError(t, err)

	assert.Equal(t, 8.0, req.Compute.VCPUs)
	assert.Equal(t, 28.0, req.Compute.RAM)
	assert.Equal(t, 90.0, req.Compute.BootVolume.Size, "one boot volume per instance reporting vcpus")
	assert.Equal(t, "ap-south-1", req.Compute.Region)

	assert.Equal(t, 100.0, req.Storage.ObjectStorage.Size, "sizeless bucket counts as 100 GB")
	assert.Equal(t, 200.0, req.Storage.BlockStorage.Size)
	assert.Equal(t, 50.0, req.Storage.FileStorage.Size)

	assert.Equal(t, 600.0, req.Database.Relational.Storage)
	assert.Equal(t, "postgresql", req.Database.Relational.Engine, "first recognised engine wins")
	assert.True(t, req.Database.Relational.MultiAZ)
	assert.Equal(t, "redis", req.Database.Cache.Engine)
	assert.Equal(t, 3.0, req.Database.Cache.Nodes)

	assert.Equal(t, "application", req.Networking.LoadBalancer)
	assert.Equal(t, 130.0, req.Networking.Bandwidth)

	// untouched sections stay at their zero defaults
	assert.Zero(t, req.Analytics.Streaming.Shards)
	assert.False(t, req.Scenarios.DisasterRecovery.Enabled)
	assert.Equal(t, "none", req.Optimization.ReservedInstanceStrategy)
}

func TestProjectEmpty(t *testing.T) {
	req, err := Project(nil)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultRequirements(), req)
}

func TestProjectRegionTieBreak(t *testing.T) {
	req, err := Project([]types.UnifiedResource{
		res("a", types.ServiceCompute, "Instance", "us-west-2", nil),
		res("b", types.ServiceCompute, "Instance", "eu-central-1", nil),
	})
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", req.Compute.Region)
	assert.Equal(t, "none", req.Networking.LoadBalancer)
	assert.Equal(t, 20.0, req.Networking.Bandwidth)
}

func TestProjectRejectsOutOfRangeAggregate(t *testing.T) {
	huge := make([]types.UnifiedResource, 0, 2)
	for _, id := range []string{"x", "y"} {
		huge = append(huge, res(id, types.ServiceCompute, "Instance", "us-east-1", map[string]any{"vcpus": 40000.0, "memory": 1.0}))
	}
	_, err := Project(huge)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
	assert.Contains(t, err.Error(), "compute.vcpus")
}

func TestEngine(t *testing.T) {
	tests := map[string]string{
		"postgres":          "postgresql",
		"aurora-postgresql": "postgresql",
		"aurora-mysql":      "mysql",
		"MariaDB":           "mariadb",
		"oracle-ee":         "oracle",
		"sqlserver-se":      "sql-server",
		"docdb":             "",
		"":                  "",
	}
	for in, want := range tests {
		if got := Engine(in); got != want {
			t.Errorf("Engine(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRecommend(t *testing.T) {
	resources := inventory()
	resources[0].CostDetails["vcpus"] = 16.0
	resources[1].State = "stopped"
	resources[2].Name = "batch-temp"
	resources[3].Tags = map[string]string{}
	azure := res("vm", types.ServiceCompute, "Instance", "eastus", nil)
	azure.Provider = types.ProviderAzure
	resources = append(resources, azure)

	recs := Recommend(resources)
	assert.Equal(t, []string{
		"Found 1 stopped/terminated resources that may be generating costs",
		"1 resources are untagged - consider adding cost allocation tags",
		"Found 1 resources with test/temp/old in their names - review for cleanup",
	}, recs.Optimization)
	assert.Equal(t, []string{"1 compute instances may be oversized - consider right-sizing"}, recs.RightSizing)
	assert.Equal(t, []string{"Multi-cloud setup detected - consider workload consolidation for better pricing"}, recs.CostSavings)
}

func TestRecommendLargeInventory(t *testing.T) {
	resources := make([]types.UnifiedResource, 0, 51)
	for i := 0; i < 51; i++ {
		resources = append(resources, res("r", types.ServiceStorage, "Volume", "us-east-1", nil))
	}
	recs := Recommend(resources)
	assert.Empty(t, recs.Optimization)
	assert.Contains(t, recs.CostSavings, "Large infrastructure detected - consider reserved instances or committed use discounts")
}

func TestAnalyze(t *testing.T) {
	a, err := Analyze(inventory())
	require.NoError(t, err)
	assert.Equal(t, 13, a.Summary.Total)
	assert.Equal(t, 8.0, a.Requirements.Compute.VCPUs)
	assert.NotNil(t, a.Recommendations.CostSavings)
}

func TestProjectGatewayIsNotLoadBalancer(t *testing.T) {
	for _, gw := range []string{"InternetGateway", "NATGateway", "VPNGateway", "ServiceGateway", "DynamicRoutingGateway"} {
		req, err := Project([]types.UnifiedResource{
			res("web", types.ServiceCompute, "Instance", "us-east-1", map[string]any{"vcpus": 2.0, "memory": 4.0}),
			res("gw", types.ServiceNetworking, gw, "us-east-1", nil),
		})
		require.NoError(t, err)
		assert.Equal(t, "none", req.Networking.LoadBalancer, gw)
	}
}

func TestProjectLoadBalancerKinds(t *testing.T) {
	for _, lb := range []string{"LoadBalancer", "ApplicationLoadBalancer", "NetworkLoadBalancer", "GlobalLoadBalancer", "ApplicationGateway"} {
		req, err := Project([]types.UnifiedResource{res("lb", types.ServiceNetworking, lb, "us-east-1", nil)})
		require.NoError(t, err)
		assert.Equal(t, "application", req.Networking.LoadBalancer, lb)
	}

	req, err := Project([]types.UnifiedResource{
		res("fwd", types.ServiceNetworking, "BackendService", "us-east-1", map[string]any{"lbType": "network"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "application", req.Networking.LoadBalancer, "networking record with an lbType detail")
}

func TestProjectStorageSubRecordsAreNotSized(t *testing.T) {
	req, err := Project([]types.UnifiedResource{
		res("policy", types.ServiceStorage, "BucketPolicy", "us-east-1", nil),
		res("obj", types.ServiceStorage, "Object", "us-east-1", nil),
		res("blob", types.ServiceStorage, "StorageBlob", "eastus", map[string]any{"storage": 5.0}),
	})
	require.NoError(t, err)
	assert.Zero(t, req.Storage.ObjectStorage.Size)
	assert.Zero(t, req.Storage.BlockStorage.Size)
	assert.Zero(t, req.Storage.FileStorage.Size)

	req, err = Project([]types.UnifiedResource{
		res("assets", types.ServiceStorage, "Bucket", "us-east-1", nil),
		res("media", types.ServiceStorage, "StorageContainer", "eastus", map[string]any{"storage": 40.0}),
	})
	require.NoError(t, err)
	assert.Equal(t, 140.0, req.Storage.ObjectStorage.Size)
}

// Networking and policy records carry no sizing of their own, so only
// bandwidth moves off its default.
func TestProjectNoSizingWithoutEvidence(t *testing.T) {
	resources := []types.UnifiedResource{
		res("vpc", types.ServiceNetworking, "VPC", "us-east-1", nil),
		res("subnet", types.ServiceNetworking, "Subnet", "us-east-1", nil),
		res("igw", types.ServiceNetworking, "InternetGateway", "us-east-1", nil),
		res("nat", types.ServiceNetworking, "NATGateway", "us-east-1", nil),
		res("sg", types.ServiceNetworking, "SecurityGroup", "us-east-1", nil),
		res("policy", types.ServiceStorage, "BucketPolicy", "us-east-1", nil),
		res("key", types.ServiceSecurity, "Key", "us-east-1", nil),
		res("alarm", types.ServiceMonitoring, "Alarm", "us-east-1", nil),
	}
	req, err := Project(resources)
	require.NoError(t, err)

	want := types.DefaultRequirements()
	want.Networking.Bandwidth = 80
	assert.Equal(t, want, req)
}

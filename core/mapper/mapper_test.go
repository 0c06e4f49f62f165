package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multicloud-cost/core/types"
)

func TestDefaultRegistryIsValid(t *testing.T) {
	reg := NewDefaultRegistry()
	stats := reg.Stats()

	assert.Greater(t, stats.Total, 150)
	for _, p := range types.PricedProviders {
		assert.NotZero(t, stats.ByProvider[p], "no rules for %s", p)
	}
	assert.Zero(t, stats.ByService[types.ServiceOther])
}

func TestRegisterDuplicatePanics(t *testing.T) {
	reg := NewRegistry()
	rule := Rule{Provider: types.ProviderAWS, NativeType: "aws_instance", Type: "Instance", Service: types.ServiceCompute}
	reg.Register(rule)

	assert.Panics(t, func() { reg.Register(rule) })
	assert.Error(t, reg.RegisterSafe(rule))
}

func TestRuleValidate(t *testing.T) {
	cases := []struct {
		name string
		rule Rule
	}{
		{"missing type", Rule{Provider: types.ProviderAWS, NativeType: "aws_x", Service: types.ServiceCompute}},
		{"wrong prefix", Rule{Provider: types.ProviderGCP, NativeType: "aws_x", Type: "X", Service: types.ServiceCompute}},
		{"unknown service", Rule{Provider: types.ProviderAWS, NativeType: "aws_x", Type: "X", Service: "Blockchain"}},
		{"multi-cloud provider", Rule{Provider: types.ProviderMultiCloud, NativeType: "aws_x", Type: "X", Service: types.ServiceCompute}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.rule.Validate())
		})
	}
}

func TestNormalizeAWSInstance(t *testing.T) {
	n := NewNormalizer(nil)
	r := n.Normalize(NativeRecord{
		NativeType: "aws_instance",
		Name:       "web",
		Attributes: Attributes{
			"id":                "i-0abc",
			"instance_type":     "m5.xlarge",
			"availability_zone": "us-west-2a",
			"instance_state":    "running",
			"tags":              map[string]any{"Name": "web-1", "env": "prod"},
		},
	})

	assert.Equal(t, "i-0abc", r.ID)
	assert.Equal(t, "web-1", r.Name)
	assert.Equal(t, "Instance", r.Type)
	assert.Equal(t, types.ServiceCompute, r.Service)
	assert.Equal(t, types.ProviderAWS, r.Provider)
	assert.Equal(t, "us-west-2a", r.Location)
	assert.Equal(t, "running", r.State)
	assert.Equal(t, map[string]string{"Name": "web-1", "env": "prod"}, r.Tags)

	vcpus, _ := r.DetailFloat(types.DetailVCPUs)
	mem, _ := r.DetailFloat(types.DetailMemory)
	assert.Equal(t, 4.0, vcpus)
	assert.Equal(t, 16.0, mem)
	assert.Equal(t, "m5.xlarge", r.DetailString(types.DetailInstanceType))
}

func TestNormalizeDefaults(t *testing.T) {
	n := NewNormalizer(nil)

	cases := []struct {
		nativeType string
		location   string
	}{
		{"aws_s3_bucket", "us-east-1"},
		{"azurerm_storage_account", "eastus"},
		{"google_storage_bucket", "us-central1"},
		{"oci_objectstorage_bucket", "us-phoenix-1"},
	}
	for _, tc := range cases {
		r := n.Normalize(NativeRecord{NativeType: tc.nativeType, Name: "data"})
		assert.Equal(t, tc.location, r.Location, tc.nativeType)
		assert.Equal(t, "active", r.State, tc.nativeType)
		assert.Equal(t, "data", r.Name, tc.nativeType)
		assert.Equal(t, tc.nativeType+".data", r.ID, tc.nativeType)
		assert.NotNil(t, r.Tags)
	}
}

func TestNormalizeUnknownTypeIsKept(t *testing.T) {
	n := NewNormalizer(nil)
	r := n.Normalize(NativeRecord{NativeType: "google_pubsub_topic", Address: "google_pubsub_topic.events"})

	assert.Equal(t, types.TypeUnknown, r.Type)
	assert.Equal(t, types.ServiceOther, r.Service)
	assert.Equal(t, types.ProviderGCP, r.Provider)
	assert.False(t, r.IsPriced())

	r = n.Normalize(NativeRecord{NativeType: "random_id", Address: "random_id.suffix"})
	assert.Equal(t, types.ProviderMultiCloud, r.Provider)
	assert.Equal(t, "unknown", r.Location)
}

func TestUnknownInstanceTypeGetsDefaultSize(t *testing.T) {
	r := NewNormalizer(nil).Normalize(NativeRecord{
		NativeType: "google_compute_instance",
		Attributes: Attributes{"machine_type": "z9-imaginary-4", "zone": "europe-west1-b"},
	})
	vcpus, _ := r.DetailFloat(types.DetailVCPUs)
	mem, _ := r.DetailFloat(types.DetailMemory)
	assert.Equal(t, 2.0, vcpus)
	assert.Equal(t, 4.0, mem)
	assert.Equal(t, "europe-west1-b", r.Location)
}

func TestOracleFlexShapeConfig(t *testing.T) {
	r := NewNormalizer(nil).Normalize(NativeRecord{
		NativeType: "oci_core_instance",
		Attributes: Attributes{
			"display_name":  "app",
			"shape":         "VM.Standard.E4.Flex",
			"shape_config":  []any{map[string]any{"ocpus": 4.0, "memory_in_gbs": 64.0}},
			"freeform_tags": map[string]any{"team": "core"},
			"region":        "eu-frankfurt-1",
		},
	})
	vcpus, _ := r.DetailFloat(types.DetailVCPUs)
	mem, _ := r.DetailFloat(types.DetailMemory)
	assert.Equal(t, 4.0, vcpus)
	assert.Equal(t, 64.0, mem)
	assert.Equal(t, "app", r.Name)
	assert.Equal(t, "core", r.Tags["team"])
}

func TestDatabaseDetails(t *testing.T) {
	r := NewNormalizer(nil).Normalize(NativeRecord{
		NativeType: "aws_db_instance",
		Attributes: Attributes{
			"id":                "db-1",
			"engine":            "postgres",
			"instance_class":    "db.m5.large",
			"allocated_storage": 200,
			"multi_az":          true,
			"status":            "available",
		},
	})

	assert.Equal(t, types.ServiceDatabase, r.Service)
	assert.Equal(t, "postgres", r.DetailString(types.DetailEngine))
	assert.Equal(t, "db.m5.large", r.DetailString(types.DetailInstanceClass))
	storage, ok := r.DetailFloat(types.DetailStorage)
	require.True(t, ok)
	assert.Equal(t, 200.0, storage)
	assert.True(t, r.DetailBool(types.DetailMultiAZ))
	assert.Equal(t, "available", r.State)

	_, hasVCPUs := r.Detail(types.DetailVCPUs)
	assert.False(t, hasVCPUs)
}

func TestLoadBalancerDetails(t *testing.T) {
	n := NewNormalizer(nil)

	r := n.Normalize(NativeRecord{NativeType: "aws_lb", Attributes: Attributes{"load_balancer_type": "network"}})
	assert.Equal(t, "network", r.DetailString(types.DetailLBType))

	r = n.Normalize(NativeRecord{NativeType: "oci_network_load_balancer_network_load_balancer"})
	assert.Equal(t, "network", r.DetailString(types.DetailLBType))

	r = n.Normalize(NativeRecord{NativeType: "azurerm_lb"})
	assert.Equal(t, "application", r.DetailString(types.DetailLBType))
}

func TestFunctionMemoryIsGB(t *testing.T) {
	r := NewNormalizer(nil).Normalize(NativeRecord{
		NativeType: "aws_lambda_function",
		Attributes: Attributes{"function_name": "handler", "memory_size": 512, "runtime": "go1.x"},
	})
	mem, _ := r.DetailFloat(types.DetailMemory)
	assert.Equal(t, 0.5, mem)
	assert.Equal(t, "go1.x", r.DetailString(types.DetailRuntime))
}

func TestNormalizeAllDeduplicatesIDs(t *testing.T) {
	out := NewNormalizer(nil).NormalizeAll([]NativeRecord{
		{NativeType: "aws_s3_bucket", Attributes: Attributes{"id": "logs"}},
		{NativeType: "aws_s3_bucket_policy", Attributes: Attributes{"id": "logs"}},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "logs", out[0].ID)
	assert.Equal(t, "logs#2", out[1].ID)
}

func TestTagsMergeOrder(t *testing.T) {
	tags := Tags(Attributes{
		"tags":   map[string]any{"env": "dev", "count": 3},
		"labels": map[string]any{"env": "prod"},
	})
	assert.Equal(t, "prod", tags["env"])
	assert.Equal(t, "3", tags["count"])
}

func TestSizeOf(t *testing.T) {
	s, ok := SizeOf("Standard_D4s_v3")
	if !ok || s.VCPUs != 4 || s.Memory != 16 {
		t.Errorf("Standard_D4s_v3: got %+v ok=%v", s, ok)
	}
	s, ok = SizeOf("")
	if ok || s != DefaultInstanceSize {
		t.Errorf("empty type: got %+v ok=%v", s, ok)
	}
}

func TestNormalizeCarriesMetadata(t *testing.T) {
	n := NewNormalizer(nil)

	r := n.Normalize(NativeRecord{
		NativeType: "aws_s3_bucket",
		Name:       "assets",
		Attributes: Attributes{"arn": "arn:aws:s3:::assets", "owner_id": "123456789012"},
	})
	assert.Equal(t, map[string]any{"arn": "arn:aws:s3:::assets", "accountId": "123456789012"}, r.CostDetails[types.DetailMetadata])

	r = n.Normalize(NativeRecord{
		NativeType: "oci_core_vcn",
		Name:       "main",
		Attributes: Attributes{"compartment_id": "ocid1.compartment.oc1..aaa"},
	})
	assert.Equal(t, map[string]any{"compartmentId": "ocid1.compartment.oc1..aaa"}, r.CostDetails[types.DetailMetadata])

	r = n.Normalize(NativeRecord{NativeType: "google_compute_network", Name: "vpc"})
	assert.NotContains(t, r.CostDetails, types.DetailMetadata)
}

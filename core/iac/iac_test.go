package iac

import (
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

func sampleWorkloads() []types.Workload {
	return []types.Workload{
		{
			SlNo: 1, WorkloadType: "App", ApplicationName: "Web App", Softwares: "nginx",
			OSName: "Ubuntu 22.04", CPUName: "t3.large", PhysicalCores: 2, TotalThreads: 4, RAMGB: 8,
			BootSpaceGB: 40, DataSpaceGB: 200, FileStorageGB: 50, LoadBalanced: true,
		},
		{
			SlNo: 2, WorkloadType: "DB", ApplicationName: "Orders", Softwares: "Oracle 19c",
			PhysicalCores: 8, RAMGB: 64, DataSpaceGB: 50, HARequired: true,
		},
		{
			SlNo: 3, WorkloadType: "App", ApplicationName: "Reports", OSName: "Windows Server 2022",
			PhysicalCores: 3, RAMGB: 10,
		},
	}
}

// parsed indexes the blocks of a generated file
type parsed struct {
	resources []string
	blocks    map[string]*hclwrite.Body
	variables map[string]bool
	refs      []string
}

func parse(t *testing.T, src string) parsed {
	t.Helper()
	f, diags := hclwrite.ParseConfig([]byte(src), "main.tf", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())

	p := parsed{blocks: make(map[string]*hclwrite.Body), variables: make(map[string]bool)}
	for _, b := range f.Body().Blocks() {
		switch b.Type() {
		case "resource":
			key := strings.Join(b.Labels(), ".")
			p.resources = append(p.resources, key)
			p.blocks[key] = b.Body()
		case "variable":
			p.variables[b.Labels()[0]] = true
		}
		p.refs = append(p.refs, traversals(b.Body())...)
	}
	return p
}

func traversals(body *hclwrite.Body) []string {
	var out []string
	for _, a := range body.Attributes() {
		for _, tr := range a.Expr().Variables() {
			out = append(out, strings.Join(strings.Fields(string(tr.BuildTokens(nil).Bytes())), ""))
		}
	}
	for _, b := range body.Blocks() {
		out = append(out, traversals(b.Body())...)
	}
	return out
}

func (p parsed) attr(t *testing.T, resource, name string) string {
	t.Helper()
	body, ok := p.blocks[resource]
	require.True(t, ok, "resource %s not emitted", resource)
	a := body.GetAttribute(name)
	require.NotNil(t, a, "%s has no attribute %s", resource, name)
	return strings.TrimSpace(string(a.Expr().BuildTokens(nil).Bytes()))
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "web_app_0", Identifier("Web App", 0))
	assert.Equal(t, "sap_hana__prod__3", Identifier("SAP-HANA (prod)", 3))
	assert.Equal(t, "_1st_tier_2", Identifier("1st tier", 2))
	assert.Equal(t, "_5", Identifier("", 5))
}

func TestGenerateRejectsUnknownProvider(t *testing.T) {
	for _, p := range []types.Provider{types.ProviderMultiCloud, "ibm"} {
		_, err := Generate(sampleWorkloads(), p)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeNotSupported), "provider %s: %v", p, err)
	}
}

func TestGenerateAWS(t *testing.T) {
	out, err := Generate(sampleWorkloads(), types.ProviderAWS)
	require.NoError(t, err)
	p := parse(t, out)

	assert.Equal(t, []string{
		"aws_instance.web_app_0",
		"aws_ebs_volume.web_app_0_data",
		"aws_volume_attachment.web_app_0_data",
		"aws_lb.web_app_0_alb",
		"aws_lb_target_group.web_app_0_tg",
		"aws_lb_listener.web_app_0_http",
		"aws_lb_target_group_attachment.web_app_0_tg",
		"aws_efs_file_system.web_app_0_efs",
		"aws_efs_mount_target.web_app_0_efs",
		"aws_db_instance.orders_1_db",
		"aws_instance.reports_2",
	}, p.resources)

	assert.Equal(t, `"t3.large"`, p.attr(t, "aws_instance.web_app_0", "instance_type"))
	assert.Equal(t, "var.subnet_id", p.attr(t, "aws_instance.web_app_0", "subnet_id"))
	assert.Equal(t, "200", p.attr(t, "aws_ebs_volume.web_app_0_data", "size"))
	assert.Equal(t, "aws_instance.web_app_0.id", p.attr(t, "aws_lb_target_group_attachment.web_app_0_tg", "target_id"))

	assert.Equal(t, `"db.r5.2xlarge"`, p.attr(t, "aws_db_instance.orders_1_db", "instance_class"))
	assert.Equal(t, "true", p.attr(t, "aws_db_instance.orders_1_db", "multi_az"))
	assert.Equal(t, "100", p.attr(t, "aws_db_instance.orders_1_db", "allocated_storage"))

	// 3 cores and 10 GB do not fit t3.large or r5.large
	assert.Equal(t, `"t3.xlarge"`, p.attr(t, "aws_instance.reports_2", "instance_type"))
}

func TestEveryDialectIsSelfConsistent(t *testing.T) {
	for _, provider := range types.PricedProviders {
		t.Run(string(provider), func(t *testing.T) {
			out, err := Generate(sampleWorkloads(), provider)
			require.NoError(t, err)
			p := parse(t, out)
			require.NotEmpty(t, p.resources)

			declared := make(map[string]bool, len(p.resources))
			for _, r := range p.resources {
				declared[r] = true
			}
			for _, ref := range p.refs {
				parts := strings.Split(ref, ".")
				require.GreaterOrEqual(t, len(parts), 2, ref)
				if parts[0] == "var" {
					assert.True(t, p.variables[parts[1]], "undeclared variable %s", ref)
					continue
				}
				assert.True(t, declared[parts[0]+"."+parts[1]], "dangling reference %s", ref)
			}
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	for _, provider := range types.PricedProviders {
		a, err := Generate(sampleWorkloads(), provider)
		require.NoError(t, err)
		b, err := Generate(sampleWorkloads(), provider)
		require.NoError(t, err)
		assert.Equal(t, a, b, provider)
	}
}

func TestDatabaseWorkloadsGetNoInstance(t *testing.T) {
	db := sampleWorkloads()[1]
	db.LoadBalanced = true
	out, err := Generate([]types.Workload{db}, types.ProviderGCP)
	require.NoError(t, err)
	p := parse(t, out)

	assert.Equal(t, []string{"google_sql_database_instance.orders_0_db", "google_sql_database.orders_0_db"}, p.resources)
	assert.Equal(t, `"REGIONAL"`, p.attr(t, "google_sql_database_instance.orders_0_db", "availability_type"))
}

func TestAzureWindowsWorkloads(t *testing.T) {
	w := sampleWorkloads()[2]
	w.DataSpaceGB = 10
	out, err := Generate([]types.Workload{w}, types.ProviderAzure)
	require.NoError(t, err)
	p := parse(t, out)

	assert.Contains(t, p.resources, "azurerm_windows_virtual_machine.reports_0")
	assert.Equal(t, "var.admin_password", p.attr(t, "azurerm_windows_virtual_machine.reports_0", "admin_password"))
	assert.Equal(t, `"Standard_B4ms"`, p.attr(t, "azurerm_windows_virtual_machine.reports_0", "size"))
	assert.Equal(t, "azurerm_windows_virtual_machine.reports_0.id",
		p.attr(t, "azurerm_virtual_machine_data_disk_attachment.reports_0_data", "virtual_machine_id"))
}

func TestOracleFlexShape(t *testing.T) {
	w := types.Workload{WorkloadType: "App", ApplicationName: "Batch", CPUName: "r5.large", PhysicalCores: 2, RAMGB: 16}
	out, err := Generate([]types.Workload{w}, types.ProviderOracle)
	require.NoError(t, err)
	assert.Contains(t, out, "shape_config")

	p := parse(t, out)
	assert.Equal(t, `"VM.Standard.E4.Flex"`, p.attr(t, "oci_core_instance.batch_0", "shape"))
}

func TestWithRegionSetsDefault(t *testing.T) {
	out, err := Generate(nil, types.ProviderAWS, WithRegion("ap-south-1"))
	require.NoError(t, err)
	f, diags := hclwrite.ParseConfig([]byte(out), "main.tf", hcl.InitialPos)
	require.False(t, diags.HasErrors())

	var region string
	for _, b := range f.Body().Blocks() {
		if b.Type() == "variable" && b.Labels()[0] == "region" {
			region = strings.TrimSpace(string(b.Body().GetAttribute("default").Expr().BuildTokens(nil).Bytes()))
		}
	}
	assert.Equal(t, `"ap-south-1"`, region)
}

func TestSizeLadder(t *testing.T) {
	r := &renderer{dialect: awsDialect}
	cases := []struct {
		name string
		w    types.Workload
		want string
	}{
		{"cpu name wins", types.Workload{CPUName: " T3.Large ", PhysicalCores: 64, RAMGB: 512}, "t3.large"},
		{"nothing requested", types.Workload{}, "t3.medium"},
		{"threads count", types.Workload{PhysicalCores: 2, TotalThreads: 8, RAMGB: 8}, "m5.2xlarge"},
		{"memory bound", types.Workload{PhysicalCores: 2, RAMGB: 100}, "r5.4xlarge"},
		{"too large", types.Workload{PhysicalCores: 256, RAMGB: 2048}, "r5.16xlarge"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.size(tc.w))
		})
	}
}

func TestWorkloadsFromResources(t *testing.T) {
	resources := []types.UnifiedResource{
		{
			Name: "web", Service: types.ServiceCompute, Location: "us-east-1",
			Tags: map[string]string{"workloadType": "App"},
			CostDetails: map[string]any{
				types.DetailVCPUs: 4.0, types.DetailMemory: 16.0, types.DetailStorage: 250.0,
				types.DetailDataSpace: 200.0, types.DetailLoadBalanced: true, types.DetailInstanceType: "t3.large",
			},
		},
		{Name: "web-lb", Service: types.ServiceNetworking},
		{
			Name: "orders", Service: types.ServiceDatabase,
			CostDetails: map[string]any{types.DetailVCPUs: 2.0, types.DetailStorage: 500.0, types.DetailMultiAZ: true},
		},
	}

	got := WorkloadsFromResources(resources)
	require.Len(t, got, 2)

	web := got[0]
	assert.Equal(t, 1, web.SlNo)
	assert.Equal(t, "App", web.WorkloadType)
	assert.Equal(t, "t3.large", web.CPUName)
	assert.Equal(t, 50.0, web.BootSpaceGB)
	assert.Equal(t, 200.0, web.DataSpaceGB)
	assert.True(t, web.LoadBalanced)
	assert.False(t, web.IsDatabase())

	orders := got[1]
	assert.True(t, orders.IsDatabase())
	assert.Equal(t, 500.0, orders.DataSpaceGB)
	assert.True(t, orders.HARequired)
}

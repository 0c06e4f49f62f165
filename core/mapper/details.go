package mapper

import (
	"strings"

	"multicloud-cost/core/types"
)

// detailGroup extracts sizing hints for native types whose name contains one of match
type detailGroup struct {
	name     string
	match    []string
	services []types.Service
	extract  func(a Attributes, rule Rule, details map[string]any)
}

var detailGroups = []detailGroup{
	{
		name:     "instance",
		match:    []string{"instance", "vm", "virtual_machine"},
		services: []types.Service{types.ServiceCompute, types.ServiceOther},
		extract:  instanceDetails,
	},
	{
		name:    "storage",
		match:   []string{"storage", "bucket", "volume", "disk", "file_system", "filestore", "blob", "share"},
		extract: storageDetails,
	},
	{
		name:    "database",
		match:   []string{"database", "rds", "sql", "db_", "redshift", "dynamodb", "cosmosdb", "spanner", "bigtable", "nosql"},
		extract: databaseDetails,
	},
	{
		name:    "cache",
		match:   []string{"cache", "redis", "memcached"},
		extract: cacheDetails,
	},
	{
		name:    "lb",
		match:   []string{"lb", "load_balancer", "forwarding_rule", "application_gateway"},
		extract: loadBalancerDetails,
	},
	{
		name:    "container",
		match:   []string{"container", "kubernetes", "eks", "node_pool", "node_group"},
		extract: containerDetails,
	},
	{
		name:    "function",
		match:   []string{"function", "lambda"},
		extract: functionDetails,
	},
}

func (g detailGroup) applies(rule Rule) bool {
	if len(g.services) > 0 {
		found := false
		for _, s := range g.services {
			if s == rule.Service {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, m := range g.match {
		if strings.Contains(rule.NativeType, m) {
			return true
		}
	}
	return false
}

// ExtractDetails builds the cost details of a native record under its rule
func ExtractDetails(rule Rule, attrs Attributes) map[string]any {
	details := make(map[string]any)
	for _, g := range detailGroups {
		if g.applies(rule) {
			g.extract(attrs, rule, details)
		}
	}
	return details
}

func setString(details map[string]any, key, value string) {
	if value != "" {
		details[key] = value
	}
}

func setFloat(details map[string]any, key string, value float64, ok bool) {
	if ok {
		details[key] = value
	}
}

func instanceDetails(a Attributes, _ Rule, d map[string]any) {
	instanceType := a.String("instance_type", "vm_size", "machine_type", "shape", "size")
	setString(d, types.DetailInstanceType, instanceType)

	size, _ := SizeOf(instanceType)
	// flexible shapes carry their own sizing
	if cfg := a.Block("shape_config"); cfg != nil {
		if ocpus, ok := cfg.Float("ocpus"); ok {
			size.VCPUs = ocpus
		}
		if mem, ok := cfg.Float("memory_in_gbs"); ok {
			size.Memory = mem
		}
	}
	d[types.DetailVCPUs] = size.VCPUs
	d[types.DetailMemory] = size.Memory

	setString(d, types.DetailOS, a.String("platform", "os_type", "operating_system"))
}

func storageDetails(a Attributes, _ Rule, d map[string]any) {
	size, ok := a.Float("size", "allocated_storage", "disk_size_gb", "storage_size_in_gbs", "size_in_gbs", "quota")
	setFloat(d, types.DetailStorage, size, ok)
	iops, ok := a.Float("iops", "provisioned_iops", "disk_iops_read_write", "vpus_per_gb")
	setFloat(d, types.DetailIOPS, iops, ok)
}

func databaseDetails(a Attributes, _ Rule, d map[string]any) {
	setString(d, types.DetailEngine, a.String("engine", "database_edition", "database_version", "db_workload"))
	setString(d, types.DetailInstanceClass, a.String("instance_class", "db_instance_class", "sku_name", "tier", "node_type"))

	if _, ok := d[types.DetailStorage]; !ok {
		size, ok := a.Float("allocated_storage", "storage_size_in_gbs", "data_storage_size_in_gb", "data_storage_size_in_gbs", "max_size_gb")
		setFloat(d, types.DetailStorage, size, ok)
	}

	availability := strings.ToUpper(a.String("availability_type"))
	if a.Bool("multi_az", "zone_redundant") || availability == "REGIONAL" || availability == "ZONE_REDUNDANT" {
		d[types.DetailMultiAZ] = true
	}
}

func cacheDetails(a Attributes, _ Rule, d map[string]any) {
	nodes, ok := a.Float("num_cache_nodes", "num_node_groups", "node_count", "shard_count", "replica_count")
	setFloat(d, types.DetailNodeCount, nodes, ok)
	setString(d, types.DetailInstanceClass, a.String("node_type", "sku_name", "tier"))
}

func loadBalancerDetails(a Attributes, rule Rule, d map[string]any) {
	lbType := strings.ToLower(a.String("load_balancer_type"))
	if lbType == "" {
		lbType = "application"
		if strings.Contains(rule.Type, "Network") {
			lbType = "network"
		}
	}
	d[types.DetailLBType] = lbType
}

func containerDetails(a Attributes, _ Rule, d map[string]any) {
	nodes, ok := a.Float("node_count", "desired_size", "initial_node_count", "size")
	if !ok {
		if sc := a.Block("scaling_config"); sc != nil {
			nodes, ok = sc.Float("desired_size")
		}
	}
	if !ok {
		if pool := a.Block("default_node_pool"); pool != nil {
			nodes, ok = pool.Float("node_count")
		}
	}
	setFloat(d, types.DetailNodeCount, nodes, ok)
}

func functionDetails(a Attributes, _ Rule, d map[string]any) {
	setString(d, types.DetailRuntime, a.String("runtime", "function_runtime"))
	// function memory is configured in MB; details carry GB like instances
	if mb, ok := a.Float("memory_size", "available_memory_mb", "memory_in_mbs"); ok {
		d[types.DetailMemory] = mb / 1024
	}
}

package pricing

import (
	"strings"

	"multicloud-cost/core/types"
)

// Enumerations a valid requirements document can select. They match the
// oneof tags on types.InfrastructureRequirements.
var (
	instanceTypes     = []string{"general-purpose", "compute-optimized", "memory-optimized", "storage-optimized"}
	objectTiers       = []string{"standard", "infrequent-access", "glacier", "deep-archive"}
	blockTypes        = []string{"ssd-gp3", "ssd-io2", "hdd-st1"}
	fileModes         = []string{"general-purpose", "max-io"}
	relationalEngines = []string{"mysql", "postgresql", "oracle", "sql-server", "mariadb"}
	relationalClasses = []string{"micro", "small", "medium", "large", "xlarge"}
	cacheEngines      = []string{"redis", "memcached"}
	cacheClasses      = []string{"micro", "small", "medium", "large"}
	nodeSizes         = []string{"small", "medium", "large", "xlarge"}
	loadBalancers     = []string{"none", "application", "network"}
	aiInstances       = []string{"cpu", "gpu-small", "gpu-large"}
	backupFrequencies = []string{"daily", "weekly", "monthly"}
	streamQualities   = []string{"720p", "1080p", "4k"}
	transcodeFormats  = []string{"standard", "hd", "4k"}
	circuitLevels     = []string{"basic", "intermediate", "advanced"}
	frameworks        = []string{"gdpr", "hipaa", "sox", "pci", "iso27001"}
	residencies       = []string{"us", "eu", "asia", "global"}
	complexities      = []string{"simple", "moderate", "complex"}
	sqlEditions       = []string{"express", "standard", "enterprise"}
	oracleEditions    = []string{"standard", "enterprise"}
)

// providerKeys lists, per category, the dotted keys below <category>.<provider>
func providerKeys() map[types.Category][]string {
	return map[types.Category][]string{
		types.CategoryCompute: concat(
			cross(instanceTypes, "vcpu", "ram"),
			[]string{"windows_multiplier", "serverless_per_request", "serverless_per_gb_second"},
		),
		types.CategoryStorage: concat(
			prefixed("object", objectTiers...),
			[]string{"object.requests_per_1k.get", "block.iops"},
			prefixed("block", blockTypes...),
			prefixed("file", fileModes...),
		),
		types.CategoryDatabase: concat(
			prefixed("relational", cross(relationalEngines, relationalClasses...)...),
			[]string{"relational.multi_az_multiplier", "relational.storage_per_gb"},
			prefixed("nosql.dynamodb", "read_capacity_unit", "write_capacity_unit", "storage_per_gb"),
			[]string{"nosql.mongodb.small", "nosql.cassandra.small"},
			prefixed("cache", cross(cacheEngines, cacheClasses...)...),
			prefixed("warehouse", concat(nodeSizes, []string{"storage_per_gb"})...),
		),
		types.CategoryNetworking: concat(
			[]string{"bandwidth", "vpn.connection_hour"},
			prefixed("load_balancer", loadBalancers...),
			prefixed("cdn", "requests_per_10k", "data_transfer_per_gb"),
			prefixed("dns", "hosted_zone", "queries_per_million"),
		),
		types.CategoryAnalytics: concat(
			prefixed("data_processing", nodeSizes...),
			prefixed("streaming", "shard_hour", "record_per_million"),
			prefixed("business_intelligence", "user_per_month", "query_per_1k"),
		),
		types.CategoryAI: concat(
			prefixed("training", aiInstances...),
			prefixed("inference", aiInstances...),
			prefixed("prebuilt", "image_analysis_per_1k", "text_processing_per_million_chars", "speech_per_1k_requests"),
		),
		types.CategorySecurity: {
			"web_firewall_per_million", "identity_per_user", "identity_per_auth", "key_per_key",
			"key_per_10k_operations", "threat_detection", "threat_per_million_events",
		},
		types.CategoryMonitoring: {
			"custom_metric", "log_ingestion_per_gb", "traces_per_million", "alert_per_notification",
		},
		types.CategoryDevOps: {
			"build_per_minute", "parallel_job", "container_registry_per_gb", "container_pulls_per_1k",
			"api_requests_per_million", "api_endpoint",
		},
		types.CategoryBackup: concat(
			[]string{"storage_per_gb"},
			prefixed("frequency_multiplier", backupFrequencies...),
		),
		types.CategoryIoT: {
			"device_per_month", "message_per_million", "data_processing_per_gb", "edge_location",
		},
		types.CategoryMedia: concat(
			prefixed("streaming_per_hour", streamQualities...),
			prefixed("transcoding_per_minute", transcodeFormats...),
		),
		types.CategoryQuantum: concat(
			[]string{"qpu_hour", "circuit_optimization"},
			prefixed("algorithm_complexity", circuitLevels...),
		),
		types.CategoryAdvancedAI: {
			"vector_db_per_million_dims", "vector_queries_per_million", "tpu_per_hour",
			"inference_chips_per_hour", "model_hosting_per_model", "inference_per_million_requests",
			"document_processing_per_1k", "embeddings_per_million",
		},
		types.CategoryEdge: {
			"edge_location", "edge_compute_per_hour", "5g_network_slice", "private_5g_network",
			"realtime_events_per_million",
		},
		types.CategoryConfidential: {
			"secure_enclave_per_hour", "trusted_execution_per_hour", "privacy_operations_per_million",
			"zero_trust_per_gb",
		},
		types.CategorySustainability: {
			"carbon_tracking", "carbon_offset_per_ton", "renewable_energy_premium", "green_optimization",
		},
		types.CategoryScenarios: concat(
			[]string{"disaster_recovery_base", "audit_logging_per_gb", "migration_base_cost", "migration_per_tb"},
			prefixed("compliance_premiums", frameworks...),
			prefixed("data_residency_premium", residencies...),
			prefixed("complexity_multiplier", complexities...),
		),
	}
}

var licensingKeys = concat(
	[]string{"windows.server_standard", "vmware.vsphere_standard", "redhat.enterprise_linux",
		"sap.hana_enterprise", "microsoftOffice365.business_premium"},
	prefixed("sqlServer", sqlEditions...),
	prefixed("oracle", oracleEditions...),
)

// requiredPaths expands every key the calculator can reach into a path.
// DR multipliers are excluded: they fall back to their "default" entry and
// are checked when used.
func requiredPaths() [][]string {
	keys := providerKeys()
	var paths [][]string
	for _, cat := range types.ServiceCategories {
		for _, p := range types.PricedProviders {
			for _, key := range keys[cat] {
				paths = append(paths, append([]string{string(cat), string(p)}, strings.Split(key, ".")...))
			}
		}
	}
	for _, p := range types.PricedProviders {
		paths = append(paths,
			[]string{"providers", string(p), "co2_per_kwh"},
			[]string{"providers", string(p), "renewable_percent"})
	}
	for _, key := range licensingKeys {
		paths = append(paths, append([]string{string(types.CategoryLicensing)}, strings.Split(key, ".")...))
	}
	for _, c := range types.Currencies {
		paths = append(paths, []string{"currencies", string(c), "rate"})
	}
	return paths
}

func prefixed(prefix string, keys ...string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = prefix + "." + k
	}
	return out
}

func cross(outer []string, inner ...string) []string {
	var out []string
	for _, o := range outer {
		out = append(out, prefixed(o, inner...)...)
	}
	return out
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

package mapper

import "multicloud-cost/core/types"

// gcpRules maps GCP Terraform resource types onto the unified schema
var gcpRules = []Rule{
	// compute
	{NativeType: "google_compute_instance", Type: "Instance", Service: types.ServiceCompute},
	{NativeType: "google_compute_instance_group", Type: "InstanceGroup", Service: types.ServiceCompute},
	{NativeType: "google_compute_instance_template", Type: "InstanceTemplate", Service: types.ServiceCompute},
	{NativeType: "google_compute_autoscaler", Type: "Autoscaler", Service: types.ServiceCompute},
	{NativeType: "google_cloudfunctions_function", Type: "CloudFunction", Service: types.ServiceCompute},
	{NativeType: "google_container_cluster", Type: "KubernetesCluster", Service: types.ServiceCompute},
	{NativeType: "google_container_node_pool", Type: "KubernetesNodePool", Service: types.ServiceCompute},
	{NativeType: "google_cloud_run_service", Type: "CloudRunService", Service: types.ServiceCompute},

	// storage
	{NativeType: "google_storage_bucket", Type: "Bucket", Service: types.ServiceStorage},
	{NativeType: "google_storage_bucket_object", Type: "Object", Service: types.ServiceStorage},
	{NativeType: "google_compute_disk", Type: "Disk", Service: types.ServiceStorage},
	{NativeType: "google_compute_snapshot", Type: "Snapshot", Service: types.ServiceStorage},
	{NativeType: "google_filestore_instance", Type: "Filestore", Service: types.ServiceStorage},

	// database
	{NativeType: "google_sql_database_instance", Type: "Database", Service: types.ServiceDatabase},
	{NativeType: "google_sql_database", Type: "Database", Service: types.ServiceDatabase},
	{NativeType: "google_firestore_database", Type: "Firestore", Service: types.ServiceDatabase},
	{NativeType: "google_bigtable_instance", Type: "Bigtable", Service: types.ServiceDatabase},
	{NativeType: "google_redis_instance", Type: "Redis", Service: types.ServiceDatabase},
	{NativeType: "google_spanner_instance", Type: "Spanner", Service: types.ServiceDatabase},

	// networking
	{NativeType: "google_compute_forwarding_rule", Type: "LoadBalancer", Service: types.ServiceNetworking},
	{NativeType: "google_compute_backend_service", Type: "BackendService", Service: types.ServiceNetworking},
	{NativeType: "google_compute_network", Type: "VPC", Service: types.ServiceNetworking},
	{NativeType: "google_compute_subnetwork", Type: "Subnet", Service: types.ServiceNetworking},
	{NativeType: "google_compute_firewall", Type: "Firewall", Service: types.ServiceNetworking},
	{NativeType: "google_compute_router", Type: "Router", Service: types.ServiceNetworking},
	{NativeType: "google_compute_vpn_tunnel", Type: "VPNTunnel", Service: types.ServiceNetworking},
	{NativeType: "google_compute_vpn_gateway", Type: "VPNGateway", Service: types.ServiceNetworking},
	{NativeType: "google_compute_global_forwarding_rule", Type: "GlobalLoadBalancer", Service: types.ServiceNetworking},
	{NativeType: "google_dns_managed_zone", Type: "DNSZone", Service: types.ServiceNetworking},
	{NativeType: "google_dns_record_set", Type: "DNSRecord", Service: types.ServiceNetworking},

	// monitoring
	{NativeType: "google_logging_project_sink", Type: "LogSink", Service: types.ServiceMonitoring},
	{NativeType: "google_monitoring_alert_policy", Type: "AlertPolicy", Service: types.ServiceMonitoring},
	{NativeType: "google_monitoring_dashboard", Type: "Dashboard", Service: types.ServiceMonitoring},

	// security
	{NativeType: "google_kms_crypto_key", Type: "Key", Service: types.ServiceSecurity},

	// analytics
	{NativeType: "google_bigquery_dataset", Type: "Dataset", Service: types.ServiceAnalytics},
}

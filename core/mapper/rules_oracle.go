package mapper

import "multicloud-cost/core/types"

// oracleRules maps OCI Terraform resource types onto the unified schema
var oracleRules = []Rule{
	// compute
	{NativeType: "oci_core_instance", Type: "Instance", Service: types.ServiceCompute},
	{NativeType: "oci_core_instance_pool", Type: "InstancePool", Service: types.ServiceCompute},
	{NativeType: "oci_autoscaling_auto_scaling_configuration", Type: "AutoScalingConfig", Service: types.ServiceCompute},
	{NativeType: "oci_functions_function", Type: "Function", Service: types.ServiceCompute},
	{NativeType: "oci_containerengine_cluster", Type: "KubernetesCluster", Service: types.ServiceCompute},
	{NativeType: "oci_containerengine_node_pool", Type: "KubernetesNodePool", Service: types.ServiceCompute},

	// storage
	{NativeType: "oci_objectstorage_bucket", Type: "Bucket", Service: types.ServiceStorage},
	{NativeType: "oci_objectstorage_object", Type: "Object", Service: types.ServiceStorage},
	{NativeType: "oci_core_volume", Type: "Volume", Service: types.ServiceStorage},
	{NativeType: "oci_core_volume_backup", Type: "VolumeBackup", Service: types.ServiceStorage},
	{NativeType: "oci_file_storage_file_system", Type: "FileSystem", Service: types.ServiceStorage},

	// database
	{NativeType: "oci_database_autonomous_database", Type: "AutonomousDatabase", Service: types.ServiceDatabase},
	{NativeType: "oci_database_db_system", Type: "DatabaseSystem", Service: types.ServiceDatabase},
	{NativeType: "oci_nosql_table", Type: "NoSQLTable", Service: types.ServiceDatabase},
	{NativeType: "oci_redis_redis_cluster", Type: "RedisCluster", Service: types.ServiceDatabase},

	// networking
	{NativeType: "oci_load_balancer_load_balancer", Type: "LoadBalancer", Service: types.ServiceNetworking},
	{NativeType: "oci_network_load_balancer_network_load_balancer", Type: "NetworkLoadBalancer", Service: types.ServiceNetworking},
	{NativeType: "oci_core_vcn", Type: "VCN", Service: types.ServiceNetworking},
	{NativeType: "oci_core_subnet", Type: "Subnet", Service: types.ServiceNetworking},
	{NativeType: "oci_core_security_list", Type: "SecurityList", Service: types.ServiceNetworking},
	{NativeType: "oci_core_internet_gateway", Type: "InternetGateway", Service: types.ServiceNetworking},
	{NativeType: "oci_core_nat_gateway", Type: "NATGateway", Service: types.ServiceNetworking},
	{NativeType: "oci_core_service_gateway", Type: "ServiceGateway", Service: types.ServiceNetworking},
	{NativeType: "oci_core_drg", Type: "DynamicRoutingGateway", Service: types.ServiceNetworking},
	{NativeType: "oci_dns_zone", Type: "DNSZone", Service: types.ServiceNetworking},
	{NativeType: "oci_dns_rrset", Type: "DNSRecord", Service: types.ServiceNetworking},

	// monitoring
	{NativeType: "oci_logging_log_group", Type: "LogGroup", Service: types.ServiceMonitoring},
	{NativeType: "oci_monitoring_alarm", Type: "Alarm", Service: types.ServiceMonitoring},

	// security
	{NativeType: "oci_kms_vault", Type: "Vault", Service: types.ServiceSecurity},
}

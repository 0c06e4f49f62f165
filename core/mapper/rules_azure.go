package mapper

import "multicloud-cost/core/types"

// azureRules maps Azure Terraform resource types onto the unified schema
var azureRules = []Rule{
	// compute
	{NativeType: "azurerm_virtual_machine", Type: "Instance", Service: types.ServiceCompute},
	{NativeType: "azurerm_virtual_machine_scale_set", Type: "ScaleSet", Service: types.ServiceCompute},
	{NativeType: "azurerm_availability_set", Type: "AvailabilitySet", Service: types.ServiceCompute},
	{NativeType: "azurerm_proximity_placement_group", Type: "ProximityGroup", Service: types.ServiceCompute},
	{NativeType: "azurerm_function_app", Type: "FunctionApp", Service: types.ServiceCompute},
	{NativeType: "azurerm_container_group", Type: "ContainerGroup", Service: types.ServiceCompute},
	{NativeType: "azurerm_kubernetes_cluster", Type: "KubernetesCluster", Service: types.ServiceCompute},
	{NativeType: "azurerm_kubernetes_cluster_node_pool", Type: "KubernetesNodePool", Service: types.ServiceCompute},
	{NativeType: "azurerm_linux_virtual_machine", Type: "Instance", Service: types.ServiceCompute},
	{NativeType: "azurerm_windows_virtual_machine", Type: "Instance", Service: types.ServiceCompute},

	// storage
	{NativeType: "azurerm_storage_account", Type: "StorageAccount", Service: types.ServiceStorage},
	{NativeType: "azurerm_storage_container", Type: "StorageContainer", Service: types.ServiceStorage},
	{NativeType: "azurerm_storage_blob", Type: "StorageBlob", Service: types.ServiceStorage},
	{NativeType: "azurerm_managed_disk", Type: "ManagedDisk", Service: types.ServiceStorage},
	{NativeType: "azurerm_snapshot", Type: "Snapshot", Service: types.ServiceStorage},
	{NativeType: "azurerm_storage_share", Type: "FileShare", Service: types.ServiceStorage},

	// database
	{NativeType: "azurerm_sql_database", Type: "Database", Service: types.ServiceDatabase},
	{NativeType: "azurerm_sql_server", Type: "DatabaseServer", Service: types.ServiceDatabase},
	{NativeType: "azurerm_sql_elasticpool", Type: "ElasticPool", Service: types.ServiceDatabase},
	{NativeType: "azurerm_cosmosdb_account", Type: "CosmosDB", Service: types.ServiceDatabase},
	{NativeType: "azurerm_redis_cache", Type: "RedisCache", Service: types.ServiceDatabase},
	{NativeType: "azurerm_postgresql_server", Type: "PostgreSQLServer", Service: types.ServiceDatabase},
	{NativeType: "azurerm_mysql_server", Type: "MySQLServer", Service: types.ServiceDatabase},

	// networking
	{NativeType: "azurerm_lb", Type: "LoadBalancer", Service: types.ServiceNetworking},
	{NativeType: "azurerm_application_gateway", Type: "ApplicationGateway", Service: types.ServiceNetworking},
	{NativeType: "azurerm_virtual_network", Type: "VNet", Service: types.ServiceNetworking},
	{NativeType: "azurerm_subnet", Type: "Subnet", Service: types.ServiceNetworking},
	{NativeType: "azurerm_network_security_group", Type: "NetworkSecurityGroup", Service: types.ServiceNetworking},
	{NativeType: "azurerm_public_ip", Type: "PublicIP", Service: types.ServiceNetworking},
	{NativeType: "azurerm_network_interface", Type: "NetworkInterface", Service: types.ServiceNetworking},
	{NativeType: "azurerm_virtual_network_gateway", Type: "VPNGateway", Service: types.ServiceNetworking},
	{NativeType: "azurerm_express_route_circuit", Type: "ExpressRoute", Service: types.ServiceNetworking},
	{NativeType: "azurerm_cdn_profile", Type: "CDNProfile", Service: types.ServiceNetworking},
	{NativeType: "azurerm_cdn_endpoint", Type: "CDNEndpoint", Service: types.ServiceNetworking},
	{NativeType: "azurerm_dns_zone", Type: "DNSZone", Service: types.ServiceNetworking},
	{NativeType: "azurerm_dns_a_record", Type: "DNSRecord", Service: types.ServiceNetworking},

	// monitoring
	{NativeType: "azurerm_log_analytics_workspace", Type: "LogAnalyticsWorkspace", Service: types.ServiceMonitoring},
	{NativeType: "azurerm_application_insights", Type: "ApplicationInsights", Service: types.ServiceMonitoring},
	{NativeType: "azurerm_monitor_metric_alert", Type: "MetricAlert", Service: types.ServiceMonitoring},

	// security
	{NativeType: "azurerm_key_vault", Type: "KeyVault", Service: types.ServiceSecurity},
}

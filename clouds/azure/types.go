package azure

import (
	"strings"
	"unicode"
)

// armTypes maps lower-cased Resource Manager types to Terraform type names
var armTypes = map[string]string{
	// compute
	"microsoft.compute/virtualmachines":           "azurerm_virtual_machine",
	"microsoft.compute/virtualmachinescalesets":   "azurerm_virtual_machine_scale_set",
	"microsoft.compute/availabilitysets":          "azurerm_availability_set",
	"microsoft.compute/proximityplacementgroups":  "azurerm_proximity_placement_group",
	"microsoft.containerinstance/containergroups": "azurerm_container_group",
	"microsoft.containerservice/managedclusters":  "azurerm_kubernetes_cluster",

	// storage
	"microsoft.storage/storageaccounts": "azurerm_storage_account",
	"microsoft.compute/disks":           "azurerm_managed_disk",
	"microsoft.compute/snapshots":       "azurerm_snapshot",

	// database
	"microsoft.sql/servers":                 "azurerm_sql_server",
	"microsoft.sql/servers/databases":       "azurerm_sql_database",
	"microsoft.sql/servers/elasticpools":    "azurerm_sql_elasticpool",
	"microsoft.documentdb/databaseaccounts": "azurerm_cosmosdb_account",
	"microsoft.cache/redis":                 "azurerm_redis_cache",
	"microsoft.dbforpostgresql/servers":     "azurerm_postgresql_server",
	"microsoft.dbformysql/servers":          "azurerm_mysql_server",

	// networking
	"microsoft.network/loadbalancers":          "azurerm_lb",
	"microsoft.network/applicationgateways":    "azurerm_application_gateway",
	"microsoft.network/virtualnetworks":        "azurerm_virtual_network",
	"microsoft.network/networksecuritygroups":  "azurerm_network_security_group",
	"microsoft.network/publicipaddresses":      "azurerm_public_ip",
	"microsoft.network/networkinterfaces":      "azurerm_network_interface",
	"microsoft.network/virtualnetworkgateways": "azurerm_virtual_network_gateway",
	"microsoft.network/expressroutecircuits":   "azurerm_express_route_circuit",
	"microsoft.network/dnszones":               "azurerm_dns_zone",
	"microsoft.cdn/profiles":                   "azurerm_cdn_profile",
	"microsoft.cdn/profiles/endpoints":         "azurerm_cdn_endpoint",

	// monitoring and security
	"microsoft.operationalinsights/workspaces": "azurerm_log_analytics_workspace",
	"microsoft.insights/components":            "azurerm_application_insights",
	"microsoft.insights/metricalerts":          "azurerm_monitor_metric_alert",
	"microsoft.keyvault/vaults":                "azurerm_key_vault",
}

// NativeType maps a Resource Manager type to its Terraform name. Unmapped
// types keep a derived azurerm_ name and normalize as Unknown.
func NativeType(armType, kind string) string {
	key := strings.ToLower(armType)
	if key == "microsoft.web/sites" {
		if strings.Contains(strings.ToLower(kind), "functionapp") {
			return "azurerm_function_app"
		}
		return "azurerm_app_service"
	}
	if t, ok := armTypes[key]; ok {
		return t
	}

	last := armType
	if i := strings.LastIndex(armType, "/"); i >= 0 {
		last = armType[i+1:]
	}
	if last == "" {
		return "azurerm_resource"
	}
	return "azurerm_" + snake(last)
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

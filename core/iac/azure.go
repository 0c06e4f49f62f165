package iac

import (
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
)

var azureDialect = &dialect{
	Title:         "Azure",
	ProviderName:  "azurerm",
	Source:        "hashicorp/azurerm",
	Version:       "~> 3.0",
	DefaultRegion: "eastus",
	Variables: []variable{
		{Name: "resource_group_name", Description: "Resource group every resource is created in"},
		{Name: "subnet_id", Description: "Subnet for network interfaces"},
		{Name: "admin_username", Description: "Administrator user on every VM", Default: "azureuser"},
		{Name: "admin_ssh_public_key", Description: "SSH public key for Linux VMs"},
		{Name: "admin_password", Description: "Administrator password for Windows VMs", Sensitive: true},
		{Name: "sql_admin_password", Description: "Administrator password for SQL servers", Sensitive: true},
	},
	Sizes: []instanceSize{
		{"Standard_B2ms", 2, 8},
		{"Standard_E2s_v3", 2, 16},
		{"Standard_B4ms", 4, 16},
		{"Standard_E4s_v3", 4, 32},
		{"Standard_D8s_v3", 8, 32},
		{"Standard_E8s_v3", 8, 64},
		{"Standard_D16s_v3", 16, 64},
		{"Standard_E16s_v3", 16, 128},
		{"Standard_E32s_v3", 32, 256},
		{"Standard_E64s_v3", 64, 432},
	},
	CPUNames: map[string]string{
		"r5.2xlarge": "Standard_E8s_v3",
		"r5.alarge":  "Standard_E2s_v3",
		"r5.large":   "Standard_E2s_v3",
		"t3.medium":  "Standard_B2ms",
		"t3.large":   "Standard_B4ms",
		"t3large":    "Standard_B4ms",
	},
	Provider: func(b *hclwrite.Body) {
		nested(b, "features")
	},
	Compute:      azureCompute,
	Database:     azureDatabase,
	Volume:       azureVolume,
	Filesystem:   azureFilesystem,
	LoadBalancer: azureLoadBalancer,
}

func azurePlacement(b *hclwrite.Body, name string) {
	setString(b, "name", name)
	setRef(b, "location", "var.region")
	setRef(b, "resource_group_name", "var.resource_group_name")
}

func azureCompute(body *hclwrite.Body, w workloadRef) {
	nic := resource(body, "azurerm_network_interface", w.Name+"_nic")
	azurePlacement(nic, cloudName(w.Name, 76)+"-nic")
	ip := nested(nic, "ip_configuration")
	setString(ip, "name", "internal")
	setRef(ip, "subnet_id", "var.subnet_id")
	setString(ip, "private_ip_address_allocation", "Dynamic")

	kind := "azurerm_linux_virtual_machine"
	if w.IsWindows() {
		kind = "azurerm_windows_virtual_machine"
	}
	vm := resource(body, kind, w.Name)
	// Windows computer names are capped at 15 characters
	azurePlacement(vm, cloudName(w.Name, 15))
	setString(vm, "size", w.Size)
	setRef(vm, "admin_username", "var.admin_username")
	if w.IsWindows() {
		setRef(vm, "admin_password", "var.admin_password")
	}
	setRefList(vm, "network_interface_ids", "azurerm_network_interface."+w.Name+"_nic.id")
	if !w.IsWindows() {
		key := nested(vm, "admin_ssh_key")
		setRef(key, "username", "var.admin_username")
		setRef(key, "public_key", "var.admin_ssh_public_key")
	}

	disk := nested(vm, "os_disk")
	setString(disk, "caching", "ReadWrite")
	setString(disk, "storage_account_type", "Premium_LRS")
	setInt(disk, "disk_size_gb", gb(w.BootSpaceGB, 30, 30))

	img := nested(vm, "source_image_reference")
	if w.IsWindows() {
		setString(img, "publisher", "MicrosoftWindowsServer")
		setString(img, "offer", "WindowsServer")
		setString(img, "sku", "2022-datacenter")
	} else {
		setString(img, "publisher", "Canonical")
		setString(img, "offer", "0001-com-ubuntu-server-jammy")
		setString(img, "sku", "22_04-lts")
	}
	setString(img, "version", "latest")
	setTags(vm, "tags", "environment", workloadTags(w), "Name", "Workload", "Software")
}

func azureVMRef(w workloadRef) string {
	if w.IsWindows() {
		return "azurerm_windows_virtual_machine." + w.Name + ".id"
	}
	return "azurerm_linux_virtual_machine." + w.Name + ".id"
}

func azureDatabase(body *hclwrite.Body, w workloadRef) {
	srv := resource(body, "azurerm_mssql_server", w.Name+"_sql")
	azurePlacement(srv, cloudName(w.Name, 59)+"-sql")
	setString(srv, "version", "12.0")
	setString(srv, "administrator_login", "sqladmin")
	setRef(srv, "administrator_login_password", "var.sql_admin_password")
	setString(srv, "minimum_tls_version", "1.2")

	db := resource(body, "azurerm_mssql_database", w.Name+"_db")
	setString(db, "name", cloudName(w.Name, 128))
	setRef(db, "server_id", "azurerm_mssql_server."+w.Name+"_sql.id")
	sku := "S1"
	if w.HARequired {
		sku = "P1"
	}
	setString(db, "sku_name", sku)
	setInt(db, "max_size_gb", gb(w.DataSpaceGB, 100, 100))
	setBool(db, "zone_redundant", w.HARequired)
	setTags(db, "tags", "environment", workloadTags(w), "Name", "Workload", "Software")
}

func azureVolume(body *hclwrite.Body, w workloadRef) {
	disk := resource(body, "azurerm_managed_disk", w.Name+"_data")
	azurePlacement(disk, cloudName(w.Name, 75)+"-data")
	setString(disk, "storage_account_type", "Premium_LRS")
	setString(disk, "create_option", "Empty")
	setInt(disk, "disk_size_gb", gb(w.DataSpaceGB, 1, 1))

	att := resource(body, "azurerm_virtual_machine_data_disk_attachment", w.Name+"_data")
	setRef(att, "managed_disk_id", "azurerm_managed_disk."+w.Name+"_data.id")
	setRef(att, "virtual_machine_id", azureVMRef(w))
	setInt(att, "lun", 0)
	setString(att, "caching", "ReadWrite")
}

func azureFilesystem(body *hclwrite.Body, w workloadRef) {
	// storage account names are 3-24 lowercase letters and digits
	account := strings.ReplaceAll(cloudName(w.Name, 20), "-", "") + "files"
	if len(account) > 24 {
		account = account[:24]
	}
	sa := resource(body, "azurerm_storage_account", w.Name+"_files")
	azurePlacement(sa, account)
	setString(sa, "account_tier", "Premium")
	setString(sa, "account_kind", "FileStorage")
	setString(sa, "account_replication_type", "LRS")

	share := resource(body, "azurerm_storage_share", w.Name+"_files")
	setString(share, "name", cloudName(w.Name, 63))
	setRef(share, "storage_account_name", "azurerm_storage_account."+w.Name+"_files.name")
	setInt(share, "quota", gb(w.FileStorageGB, 100, 100))
}

func azureLoadBalancer(body *hclwrite.Body, w workloadRef) {
	pip := resource(body, "azurerm_public_ip", w.Name+"_lb_ip")
	azurePlacement(pip, cloudName(w.Name, 74)+"-lb-ip")
	setString(pip, "allocation_method", "Static")
	setString(pip, "sku", "Standard")

	lb := resource(body, "azurerm_lb", w.Name+"_lb")
	azurePlacement(lb, cloudName(w.Name, 77)+"-lb")
	setString(lb, "sku", "Standard")
	fe := nested(lb, "frontend_ip_configuration")
	setString(fe, "name", "public")
	setRef(fe, "public_ip_address_id", "azurerm_public_ip."+w.Name+"_lb_ip.id")

	pool := resource(body, "azurerm_lb_backend_address_pool", w.Name+"_pool")
	setString(pool, "name", "backend")
	setRef(pool, "loadbalancer_id", "azurerm_lb."+w.Name+"_lb.id")

	probe := resource(body, "azurerm_lb_probe", w.Name+"_probe")
	setString(probe, "name", "http")
	setRef(probe, "loadbalancer_id", "azurerm_lb."+w.Name+"_lb.id")
	setString(probe, "protocol", "Http")
	setString(probe, "request_path", "/")
	setInt(probe, "port", 80)

	rule := resource(body, "azurerm_lb_rule", w.Name+"_http")
	setString(rule, "name", "http")
	setRef(rule, "loadbalancer_id", "azurerm_lb."+w.Name+"_lb.id")
	setString(rule, "protocol", "Tcp")
	setInt(rule, "frontend_port", 80)
	setInt(rule, "backend_port", 80)
	setString(rule, "frontend_ip_configuration_name", "public")
	setRefList(rule, "backend_address_pool_ids", "azurerm_lb_backend_address_pool."+w.Name+"_pool.id")
	setRef(rule, "probe_id", "azurerm_lb_probe."+w.Name+"_probe.id")

	assoc := resource(body, "azurerm_network_interface_backend_address_pool_association", w.Name+"_pool")
	setRef(assoc, "network_interface_id", "azurerm_network_interface."+w.Name+"_nic.id")
	setString(assoc, "ip_configuration_name", "internal")
	setRef(assoc, "backend_address_pool_id", "azurerm_lb_backend_address_pool."+w.Name+"_pool.id")
}

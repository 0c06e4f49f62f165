package iac

import (
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

var gcpDialect = &dialect{
	Title:         "Google Cloud",
	ProviderName:  "google",
	Source:        "hashicorp/google",
	Version:       "~> 5.0",
	DefaultRegion: "us-central1",
	Variables: []variable{
		{Name: "project_id", Description: "Project every resource is created in"},
		{Name: "zone", Description: "Zone for instances, disks and filestores", Default: "us-central1-a"},
		{Name: "network", Description: "VPC network self link"},
		{Name: "subnetwork", Description: "Subnetwork for instance interfaces"},
		{Name: "image", Description: "Boot image for every instance", Default: "debian-cloud/debian-12"},
	},
	Sizes: []instanceSize{
		{"n2-standard-2", 2, 8},
		{"n2-highmem-2", 2, 16},
		{"n2-standard-4", 4, 16},
		{"n2-highmem-4", 4, 32},
		{"n2-standard-8", 8, 32},
		{"n2-highmem-8", 8, 64},
		{"n2-standard-16", 16, 64},
		{"n2-highmem-16", 16, 128},
		{"n2-highmem-32", 32, 256},
		{"n2-highmem-64", 64, 512},
	},
	CPUNames: map[string]string{
		"r5.2xlarge": "n2-highmem-8",
		"r5.alarge":  "n2-highmem-2",
		"r5.large":   "n2-highmem-2",
		"t3.medium":  "n2-standard-2",
		"t3.large":   "n2-standard-4",
		"t3large":    "n2-standard-4",
	},
	Provider: func(b *hclwrite.Body) {
		setRef(b, "project", "var.project_id")
		setRef(b, "region", "var.region")
	},
	Compute:      gcpCompute,
	Database:     gcpDatabase,
	Volume:       gcpVolume,
	Filesystem:   gcpFilesystem,
	LoadBalancer: gcpLoadBalancer,
}

// gcpLabel lowercases a label value and keeps only characters labels accept
func gcpLabel(s string) string {
	return cloudName(nonIdentifier.ReplaceAllString(strings.ToLower(s), "_"), 63)
}

func gcpCompute(body *hclwrite.Body, w workloadRef) {
	vm := resource(body, "google_compute_instance", w.Name)
	setString(vm, "name", cloudName(w.Name, 63))
	setString(vm, "machine_type", w.Size)
	setRef(vm, "zone", "var.zone")

	boot := nested(vm, "boot_disk")
	params := nested(boot, "initialize_params")
	setRef(params, "image", "var.image")
	setInt(params, "size", gb(w.BootSpaceGB, 20, 10))
	setString(params, "type", "pd-ssd")

	nic := nested(vm, "network_interface")
	setRef(nic, "subnetwork", "var.subnetwork")

	setTags(vm, "labels", "environment", map[string]string{"workload": gcpLabel(w.WorkloadType)}, "workload")
}

func gcpDatabase(body *hclwrite.Body, w workloadRef) {
	inst := resource(body, "google_sql_database_instance", w.Name+"_db")
	setString(inst, "name", cloudName(w.Name, 95)+"-db")
	setString(inst, "database_version", "MYSQL_8_0")
	setRef(inst, "region", "var.region")
	setBool(inst, "deletion_protection", true)

	settings := nested(inst, "settings")
	setString(settings, "tier", "db-n1-standard-2")
	setInt(settings, "disk_size", gb(w.DataSpaceGB, 100, 100))
	setString(settings, "disk_type", "PD_SSD")
	availability := "ZONAL"
	if w.HARequired {
		availability = "REGIONAL"
	}
	setString(settings, "availability_type", availability)
	backup := nested(settings, "backup_configuration")
	setBool(backup, "enabled", true)
	setBool(backup, "binary_log_enabled", true)
	ipc := nested(settings, "ip_configuration")
	setBool(ipc, "ipv4_enabled", false)
	setRef(ipc, "private_network", "var.network")

	db := resource(body, "google_sql_database", w.Name+"_db")
	setString(db, "name", w.Name)
	setRef(db, "instance", "google_sql_database_instance."+w.Name+"_db.name")
}

func gcpVolume(body *hclwrite.Body, w workloadRef) {
	disk := resource(body, "google_compute_disk", w.Name+"_data")
	setString(disk, "name", cloudName(w.Name, 58)+"-data")
	setString(disk, "type", "pd-ssd")
	setRef(disk, "zone", "var.zone")
	setInt(disk, "size", gb(w.DataSpaceGB, 1, 1))

	att := resource(body, "google_compute_attached_disk", w.Name+"_data")
	setRef(att, "disk", "google_compute_disk."+w.Name+"_data.id")
	setRef(att, "instance", "google_compute_instance."+w.Name+".id")
}

func gcpFilesystem(body *hclwrite.Body, w workloadRef) {
	fs := resource(body, "google_filestore_instance", w.Name+"_files")
	setString(fs, "name", cloudName(w.Name, 57)+"-files")
	setRef(fs, "location", "var.zone")
	setString(fs, "tier", "BASIC_HDD")

	share := nested(fs, "file_shares")
	// BASIC_HDD shares start at 1 TiB
	setInt(share, "capacity_gb", gb(w.FileStorageGB, 1024, 1024))
	setString(share, "name", "share1")

	net := nested(fs, "networks")
	setRef(net, "network", "var.network")
	net.SetAttributeValue("modes", cty.ListVal([]cty.Value{cty.StringVal("MODE_IPV4")}))
}

func gcpLoadBalancer(body *hclwrite.Body, w workloadRef) {
	group := resource(body, "google_compute_instance_group", w.Name+"_group")
	setString(group, "name", cloudName(w.Name, 57)+"-group")
	setRef(group, "zone", "var.zone")
	setRefList(group, "instances", "google_compute_instance."+w.Name+".self_link")
	port := nested(group, "named_port")
	setString(port, "name", "http")
	setInt(port, "port", 80)

	hc := resource(body, "google_compute_health_check", w.Name+"_hc")
	setString(hc, "name", cloudName(w.Name, 60)+"-hc")
	check := nested(hc, "http_health_check")
	setInt(check, "port", 80)
	setString(check, "request_path", "/")

	be := resource(body, "google_compute_backend_service", w.Name+"_backend")
	setString(be, "name", cloudName(w.Name, 55)+"-backend")
	setString(be, "protocol", "HTTP")
	setString(be, "port_name", "http")
	setRefList(be, "health_checks", "google_compute_health_check."+w.Name+"_hc.id")
	backend := nested(be, "backend")
	setRef(backend, "group", "google_compute_instance_group."+w.Name+"_group.self_link")

	urlMap := resource(body, "google_compute_url_map", w.Name+"_lb")
	setString(urlMap, "name", cloudName(w.Name, 60)+"-lb")
	setRef(urlMap, "default_service", "google_compute_backend_service."+w.Name+"_backend.id")

	proxy := resource(body, "google_compute_target_http_proxy", w.Name+"_proxy")
	setString(proxy, "name", cloudName(w.Name, 57)+"-proxy")
	setRef(proxy, "url_map", "google_compute_url_map."+w.Name+"_lb.id")

	addr := resource(body, "google_compute_global_address", w.Name+"_ip")
	setString(addr, "name", cloudName(w.Name, 60)+"-ip")

	rule := resource(body, "google_compute_global_forwarding_rule", w.Name+"_http")
	setString(rule, "name", cloudName(w.Name, 58)+"-http")
	setRef(rule, "target", "google_compute_target_http_proxy."+w.Name+"_proxy.id")
	setRef(rule, "ip_address", "google_compute_global_address."+w.Name+"_ip.address")
	setString(rule, "port_range", "80")
}

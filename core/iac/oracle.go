package iac

import (
	"math"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
)

var oracleDialect = &dialect{
	Title:         "Oracle Cloud",
	ProviderName:  "oci",
	Source:        "oracle/oci",
	Version:       "~> 5.0",
	DefaultRegion: "us-phoenix-1",
	Variables: []variable{
		{Name: "tenancy_ocid", Description: "Tenancy OCID"},
		{Name: "user_ocid", Description: "API user OCID"},
		{Name: "fingerprint", Description: "API key fingerprint"},
		{Name: "private_key_path", Description: "Path to the API private key"},
		{Name: "compartment_id", Description: "Compartment every resource is created in"},
		{Name: "availability_domain", Description: "Availability domain for instances and volumes"},
		{Name: "subnet_id", Description: "Private subnet for instances, databases and mount targets"},
		{Name: "public_subnet_id", Description: "Public subnet for load balancers"},
		{Name: "image_id", Description: "Image OCID for every instance"},
		{Name: "ssh_public_key", Description: "SSH public key for instances and DB systems"},
		{Name: "db_admin_password", Description: "Administrator password for DB systems", Sensitive: true},
	},
	// vCPU counts: one OCPU is two vCPUs
	Sizes: []instanceSize{
		{"VM.Standard.E2.1", 2, 8},
		{"VM.Standard.E2.2", 4, 16},
		{"VM.Standard.E2.4", 8, 32},
		{"VM.Standard.E2.8", 16, 64},
		{"VM.Standard.E4.Flex", 128, 1024},
	},
	CPUNames: map[string]string{
		"r5.2xlarge": "VM.Standard.E4.Flex",
		"r5.alarge":  "VM.Standard.E4.Flex",
		"r5.large":   "VM.Standard.E4.Flex",
		"t3.medium":  "VM.Standard.E2.2",
		"t3.large":   "VM.Standard.E2.4",
		"t3large":    "VM.Standard.E2.4",
	},
	Provider: func(b *hclwrite.Body) {
		setRef(b, "tenancy_ocid", "var.tenancy_ocid")
		setRef(b, "user_ocid", "var.user_ocid")
		setRef(b, "fingerprint", "var.fingerprint")
		setRef(b, "private_key_path", "var.private_key_path")
		setRef(b, "region", "var.region")
	},
	Compute:      oracleCompute,
	Database:     oracleDatabase,
	Volume:       oracleVolume,
	Filesystem:   oracleFilesystem,
	LoadBalancer: oracleLoadBalancer,
}

func oraclePlacement(b *hclwrite.Body, displayName string) {
	setRef(b, "compartment_id", "var.compartment_id")
	setString(b, "display_name", displayName)
}

func oracleCompute(body *hclwrite.Body, w workloadRef) {
	vm := resource(body, "oci_core_instance", w.Name)
	setRef(vm, "availability_domain", "var.availability_domain")
	oraclePlacement(vm, cloudName(w.Name, 255))
	setString(vm, "shape", w.Size)
	if strings.HasSuffix(w.Size, ".Flex") {
		cfg := nested(vm, "shape_config")
		ocpus := int64(math.Ceil(w.PhysicalCores))
		if ocpus <= 0 {
			ocpus = 2
		}
		setInt(cfg, "ocpus", ocpus)
		setInt(cfg, "memory_in_gbs", gb(w.RAMGB, 8, 1))
	}

	vnic := nested(vm, "create_vnic_details")
	setRef(vnic, "subnet_id", "var.subnet_id")
	setBool(vnic, "assign_public_ip", false)

	src := nested(vm, "source_details")
	setString(src, "source_type", "image")
	setRef(src, "source_id", "var.image_id")
	setInt(src, "boot_volume_size_in_gbs", gb(w.BootSpaceGB, 50, 50))

	meta := nested(vm, "metadata")
	setRef(meta, "ssh_authorized_keys", "var.ssh_public_key")
	setTags(vm, "freeform_tags", "Environment", workloadTags(w), "Name", "Workload", "Software")
}

func oracleDatabase(body *hclwrite.Body, w workloadRef) {
	db := resource(body, "oci_database_db_system", w.Name+"_db")
	setRef(db, "availability_domain", "var.availability_domain")
	oraclePlacement(db, cloudName(w.Name, 252)+"-db")
	setString(db, "shape", "VM.Standard2.2")
	setRef(db, "subnet_id", "var.subnet_id")
	setRefList(db, "ssh_public_keys", "var.ssh_public_key")
	setString(db, "hostname", strings.ReplaceAll(cloudName(w.Name, 16), "-", ""))
	setString(db, "database_edition", "ENTERPRISE_EDITION")
	setString(db, "license_model", "BRING_YOUR_OWN_LICENSE")
	setInt(db, "data_storage_size_in_gb", gb(w.DataSpaceGB, 256, 256))
	nodes := int64(1)
	if w.HARequired {
		nodes = 2
	}
	setInt(db, "node_count", nodes)

	home := nested(db, "db_home")
	setString(home, "db_version", "19.0.0.0")
	database := nested(home, "database")
	setRef(database, "admin_password", "var.db_admin_password")
	// database names are at most 8 alphanumeric characters
	name := strings.ReplaceAll(cloudName(w.Name, 8), "-", "")
	setString(database, "db_name", name)
	setString(database, "pdb_name", name+"pdb")
}

func oracleVolume(body *hclwrite.Body, w workloadRef) {
	vol := resource(body, "oci_core_volume", w.Name+"_data")
	setRef(vol, "availability_domain", "var.availability_domain")
	oraclePlacement(vol, cloudName(w.Name, 250)+"-data")
	setInt(vol, "size_in_gbs", gb(w.DataSpaceGB, 50, 50))

	att := resource(body, "oci_core_volume_attachment", w.Name+"_data")
	setString(att, "attachment_type", "iscsi")
	setRef(att, "instance_id", "oci_core_instance."+w.Name+".id")
	setRef(att, "volume_id", "oci_core_volume."+w.Name+"_data.id")
}

func oracleFilesystem(body *hclwrite.Body, w workloadRef) {
	fs := resource(body, "oci_file_storage_file_system", w.Name+"_fs")
	setRef(fs, "availability_domain", "var.availability_domain")
	oraclePlacement(fs, cloudName(w.Name, 252)+"-fs")

	mt := resource(body, "oci_file_storage_mount_target", w.Name+"_fs")
	setRef(mt, "availability_domain", "var.availability_domain")
	oraclePlacement(mt, cloudName(w.Name, 252)+"-mt")
	setRef(mt, "subnet_id", "var.subnet_id")

	exp := resource(body, "oci_file_storage_export", w.Name+"_fs")
	setRef(exp, "export_set_id", "oci_file_storage_mount_target."+w.Name+"_fs.export_set_id")
	setRef(exp, "file_system_id", "oci_file_storage_file_system."+w.Name+"_fs.id")
	setString(exp, "path", "/"+cloudName(w.Name, 255))
}

func oracleLoadBalancer(body *hclwrite.Body, w workloadRef) {
	lb := resource(body, "oci_load_balancer_load_balancer", w.Name+"_lb")
	oraclePlacement(lb, cloudName(w.Name, 252)+"-lb")
	setString(lb, "shape", "flexible")
	setRefList(lb, "subnet_ids", "var.public_subnet_id")
	setBool(lb, "is_private", false)
	shape := nested(lb, "shape_details")
	setInt(shape, "minimum_bandwidth_in_mbps", 10)
	setInt(shape, "maximum_bandwidth_in_mbps", 100)

	set := resource(body, "oci_load_balancer_backend_set", w.Name+"_backend")
	setString(set, "name", "backend")
	setRef(set, "load_balancer_id", "oci_load_balancer_load_balancer."+w.Name+"_lb.id")
	setString(set, "policy", "ROUND_ROBIN")
	hc := nested(set, "health_checker")
	setString(hc, "protocol", "HTTP")
	setInt(hc, "port", 80)
	setString(hc, "url_path", "/")

	be := resource(body, "oci_load_balancer_backend", w.Name+"_backend")
	setRef(be, "load_balancer_id", "oci_load_balancer_load_balancer."+w.Name+"_lb.id")
	setRef(be, "backendset_name", "oci_load_balancer_backend_set."+w.Name+"_backend.name")
	setRef(be, "ip_address", "oci_core_instance."+w.Name+".private_ip")
	setInt(be, "port", 80)

	ln := resource(body, "oci_load_balancer_listener", w.Name+"_http")
	setString(ln, "name", "http")
	setRef(ln, "load_balancer_id", "oci_load_balancer_load_balancer."+w.Name+"_lb.id")
	setRef(ln, "default_backend_set_name", "oci_load_balancer_backend_set."+w.Name+"_backend.name")
	setInt(ln, "port", 80)
	setString(ln, "protocol", "HTTP")
}

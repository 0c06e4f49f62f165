package iac

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
)

var awsDialect = &dialect{
	Title:         "AWS",
	ProviderName:  "aws",
	Source:        "hashicorp/aws",
	Version:       "~> 5.0",
	DefaultRegion: "us-east-1",
	Variables: []variable{
		{Name: "ami_id", Description: "AMI used by every instance"},
		{Name: "vpc_id", Description: "VPC the target groups live in"},
		{Name: "subnet_id", Description: "Private subnet for instances and mount targets"},
		{Name: "public_subnet_ids", Description: "Public subnets for load balancers", List: true},
		{Name: "security_group_id", Description: "Security group attached to every resource"},
		{Name: "db_subnet_group_name", Description: "DB subnet group for managed databases"},
	},
	Sizes: []instanceSize{
		{"t3.medium", 2, 4},
		{"t3.large", 2, 8},
		{"r5.large", 2, 16},
		{"t3.xlarge", 4, 16},
		{"r5.xlarge", 4, 32},
		{"m5.2xlarge", 8, 32},
		{"r5.2xlarge", 8, 64},
		{"m5.4xlarge", 16, 64},
		{"r5.4xlarge", 16, 128},
		{"m5.8xlarge", 32, 128},
		{"r5.8xlarge", 32, 256},
		{"r5.16xlarge", 64, 512},
	},
	CPUNames: map[string]string{
		"r5.2xlarge": "r5.2xlarge",
		"r5.alarge":  "r5.large",
		"r5.large":   "r5.large",
		"t3.medium":  "t3.medium",
		"t3.large":   "t3.large",
		"t3large":    "t3.large",
	},
	Provider: func(b *hclwrite.Body) {
		setRef(b, "region", "var.region")
		tags := nested(nested(b, "default_tags"), "tags")
		tags.SetAttributeTraversal("Environment", ref("var.environment"))
		setString(tags, "ManagedBy", "terraform")
	},
	Compute:      awsCompute,
	Database:     awsDatabase,
	Volume:       awsVolume,
	Filesystem:   awsFilesystem,
	LoadBalancer: awsLoadBalancer,
}

// awsDBClasses maps an instance size to the matching RDS class
var awsDBClasses = map[string]string{
	"t3.medium":  "db.t3.medium",
	"t3.large":   "db.t3.large",
	"r5.large":   "db.r5.large",
	"r5.2xlarge": "db.r5.2xlarge",
}

func awsCompute(body *hclwrite.Body, w workloadRef) {
	b := resource(body, "aws_instance", w.Name)
	setRef(b, "ami", "var.ami_id")
	setString(b, "instance_type", w.Size)
	setRef(b, "subnet_id", "var.subnet_id")
	setRefList(b, "vpc_security_group_ids", "var.security_group_id")
	root := nested(b, "root_block_device")
	setString(root, "volume_type", "gp3")
	setInt(root, "volume_size", gb(w.BootSpaceGB, 20, 8))
	setBool(root, "encrypted", true)
	setTags(b, "tags", "Environment", workloadTags(w), "Name", "Workload", "Software")
}

func awsDatabase(body *hclwrite.Body, w workloadRef) {
	class, ok := awsDBClasses[w.Size]
	if !ok {
		class = "db." + w.Size
	}
	storage := gb(w.DataSpaceGB, 100, 100)

	b := resource(body, "aws_db_instance", w.Name+"_db")
	setString(b, "identifier", cloudName(w.Name, 63))
	setString(b, "engine", "oracle-ee")
	setString(b, "instance_class", class)
	setInt(b, "allocated_storage", storage)
	setInt(b, "max_allocated_storage", storage*2)
	setString(b, "storage_type", "gp3")
	setBool(b, "storage_encrypted", true)
	setString(b, "username", "dbadmin")
	setBool(b, "manage_master_user_password", true)
	setBool(b, "multi_az", w.HARequired)
	setRef(b, "db_subnet_group_name", "var.db_subnet_group_name")
	setRefList(b, "vpc_security_group_ids", "var.security_group_id")
	setInt(b, "backup_retention_period", 7)
	setBool(b, "skip_final_snapshot", true)
	setTags(b, "tags", "Environment", workloadTags(w), "Name", "Workload", "Software")
}

func awsVolume(body *hclwrite.Body, w workloadRef) {
	vol := resource(body, "aws_ebs_volume", w.Name+"_data")
	setRef(vol, "availability_zone", "aws_instance."+w.Name+".availability_zone")
	setInt(vol, "size", gb(w.DataSpaceGB, 1, 1))
	setString(vol, "type", "gp3")
	setBool(vol, "encrypted", true)
	setTags(vol, "tags", "Environment", map[string]string{"Name": w.ApplicationName + " data"}, "Name")

	att := resource(body, "aws_volume_attachment", w.Name+"_data")
	setString(att, "device_name", "/dev/sdf")
	setRef(att, "volume_id", "aws_ebs_volume."+w.Name+"_data.id")
	setRef(att, "instance_id", "aws_instance."+w.Name+".id")
}

func awsFilesystem(body *hclwrite.Body, w workloadRef) {
	fs := resource(body, "aws_efs_file_system", w.Name+"_efs")
	setString(fs, "creation_token", cloudName(w.Name, 64)+"-efs")
	setString(fs, "performance_mode", "generalPurpose")
	setBool(fs, "encrypted", true)
	setTags(fs, "tags", "Environment", map[string]string{"Name": w.ApplicationName + " files"}, "Name")

	mt := resource(body, "aws_efs_mount_target", w.Name+"_efs")
	setRef(mt, "file_system_id", "aws_efs_file_system."+w.Name+"_efs.id")
	setRef(mt, "subnet_id", "var.subnet_id")
	setRefList(mt, "security_groups", "var.security_group_id")
}

func awsLoadBalancer(body *hclwrite.Body, w workloadRef) {
	lb := resource(body, "aws_lb", w.Name+"_alb")
	setString(lb, "name", cloudName(w.Name, 28)+"-alb")
	setBool(lb, "internal", false)
	setString(lb, "load_balancer_type", "application")
	setRefList(lb, "security_groups", "var.security_group_id")
	setRef(lb, "subnets", "var.public_subnet_ids")

	tg := resource(body, "aws_lb_target_group", w.Name+"_tg")
	setString(tg, "name", cloudName(w.Name, 29)+"-tg")
	setInt(tg, "port", 80)
	setString(tg, "protocol", "HTTP")
	setRef(tg, "vpc_id", "var.vpc_id")
	hc := nested(tg, "health_check")
	setString(hc, "path", "/")
	setInt(hc, "healthy_threshold", 2)
	setInt(hc, "unhealthy_threshold", 3)

	ln := resource(body, "aws_lb_listener", w.Name+"_http")
	setRef(ln, "load_balancer_arn", "aws_lb."+w.Name+"_alb.arn")
	setInt(ln, "port", 80)
	setString(ln, "protocol", "HTTP")
	action := nested(ln, "default_action")
	setString(action, "type", "forward")
	setRef(action, "target_group_arn", "aws_lb_target_group."+w.Name+"_tg.arn")

	att := resource(body, "aws_lb_target_group_attachment", w.Name+"_tg")
	setRef(att, "target_group_arn", "aws_lb_target_group."+w.Name+"_tg.arn")
	setRef(att, "target_id", "aws_instance."+w.Name+".id")
	setInt(att, "port", 80)
}

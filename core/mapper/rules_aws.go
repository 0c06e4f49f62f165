package mapper

import "multicloud-cost/core/types"

// awsRules maps AWS Terraform resource types onto the unified schema
var awsRules = []Rule{
	// compute
	{NativeType: "aws_instance", Type: "Instance", Service: types.ServiceCompute},
	{NativeType: "aws_ec2_instance", Type: "Instance", Service: types.ServiceCompute},
	{NativeType: "aws_autoscaling_group", Type: "AutoScalingGroup", Service: types.ServiceCompute},
	{NativeType: "aws_launch_template", Type: "LaunchTemplate", Service: types.ServiceCompute},
	{NativeType: "aws_launch_configuration", Type: "LaunchConfiguration", Service: types.ServiceCompute},
	{NativeType: "aws_spot_instance_request", Type: "SpotInstance", Service: types.ServiceCompute},
	{NativeType: "aws_spot_fleet_request", Type: "SpotFleet", Service: types.ServiceCompute},
	{NativeType: "aws_lambda_function", Type: "Function", Service: types.ServiceCompute},
	{NativeType: "aws_ecs_cluster", Type: "ContainerCluster", Service: types.ServiceCompute},
	{NativeType: "aws_ecs_service", Type: "ContainerService", Service: types.ServiceCompute},
	{NativeType: "aws_ecs_task_definition", Type: "TaskDefinition", Service: types.ServiceCompute},
	{NativeType: "aws_eks_cluster", Type: "KubernetesCluster", Service: types.ServiceCompute},
	{NativeType: "aws_eks_node_group", Type: "KubernetesNodeGroup", Service: types.ServiceCompute},

	// storage
	{NativeType: "aws_s3_bucket", Type: "Bucket", Service: types.ServiceStorage},
	{NativeType: "aws_s3_bucket_object", Type: "Object", Service: types.ServiceStorage},
	{NativeType: "aws_s3_bucket_policy", Type: "BucketPolicy", Service: types.ServiceStorage},
	{NativeType: "aws_ebs_volume", Type: "Volume", Service: types.ServiceStorage},
	{NativeType: "aws_ebs_snapshot", Type: "Snapshot", Service: types.ServiceStorage},
	{NativeType: "aws_efs_file_system", Type: "FileSystem", Service: types.ServiceStorage},
	{NativeType: "aws_fsx_lustre_file_system", Type: "LustreFileSystem", Service: types.ServiceStorage},

	// database
	{NativeType: "aws_rds_instance", Type: "Database", Service: types.ServiceDatabase},
	{NativeType: "aws_rds_cluster", Type: "DatabaseCluster", Service: types.ServiceDatabase},
	{NativeType: "aws_rds_cluster_instance", Type: "DatabaseInstance", Service: types.ServiceDatabase},
	{NativeType: "aws_dynamodb_table", Type: "NoSQLTable", Service: types.ServiceDatabase},
	{NativeType: "aws_elasticache_cluster", Type: "CacheCluster", Service: types.ServiceDatabase},
	{NativeType: "aws_elasticache_replication_group", Type: "CacheReplicationGroup", Service: types.ServiceDatabase},
	{NativeType: "aws_redshift_cluster", Type: "DataWarehouse", Service: types.ServiceDatabase},
	{NativeType: "aws_db_instance", Type: "Database", Service: types.ServiceDatabase},

	// networking
	{NativeType: "aws_lb", Type: "LoadBalancer", Service: types.ServiceNetworking},
	{NativeType: "aws_alb", Type: "ApplicationLoadBalancer", Service: types.ServiceNetworking},
	{NativeType: "aws_nlb", Type: "NetworkLoadBalancer", Service: types.ServiceNetworking},
	{NativeType: "aws_elb", Type: "ClassicLoadBalancer", Service: types.ServiceNetworking},
	{NativeType: "aws_vpc", Type: "VPC", Service: types.ServiceNetworking},
	{NativeType: "aws_subnet", Type: "Subnet", Service: types.ServiceNetworking},
	{NativeType: "aws_internet_gateway", Type: "InternetGateway", Service: types.ServiceNetworking},
	{NativeType: "aws_nat_gateway", Type: "NATGateway", Service: types.ServiceNetworking},
	{NativeType: "aws_route_table", Type: "RouteTable", Service: types.ServiceNetworking},
	{NativeType: "aws_security_group", Type: "SecurityGroup", Service: types.ServiceNetworking},
	{NativeType: "aws_network_acl", Type: "NetworkACL", Service: types.ServiceNetworking},
	{NativeType: "aws_vpc_endpoint", Type: "VPCEndpoint", Service: types.ServiceNetworking},
	{NativeType: "aws_vpn_connection", Type: "VPNConnection", Service: types.ServiceNetworking},
	{NativeType: "aws_vpn_gateway", Type: "VPNGateway", Service: types.ServiceNetworking},
	{NativeType: "aws_direct_connect_connection", Type: "DirectConnect", Service: types.ServiceNetworking},
	{NativeType: "aws_cloudfront_distribution", Type: "CDN", Service: types.ServiceNetworking},
	{NativeType: "aws_route53_zone", Type: "DNSZone", Service: types.ServiceNetworking},
	{NativeType: "aws_route53_record", Type: "DNSRecord", Service: types.ServiceNetworking},

	// monitoring
	{NativeType: "aws_cloudwatch_log_group", Type: "LogGroup", Service: types.ServiceMonitoring},
	{NativeType: "aws_cloudwatch_metric_alarm", Type: "Alarm", Service: types.ServiceMonitoring},
	{NativeType: "aws_cloudwatch_dashboard", Type: "Dashboard", Service: types.ServiceMonitoring},

	// security
	{NativeType: "aws_kms_key", Type: "Key", Service: types.ServiceSecurity},
	{NativeType: "aws_wafv2_web_acl", Type: "WebACL", Service: types.ServiceSecurity},

	// analytics
	{NativeType: "aws_kinesis_stream", Type: "Stream", Service: types.ServiceAnalytics},
}

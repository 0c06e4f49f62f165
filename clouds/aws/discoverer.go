// Package aws discovers EC2 instances, EBS volumes, RDS instances and S3
// buckets and reports them as aws_* native records.
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"multicloud-cost/clouds"
	"multicloud-cost/core/mapper"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
	"multicloud-cost/internal/logging"
)

// DefaultRegion is used when neither credentials nor the environment name one
const DefaultRegion = "us-east-1"

// EC2API is the subset of the EC2 client used for discovery
type EC2API interface {
	DescribeInstances(ctx context.Context, in *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeVolumes(ctx context.Context, in *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
}

// RDSAPI is the subset of the RDS client used for discovery
type RDSAPI interface {
	DescribeDBInstances(ctx context.Context, in *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
}

// S3API is the subset of the S3 client used for discovery
type S3API interface {
	ListBuckets(ctx context.Context, in *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// Discoverer lists AWS resources in one region
type Discoverer struct {
	region string
	ec2    EC2API
	rds    RDSAPI
	s3     S3API
	logger *zap.Logger
}

// New loads an AWS config from credentials and builds the service clients
func New(ctx context.Context, creds clouds.Credentials, logger *zap.Logger) (clouds.Discoverer, error) {
	c := creds.AWS
	var opts []func(*config.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, config.WithRegion(c.Region))
	}
	if c.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.Profile))
	}
	if c.AccessKeyID != "" && c.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, c.SessionToken)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Config("load AWS config", err)
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	return NewWithClients(cfg.Region, ec2.NewFromConfig(cfg), rds.NewFromConfig(cfg), s3.NewFromConfig(cfg), logger), nil
}

// NewWithClients builds a discoverer over existing clients
func NewWithClients(region string, ec2c EC2API, rdsc RDSAPI, s3c S3API, logger *zap.Logger) *Discoverer {
	return &Discoverer{
		region: region,
		ec2:    ec2c,
		rds:    rdsc,
		s3:     s3c,
		logger: logging.OrGlobal(logger, "discovery.aws"),
	}
}

// Register adds the AWS discoverer to a registry
func Register(reg *clouds.Registry) error {
	return reg.Register(types.ProviderAWS, New)
}

// Provider returns the cloud provider identifier
func (d *Discoverer) Provider() types.Provider {
	return types.ProviderAWS
}

// Discover lists instances, volumes, databases and buckets
func (d *Discoverer) Discover(ctx context.Context) ([]mapper.NativeRecord, error) {
	var records []mapper.NativeRecord

	instances, err := d.instances(ctx)
	if err != nil {
		return nil, errors.Network("describe EC2 instances", err).WithContext("region", d.region)
	}
	records = append(records, instances...)

	volumes, err := d.volumes(ctx)
	if err != nil {
		return nil, errors.Network("describe EBS volumes", err).WithContext("region", d.region)
	}
	records = append(records, volumes...)

	databases, err := d.databases(ctx)
	if err != nil {
		return nil, errors.Network("describe RDS instances", err).WithContext("region", d.region)
	}
	records = append(records, databases...)

	buckets, err := d.buckets(ctx)
	if err != nil {
		return nil, errors.Network("list S3 buckets", err)
	}
	records = append(records, buckets...)

	d.logger.Debug("aws discovery",
		zap.String("region", d.region),
		zap.Int("instances", len(instances)),
		zap.Int("volumes", len(volumes)),
		zap.Int("databases", len(databases)),
		zap.Int("buckets", len(buckets)))
	return records, nil
}

func (d *Discoverer) instances(ctx context.Context) ([]mapper.NativeRecord, error) {
	var records []mapper.NativeRecord
	paginator := ec2.NewDescribeInstancesPaginator(d.ec2, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				records = append(records, d.instanceRecord(inst))
			}
		}
	}
	return records, nil
}

func (d *Discoverer) instanceRecord(inst ec2types.Instance) mapper.NativeRecord {
	attrs := mapper.Attributes{
		"id":            aws.ToString(inst.InstanceId),
		"instance_type": string(inst.InstanceType),
		"region":        d.region,
		"tags":          ec2Tags(inst.Tags),
	}
	if inst.Placement != nil {
		attrs["availability_zone"] = aws.ToString(inst.Placement.AvailabilityZone)
	}
	if inst.State != nil {
		attrs["instance_state"] = string(inst.State.Name)
	}
	if p := aws.ToString(inst.PlatformDetails); p != "" {
		attrs["platform"] = p
	}
	if inst.CpuOptions != nil && inst.CpuOptions.CoreCount != nil {
		attrs["cpu_core_count"] = aws.ToInt32(inst.CpuOptions.CoreCount)
	}
	return mapper.NativeRecord{Provider: types.ProviderAWS, NativeType: "aws_instance", Attributes: attrs}
}

func (d *Discoverer) volumes(ctx context.Context) ([]mapper.NativeRecord, error) {
	var records []mapper.NativeRecord
	paginator := ec2.NewDescribeVolumesPaginator(d.ec2, &ec2.DescribeVolumesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, v := range page.Volumes {
			records = append(records, mapper.NativeRecord{
				Provider:   types.ProviderAWS,
				NativeType: "aws_ebs_volume",
				Attributes: mapper.Attributes{
					"id":                aws.ToString(v.VolumeId),
					"size":              aws.ToInt32(v.Size),
					"iops":              aws.ToInt32(v.Iops),
					"type":              string(v.VolumeType),
					"state":             string(v.State),
					"availability_zone": aws.ToString(v.AvailabilityZone),
					"region":            d.region,
					"tags":              ec2Tags(v.Tags),
				},
			})
		}
	}
	return records, nil
}

func (d *Discoverer) databases(ctx context.Context) ([]mapper.NativeRecord, error) {
	var records []mapper.NativeRecord
	paginator := rds.NewDescribeDBInstancesPaginator(d.rds, &rds.DescribeDBInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, db := range page.DBInstances {
			records = append(records, mapper.NativeRecord{
				Provider:   types.ProviderAWS,
				NativeType: "aws_db_instance",
				Attributes: mapper.Attributes{
					"id":                aws.ToString(db.DBInstanceIdentifier),
					"identifier":        aws.ToString(db.DBInstanceIdentifier),
					"engine":            aws.ToString(db.Engine),
					"instance_class":    aws.ToString(db.DBInstanceClass),
					"allocated_storage": aws.ToInt32(db.AllocatedStorage),
					"multi_az":          aws.ToBool(db.MultiAZ),
					"status":            aws.ToString(db.DBInstanceStatus),
					"availability_zone": aws.ToString(db.AvailabilityZone),
					"region":            d.region,
					"tags":              rdsTags(db.TagList),
				},
			})
		}
	}
	return records, nil
}

func (d *Discoverer) buckets(ctx context.Context) ([]mapper.NativeRecord, error) {
	out, err := d.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}
	records := make([]mapper.NativeRecord, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		name := aws.ToString(b.Name)
		records = append(records, mapper.NativeRecord{
			Provider:   types.ProviderAWS,
			NativeType: "aws_s3_bucket",
			Attributes: mapper.Attributes{
				"id":     name,
				"bucket": name,
				"region": d.region,
			},
		})
	}
	return records, nil
}

func ec2Tags(tags []ec2types.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		out[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return out
}

func rdsTags(tags []rdstypes.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, t := range tags {
		out[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return out
}

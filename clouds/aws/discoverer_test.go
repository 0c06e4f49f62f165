package aws

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multicloud-cost/clouds"
	"multicloud-cost/core/mapper"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

type fakeEC2 struct {
	pages   []*ec2.DescribeInstancesOutput
	calls   int
	volumes *ec2.DescribeVolumesOutput
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func (f *fakeEC2) DescribeVolumes(context.Context, *ec2.DescribeVolumesInput, ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	return f.volumes, nil
}

type fakeRDS struct {
	out *rds.DescribeDBInstancesOutput
	err error
}

func (f *fakeRDS) DescribeDBInstances(context.Context, *rds.DescribeDBInstancesInput, ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	return f.out, f.err
}

type fakeS3 struct {
	out *s3.ListBucketsOutput
}

func (f *fakeS3) ListBuckets(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	return f.out, nil
}

func fixture() (*fakeEC2, *fakeRDS, *fakeS3) {
	ec2c := &fakeEC2{
		pages: []*ec2.DescribeInstancesOutput{
			{
				Reservations: []ec2types.Reservation{{Instances: []ec2types.Instance{{
					InstanceId:      aws.String("i-0abc"),
					InstanceType:    ec2types.InstanceTypeM5Xlarge,
					Placement:       &ec2types.Placement{AvailabilityZone: aws.String("ap-south-1a")},
					State:           &ec2types.InstanceState{Name: ec2types.InstanceStateNameRunning},
					PlatformDetails: aws.String("Windows"),
					Tags:            []ec2types.Tag{{Key: aws.String("Name"), Value: aws.String("web-1")}},
				}}}},
				NextToken: aws.String("page-2"),
			},
			{
				Reservations: []ec2types.Reservation{{Instances: []ec2types.Instance{{
					InstanceId:   aws.String("i-0def"),
					InstanceType: ec2types.InstanceTypeT3Micro,
				}}}},
			},
		},
		volumes: &ec2.DescribeVolumesOutput{Volumes: []ec2types.Volume{{
			VolumeId:   aws.String("vol-1"),
			Size:       aws.Int32(200),
			Iops:       aws.Int32(3000),
			VolumeType: ec2types.VolumeTypeGp3,
			State:      ec2types.VolumeStateInUse,
		}}},
	}
	rdsc := &fakeRDS{out: &rds.DescribeDBInstancesOutput{DBInstances: []rdstypes.DBInstance{{
		DBInstanceIdentifier: aws.String("orders"),
		Engine:               aws.String("postgres"),
		DBInstanceClass:      aws.String("db.r5.large"),
		AllocatedStorage:     aws.Int32(500),
		MultiAZ:              aws.Bool(true),
		DBInstanceStatus:     aws.String("available"),
	}}}}
	s3c := &fakeS3{out: &s3.ListBucketsOutput{Buckets: []s3types.Bucket{{Name: aws.String("audit-logs")}}}}
	return ec2c, rdsc, s3c
}

func TestDiscover(t *testing.T) {
	ec2c, rdsc, s3c := fixture()
	d := NewWithClients("ap-south-1", ec2c, rdsc, s3c, nil)

	records, err := d.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, 2, ec2c.calls, "paginator follows NextToken")

	resources := mapper.NewNormalizer(nil).NormalizeAll(records)

	web := resources[0]
	assert.Equal(t, "i-0abc", web.ID)
	assert.Equal(t, "web-1", web.Name)
	assert.Equal(t, types.ServiceCompute, web.Service)
	assert.Equal(t, "ap-south-1", web.Location)
	assert.Equal(t, "running", web.State)
	vcpus, _ := web.DetailFloat(types.DetailVCPUs)
	assert.Equal(t, 4.0, vcpus)

	vol := resources[2]
	assert.Equal(t, "Volume", vol.Type)
	size, _ := vol.DetailFloat(types.DetailStorage)
	assert.Equal(t, 200.0, size)

	db := resources[3]
	assert.Equal(t, types.ServiceDatabase, db.Service)
	assert.Equal(t, "postgres", db.DetailString(types.DetailEngine))
	assert.True(t, db.DetailBool(types.DetailMultiAZ))
	storage, _ := db.DetailFloat(types.DetailStorage)
	assert.Equal(t, 500.0, storage)

	bucket := resources[4]
	assert.Equal(t, "audit-logs", bucket.Name)
	assert.Equal(t, types.ServiceStorage, bucket.Service)
}

func TestDiscoverWrapsServiceErrors(t *testing.T) {
	ec2c, _, s3c := fixture()
	d := NewWithClients("us-east-1", ec2c, &fakeRDS{err: stderrors.New("AccessDenied")}, s3c, nil)

	_, err := d.Discover(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNetwork))
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestRegister(t *testing.T) {
	reg := clouds.NewRegistry()
	require.NoError(t, Register(reg))
	_, ok := reg.Get(types.ProviderAWS)
	assert.True(t, ok)
}

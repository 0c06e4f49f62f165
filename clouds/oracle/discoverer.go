// Package oracle discovers OCI compute instances and block volumes and
// reports them as oci_* native records.
package oracle

import (
	"context"
	"os"
	"strings"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
	"go.uber.org/zap"

	"multicloud-cost/clouds"
	"multicloud-cost/core/mapper"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
	"multicloud-cost/internal/logging"
)

// ComputeAPI is the subset of core.ComputeClient used for discovery
type ComputeAPI interface {
	ListInstances(ctx context.Context, request core.ListInstancesRequest) (core.ListInstancesResponse, error)
}

// BlockstorageAPI is the subset of core.BlockstorageClient used for discovery
type BlockstorageAPI interface {
	ListVolumes(ctx context.Context, request core.ListVolumesRequest) (core.ListVolumesResponse, error)
}

// Discoverer lists OCI resources in one compartment
type Discoverer struct {
	compartment string
	region      string
	compute     ComputeAPI
	blocks      BlockstorageAPI
	logger      *zap.Logger
}

// New builds OCI clients with API-key authentication
func New(_ context.Context, creds clouds.Credentials, logger *zap.Logger) (clouds.Discoverer, error) {
	c := creds.Oracle
	key, err := os.ReadFile(c.PrivateKeyPath)
	if err != nil {
		return nil, errors.Config("read oracle private key", err).WithContext("path", c.PrivateKeyPath)
	}
	var passphrase *string
	if c.PrivateKeyPassphrase != "" {
		passphrase = common.String(c.PrivateKeyPassphrase)
	}
	provider := common.NewRawConfigurationProvider(c.TenancyOCID, c.UserOCID, c.Region, c.Fingerprint, string(key), passphrase)

	computeClient, err := core.NewComputeClientWithConfigurationProvider(provider)
	if err != nil {
		return nil, errors.Config("create oracle compute client", err)
	}
	blockClient, err := core.NewBlockstorageClientWithConfigurationProvider(provider)
	if err != nil {
		return nil, errors.Config("create oracle block storage client", err)
	}
	return NewWithClients(c.Compartment(), c.Region, computeClient, blockClient, logger), nil
}

// NewWithClients builds a discoverer over existing clients
func NewWithClients(compartment, region string, compute ComputeAPI, blocks BlockstorageAPI, logger *zap.Logger) *Discoverer {
	return &Discoverer{
		compartment: compartment,
		region:      region,
		compute:     compute,
		blocks:      blocks,
		logger:      logging.OrGlobal(logger, "discovery.oracle"),
	}
}

// Register adds the OCI discoverer to a registry
func Register(reg *clouds.Registry) error {
	return reg.Register(types.ProviderOracle, New)
}

// Provider returns the cloud provider identifier
func (d *Discoverer) Provider() types.Provider {
	return types.ProviderOracle
}

// Discover lists instances and volumes, following opc-next-page tokens
func (d *Discoverer) Discover(ctx context.Context) ([]mapper.NativeRecord, error) {
	var records []mapper.NativeRecord

	var page *string
	for {
		resp, err := d.compute.ListInstances(ctx, core.ListInstancesRequest{
			CompartmentId: common.String(d.compartment),
			Page:          page,
		})
		if err != nil {
			return nil, errors.Network("list oracle instances", err).WithContext("compartment", d.compartment)
		}
		for _, inst := range resp.Items {
			records = append(records, d.instanceRecord(inst))
		}
		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}
	instances := len(records)

	page = nil
	for {
		resp, err := d.blocks.ListVolumes(ctx, core.ListVolumesRequest{
			CompartmentId: common.String(d.compartment),
			Page:          page,
		})
		if err != nil {
			return nil, errors.Network("list oracle volumes", err).WithContext("compartment", d.compartment)
		}
		for _, v := range resp.Items {
			records = append(records, d.volumeRecord(v))
		}
		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}

	d.logger.Debug("oracle discovery",
		zap.String("compartment", d.compartment),
		zap.Int("instances", instances),
		zap.Int("volumes", len(records)-instances))
	return records, nil
}

func (d *Discoverer) instanceRecord(inst core.Instance) mapper.NativeRecord {
	region := str(inst.Region)
	if region == "" {
		region = d.region
	}
	attrs := mapper.Attributes{
		"id":                  str(inst.Id),
		"display_name":        str(inst.DisplayName),
		"shape":               str(inst.Shape),
		"region":              region,
		"availability_domain": str(inst.AvailabilityDomain),
		"lifecycle_state":     strings.ToLower(string(inst.LifecycleState)),
		"freeform_tags":       inst.FreeformTags,
	}
	if sc := inst.ShapeConfig; sc != nil && sc.Ocpus != nil {
		shape := map[string]any{"ocpus": float64(*sc.Ocpus)}
		if sc.MemoryInGBs != nil {
			shape["memory_in_gbs"] = float64(*sc.MemoryInGBs)
		}
		attrs["shape_config"] = shape
	}
	return mapper.NativeRecord{Provider: types.ProviderOracle, NativeType: "oci_core_instance", Attributes: attrs}
}

func (d *Discoverer) volumeRecord(v core.Volume) mapper.NativeRecord {
	attrs := mapper.Attributes{
		"id":                  str(v.Id),
		"display_name":        str(v.DisplayName),
		"region":              d.region,
		"availability_domain": str(v.AvailabilityDomain),
		"lifecycle_state":     strings.ToLower(string(v.LifecycleState)),
		"freeform_tags":       v.FreeformTags,
	}
	if v.SizeInGBs != nil {
		attrs["size_in_gbs"] = *v.SizeInGBs
	}
	if v.VpusPerGB != nil {
		attrs["vpus_per_gb"] = *v.VpusPerGB
	}
	return mapper.NativeRecord{Provider: types.ProviderOracle, NativeType: "oci_core_volume", Attributes: attrs}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

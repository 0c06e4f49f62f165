// Package gcp discovers Compute Engine instances and persistent disks and
// reports them as google_* native records.
package gcp

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/option"

	"multicloud-cost/clouds"
	"multicloud-cost/core/mapper"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
	"multicloud-cost/internal/logging"
)

// ComputeAPI lists Compute Engine resources; an empty zone means every zone
type ComputeAPI interface {
	Instances(ctx context.Context, project, zone string) ([]*compute.Instance, error)
	Disks(ctx context.Context, project, zone string) ([]*compute.Disk, error)
}

type computeService struct {
	svc *compute.Service
}

func (c computeService) Instances(ctx context.Context, project, zone string) ([]*compute.Instance, error) {
	var out []*compute.Instance
	if zone != "" {
		err := c.svc.Instances.List(project, zone).Pages(ctx, func(page *compute.InstanceList) error {
			out = append(out, page.Items...)
			return nil
		})
		return out, err
	}
	err := c.svc.Instances.AggregatedList(project).Pages(ctx, func(page *compute.InstanceAggregatedList) error {
		for _, scoped := range page.Items {
			out = append(out, scoped.Instances...)
		}
		return nil
	})
	return out, err
}

func (c computeService) Disks(ctx context.Context, project, zone string) ([]*compute.Disk, error) {
	var out []*compute.Disk
	if zone != "" {
		err := c.svc.Disks.List(project, zone).Pages(ctx, func(page *compute.DiskList) error {
			out = append(out, page.Items...)
			return nil
		})
		return out, err
	}
	err := c.svc.Disks.AggregatedList(project).Pages(ctx, func(page *compute.DiskAggregatedList) error {
		for _, scoped := range page.Items {
			out = append(out, scoped.Disks...)
		}
		return nil
	})
	return out, err
}

// Discoverer lists GCP resources in one project
type Discoverer struct {
	project string
	zone    string
	api     ComputeAPI
	logger  *zap.Logger
}

// New builds a Compute Engine client; without a credentials file the
// application default credentials are used.
func New(ctx context.Context, creds clouds.Credentials, logger *zap.Logger) (clouds.Discoverer, error) {
	c := creds.GCP
	if c.ProjectID == "" {
		return nil, errors.Config("gcp project_id is required", nil)
	}

	var opts []option.ClientOption
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}
	svc, err := compute.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Config("create compute client", err)
	}
	return NewWithAPI(c.ProjectID, c.Zone, computeService{svc: svc}, logger), nil
}

// NewWithAPI builds a discoverer over an existing API
func NewWithAPI(project, zone string, api ComputeAPI, logger *zap.Logger) *Discoverer {
	return &Discoverer{
		project: project,
		zone:    zone,
		api:     api,
		logger:  logging.OrGlobal(logger, "discovery.gcp"),
	}
}

// Register adds the GCP discoverer to a registry
func Register(reg *clouds.Registry) error {
	return reg.Register(types.ProviderGCP, New)
}

// Provider returns the cloud provider identifier
func (d *Discoverer) Provider() types.Provider {
	return types.ProviderGCP
}

// Discover lists instances and disks
func (d *Discoverer) Discover(ctx context.Context) ([]mapper.NativeRecord, error) {
	instances, err := d.api.Instances(ctx, d.project, d.zone)
	if err != nil {
		return nil, errors.Network("list compute instances", err).WithContext("project", d.project)
	}
	disks, err := d.api.Disks(ctx, d.project, d.zone)
	if err != nil {
		return nil, errors.Network("list persistent disks", err).WithContext("project", d.project)
	}

	records := make([]mapper.NativeRecord, 0, len(instances)+len(disks))
	for _, inst := range instances {
		records = append(records, mapper.NativeRecord{
			Provider:   types.ProviderGCP,
			NativeType: "google_compute_instance",
			Attributes: mapper.Attributes{
				"id":           strconv.FormatUint(inst.Id, 10),
				"name":         inst.Name,
				"machine_type": lastSegment(inst.MachineType),
				"zone":         lastSegment(inst.Zone),
				"status":       strings.ToLower(inst.Status),
				"labels":       inst.Labels,
			},
		})
	}
	for _, disk := range disks {
		records = append(records, mapper.NativeRecord{
			Provider:   types.ProviderGCP,
			NativeType: "google_compute_disk",
			Attributes: mapper.Attributes{
				"id":     strconv.FormatUint(disk.Id, 10),
				"name":   disk.Name,
				"size":   disk.SizeGb,
				"type":   lastSegment(disk.Type),
				"zone":   lastSegment(disk.Zone),
				"status": strings.ToLower(disk.Status),
				"labels": disk.Labels,
			},
		})
	}

	d.logger.Debug("gcp discovery",
		zap.String("project", d.project),
		zap.Int("instances", len(instances)),
		zap.Int("disks", len(disks)))
	return records, nil
}

// lastSegment trims a resource URL to its final path element
func lastSegment(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

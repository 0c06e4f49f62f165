package spreadsheet

import (
	"bytes"
	"context"

	"go.uber.org/zap"

	"multicloud-cost/core/determinism"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/logging"
)

// SourceName identifies this normalizer in metrics and logs
const SourceName = "spreadsheet"

const unknownSite = "unknown"

// Normalizer turns requirement sheets into UnifiedResources
type Normalizer struct {
	ids    determinism.IDGenerator
	logger *zap.Logger
}

// NewNormalizer creates a sheet normalizer; a nil generator means random uuids
func NewNormalizer(ids determinism.IDGenerator, logger *zap.Logger) *Normalizer {
	if ids == nil {
		ids = determinism.UUIDGenerator{}
	}
	return &Normalizer{
		ids:    ids,
		logger: logging.OrGlobal(logger, "spreadsheet"),
	}
}

// Normalize reads an xlsx buffer and normalizes every workload row
func (n *Normalizer) Normalize(ctx context.Context, input []byte) ([]types.UnifiedResource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	workloads, err := ReadWorkloads(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}
	resources := n.Resources(workloads)
	n.logger.Debug("normalized spreadsheet",
		zap.Int("rows", len(workloads)),
		zap.Int("resources", len(resources)),
	)
	return resources, nil
}

// Resources converts workloads into resources. Each row yields one compute or
// database record; load-balanced rows add a companion load balancer.
func (n *Normalizer) Resources(workloads []types.Workload) []types.UnifiedResource {
	out := make([]types.UnifiedResource, 0, len(workloads))
	for _, w := range workloads {
		location := w.Site
		if location == "" {
			location = unknownSite
		}

		kind, service := types.TypeInstance, types.ServiceCompute
		if w.IsDatabase() {
			kind, service = types.TypeDatabase, types.ServiceDatabase
		}

		details := map[string]any{
			types.DetailVCPUs:        w.VCPUs(),
			types.DetailMemory:       w.RAMGB,
			types.DetailStorage:      w.BootSpaceGB + w.DataSpaceGB,
			types.DetailDataSpace:    w.DataSpaceGB,
			types.DetailFileStorage:  w.FileStorageGB,
			types.DetailLoadBalanced: w.LoadBalanced,
			types.DetailHARequired:   w.HARequired,
		}
		if w.CPUName != "" {
			details[types.DetailInstanceType] = w.CPUName
		}
		if w.OSName != "" {
			details[types.DetailOS] = w.OSName
		}

		res := types.UnifiedResource{
			ID:          n.ids.NewID("sheet"),
			Name:        w.ApplicationName,
			Type:        kind,
			Service:     service,
			Provider:    types.ProviderMultiCloud,
			Location:    location,
			State:       types.DefaultState,
			Tags:        rowTags(w),
			CostDetails: details,
		}
		if res.Name == "" {
			res.Name = res.ID
		}
		out = append(out, res)

		if w.LoadBalanced {
			out = append(out, types.UnifiedResource{
				ID:          n.ids.NewID("sheet-lb"),
				Name:        res.Name + "-lb",
				Type:        types.TypeLoadBalancer,
				Service:     types.ServiceNetworking,
				Provider:    types.ProviderMultiCloud,
				Location:    location,
				State:       types.DefaultState,
				Tags:        rowTags(w),
				CostDetails: map[string]any{types.DetailLBType: "application"},
			})
		}
	}
	types.EnsureUniqueIDs(out)
	return out
}

func rowTags(w types.Workload) map[string]string {
	tags := make(map[string]string)
	if w.Category != "" {
		tags["category"] = w.Category
	}
	if w.WorkloadType != "" {
		tags["workloadType"] = w.WorkloadType
	}
	if w.Softwares != "" {
		tags["softwares"] = w.Softwares
	}
	return tags
}

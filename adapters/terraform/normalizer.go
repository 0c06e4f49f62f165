package terraform

import (
	"context"

	"go.uber.org/zap"

	"multicloud-cost/core/mapper"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/logging"
)

// SourceName identifies this normalizer in metrics and logs
const SourceName = "terraform"

// Normalizer turns Terraform state JSON into UnifiedResources
type Normalizer struct {
	mapper *mapper.Normalizer
	logger *zap.Logger
}

// NewNormalizer creates a state normalizer. Nil arguments fall back to the
// global rule registry and logger.
func NewNormalizer(m *mapper.Normalizer, logger *zap.Logger) *Normalizer {
	if m == nil {
		m = mapper.NewNormalizer(nil)
	}
	return &Normalizer{
		mapper: m,
		logger: logging.OrGlobal(logger, "terraform"),
	}
}

// Normalize parses a state document and normalizes its managed resources
func (n *Normalizer) Normalize(ctx context.Context, input []byte) ([]types.UnifiedResource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, err := ParseState(input)
	if err != nil {
		return nil, err
	}

	records := Records(state)
	resources := n.mapper.NormalizeAll(records)

	unknown := 0
	for _, r := range resources {
		if r.Type == types.TypeUnknown {
			unknown++
		}
	}
	n.logger.Debug("normalized terraform state",
		zap.Int("state_version", state.Version),
		zap.String("terraform_version", state.TerraformVersion),
		zap.Int("resources", len(resources)),
		zap.Int("unknown", unknown),
	)
	return resources, nil
}

// Records flattens managed resource instances into native records.
// Data sources are skipped.
func Records(state *State) []mapper.NativeRecord {
	var records []mapper.NativeRecord
	for _, res := range state.Resources {
		if res.Mode != ModeManaged {
			continue
		}

		provider, ok := mapper.ProviderFromNativeType(res.Type)
		if !ok {
			provider, _ = res.ProviderHint()
		}

		for _, inst := range res.Instances {
			records = append(records, mapper.NativeRecord{
				Provider:   provider,
				NativeType: res.Type,
				Address:    res.Address(inst),
				Name:       res.Name,
				Attributes: mapper.Attributes(inst.Attributes),
			})
		}
	}
	return records
}

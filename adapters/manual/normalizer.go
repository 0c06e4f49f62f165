// Package manual normalizes hand-entered resource lists.
package manual

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"multicloud-cost/core/determinism"
	"multicloud-cost/core/mapper"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
	"multicloud-cost/internal/logging"
)

// SourceName identifies this normalizer in metrics and logs
const SourceName = "manual"

// Entry is one manually described resource
type Entry struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name" validate:"required"`
	Type        string            `json:"type" validate:"required"`
	Service     string            `json:"service"`
	Provider    string            `json:"provider" validate:"required"`
	Location    string            `json:"location"`
	State       string            `json:"state"`
	Tags        map[string]string `json:"tags"`
	CostDetails map[string]any    `json:"costDetails"`
}

// Normalizer validates manual entries and fills their defaults
type Normalizer struct {
	ids      determinism.IDGenerator
	validate *validator.Validate
	logger   *zap.Logger
}

// NewNormalizer creates a manual-entry normalizer; a nil generator means random uuids
func NewNormalizer(ids determinism.IDGenerator, logger *zap.Logger) *Normalizer {
	if ids == nil {
		ids = determinism.UUIDGenerator{}
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(types.JSONFieldName)
	return &Normalizer{
		ids:      ids,
		validate: v,
		logger:   logging.OrGlobal(logger, "manual"),
	}
}

// Normalize decodes a JSON array of entries. Every invalid entry is reported.
func (n *Normalizer) Normalize(ctx context.Context, input []byte) ([]types.UnifiedResource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	var entries []Entry
	if err := dec.Decode(&entries); err != nil {
		return nil, errors.Wrap(errors.TypeInput, "manual entries must be a JSON array", err)
	}
	return n.Entries(entries)
}

// Entries validates and converts decoded entries
func (n *Normalizer) Entries(entries []Entry) ([]types.UnifiedResource, error) {
	var errs []error
	out := make([]types.UnifiedResource, 0, len(entries))

	for i, e := range entries {
		if err := n.validate.Struct(e); err != nil {
			errs = append(errs, describe(i, err)...)
			continue
		}
		provider, ok := types.ParseProvider(e.Provider)
		if !ok {
			errs = append(errs, errors.Inputf("entry %d: unknown provider %q", i, e.Provider).
				WithContext("field", "provider"))
			continue
		}
		out = append(out, n.resource(e, provider))
	}

	if err := errors.Collect(errs...); err != nil {
		return nil, errors.Wrap(errors.TypeInput, fmt.Sprintf("invalid manual entries (%d violations)", len(errs)), err)
	}

	types.EnsureUniqueIDs(out)
	n.logger.Debug("normalized manual entries", zap.Int("resources", len(out)))
	return out, nil
}

func (n *Normalizer) resource(e Entry, provider types.Provider) types.UnifiedResource {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		id = n.ids.NewID("manual")
	}

	location := e.Location
	if location == "" {
		location = mapper.Location(nil, provider)
	}
	state := e.State
	if state == "" {
		state = types.DefaultState
	}
	tags := e.Tags
	if tags == nil {
		tags = make(map[string]string)
	}
	details := e.CostDetails
	if details == nil {
		details = make(map[string]any)
	}

	return types.UnifiedResource{
		ID:          id,
		Name:        e.Name,
		Type:        e.Type,
		Service:     types.ParseService(e.Service),
		Provider:    provider,
		Location:    location,
		State:       state,
		Tags:        tags,
		CostDetails: details,
	}
}

func describe(index int, err error) []error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return []error{errors.Wrapf(errors.TypeInput, err, "entry %d", index)}
	}
	out := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, errors.Inputf("entry %d: %s is %s", index, fe.Field(), fe.Tag()).
			WithContext("field", fe.Field()))
	}
	return out
}

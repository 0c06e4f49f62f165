package mapper

import (
	"multicloud-cost/core/types"
)

// NativeRecord is one resource as a source reports it, before normalization
type NativeRecord struct {
	// Provider may be empty; it is then derived from the NativeType prefix
	Provider types.Provider

	// NativeType is the Terraform resource type name
	NativeType string

	// Address identifies the record when attributes carry no id
	Address string

	// Name is the last name fallback before the id (e.g. the Terraform resource name)
	Name string

	Attributes Attributes
}

// DefaultLocations are used when a record carries no location attribute
var DefaultLocations = map[types.Provider]string{
	types.ProviderAWS:    "us-east-1",
	types.ProviderAzure:  "eastus",
	types.ProviderGCP:    "us-central1",
	types.ProviderOracle: "us-phoenix-1",
}

var locationKeys = map[types.Provider][]string{
	types.ProviderAWS:    {"region", "availability_zone"},
	types.ProviderAzure:  {"location", "resource_group_name"},
	types.ProviderGCP:    {"region", "zone"},
	types.ProviderOracle: {"region", "availability_domain"},
}

const unknownLocation = "unknown"

// account and placement identifiers carried as resource metadata
var metadataKeys = map[types.Provider]map[string][]string{
	types.ProviderAWS:    {"accountId": {"account_id", "owner_id"}, "arn": {"arn"}},
	types.ProviderAzure:  {"resourceGroup": {"resource_group_name"}, "subscriptionId": {"subscription_id"}},
	types.ProviderGCP:    {"project": {"project"}},
	types.ProviderOracle: {"compartmentId": {"compartment_id"}, "tenancyId": {"tenancy_id"}},
}

// Normalizer applies the rule table and the fallback chains
type Normalizer struct {
	registry *Registry
}

// NewNormalizer creates a normalizer; a nil registry means GlobalRegistry
func NewNormalizer(reg *Registry) *Normalizer {
	if reg == nil {
		reg = GlobalRegistry
	}
	return &Normalizer{registry: reg}
}

// Normalize converts one native record. Unknown native types become
// Unknown/Other records; nothing is dropped.
func (n *Normalizer) Normalize(rec NativeRecord) types.UnifiedResource {
	attrs := rec.Attributes
	if attrs == nil {
		attrs = Attributes{}
	}

	provider := rec.Provider
	if provider == "" {
		if p, ok := ProviderFromNativeType(rec.NativeType); ok {
			provider = p
		} else {
			provider = types.ProviderMultiCloud
		}
	}
	rule := n.registry.Resolve(provider, rec.NativeType)

	id := attrs.String("id")
	if id == "" {
		id = rec.Address
	}
	if id == "" {
		id = rec.NativeType + "." + rec.Name
	}

	details := ExtractDetails(rule, attrs)
	if meta := Metadata(attrs, provider); meta != nil {
		details[types.DetailMetadata] = meta
	}

	return types.UnifiedResource{
		ID:          id,
		Name:        ResourceName(attrs, rec.Name, id),
		Type:        rule.Type,
		Service:     rule.Service,
		Provider:    provider,
		Location:    Location(attrs, provider),
		State:       State(attrs),
		Tags:        Tags(attrs),
		CostDetails: details,
	}
}

// NormalizeAll converts records in order and de-duplicates their ids
func (n *Normalizer) NormalizeAll(records []NativeRecord) []types.UnifiedResource {
	out := make([]types.UnifiedResource, 0, len(records))
	for _, rec := range records {
		out = append(out, n.Normalize(rec))
	}
	types.EnsureUniqueIDs(out)
	return out
}

// ResourceName applies the name chain: name, display name, name tag,
// source-specific fields, the fallback name, then the id.
func ResourceName(attrs Attributes, fallback, id string) string {
	if s := attrs.String("name", "display_name"); s != "" {
		return s
	}
	tags := attrs.StringMap("tags")
	for _, k := range []string{"Name", "name"} {
		if s := tags[k]; s != "" {
			return s
		}
	}
	if s := attrs.String("bucket", "database_name"); s != "" {
		return s
	}
	if fallback != "" {
		return fallback
	}
	return id
}

// Location applies the provider's location chain and default
func Location(attrs Attributes, provider types.Provider) string {
	keys, ok := locationKeys[provider]
	if !ok {
		keys = []string{"region", "location"}
	}
	if s := attrs.String(keys...); s != "" {
		return s
	}
	if def, ok := DefaultLocations[provider]; ok {
		return def
	}
	return unknownLocation
}

// State passes the native lifecycle state through, defaulting to "active"
func State(attrs Attributes) string {
	if s := attrs.String("state", "status", "lifecycle_state", "provisioning_state", "instance_state"); s != "" {
		return s
	}
	return types.DefaultState
}

// Metadata collects the provider's account and placement identifiers, or
// nil when the record carries none
func Metadata(attrs Attributes, provider types.Provider) map[string]any {
	var meta map[string]any
	for key, sources := range metadataKeys[provider] {
		if s := attrs.String(sources...); s != "" {
			if meta == nil {
				meta = make(map[string]any)
			}
			meta[key] = s
		}
	}
	return meta
}

// Tags unifies tags, labels and freeform tags; later sources win on key clashes
func Tags(attrs Attributes) map[string]string {
	tags := make(map[string]string)
	for _, key := range []string{"tags", "labels", "freeform_tags"} {
		for k, v := range attrs.StringMap(key) {
			tags[k] = v
		}
	}
	return tags
}

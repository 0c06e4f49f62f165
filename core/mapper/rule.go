// Package mapper turns native resource records into UnifiedResources.
// One rule table keyed by (provider, native type) drives every source, so
// Terraform state and live discovery normalize identically.
package mapper

import (
	"fmt"
	"strings"

	"multicloud-cost/core/types"
)

// Rule maps one native resource type onto the unified schema
type Rule struct {
	// Provider owning the native type; filled from the table a rule is registered in
	Provider types.Provider

	// NativeType is the Terraform resource type (e.g. "aws_instance")
	NativeType string

	// Type is the normalized kind (Instance, Bucket, Database, ...)
	Type string

	// Service is the normalized service category
	Service types.Service
}

// Key returns the registry key of the rule
func (r Rule) Key() string {
	return ruleKey(r.Provider, r.NativeType)
}

// Validate checks that a rule is complete and consistent
func (r Rule) Validate() error {
	if r.NativeType == "" {
		return fmt.Errorf("rule missing native type")
	}
	if !r.Provider.IsValid() || r.Provider == types.ProviderMultiCloud {
		return fmt.Errorf("rule %s has invalid provider %q", r.NativeType, r.Provider)
	}
	if r.Type == "" {
		return fmt.Errorf("rule %s missing type", r.NativeType)
	}
	if types.ParseService(string(r.Service)) != r.Service {
		return fmt.Errorf("rule %s has unknown service %q", r.NativeType, r.Service)
	}
	if p, ok := ProviderFromNativeType(r.NativeType); !ok || p != r.Provider {
		return fmt.Errorf("rule %s does not carry the %s prefix", r.NativeType, r.Provider)
	}
	return nil
}

// MustValidate panics if the rule is invalid
func (r Rule) MustValidate() {
	if err := r.Validate(); err != nil {
		panic(fmt.Sprintf("invalid mapping rule: %v", err))
	}
}

// UnknownRule is applied to native types without a registered rule
func UnknownRule(provider types.Provider, nativeType string) Rule {
	return Rule{
		Provider:   provider,
		NativeType: nativeType,
		Type:       types.TypeUnknown,
		Service:    types.ServiceOther,
	}
}

var nativePrefixes = []struct {
	prefix   string
	provider types.Provider
}{
	{"aws_", types.ProviderAWS},
	{"azurerm_", types.ProviderAzure},
	{"google_", types.ProviderGCP},
	{"oci_", types.ProviderOracle},
}

// ProviderFromNativeType derives the provider from a Terraform type prefix
func ProviderFromNativeType(nativeType string) (types.Provider, bool) {
	for _, p := range nativePrefixes {
		if strings.HasPrefix(nativeType, p.prefix) {
			return p.provider, true
		}
	}
	return "", false
}

func ruleKey(provider types.Provider, nativeType string) string {
	return string(provider) + ":" + nativeType
}

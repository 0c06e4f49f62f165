package mapper

import (
	"fmt"
	"sort"
	"sync"

	"multicloud-cost/core/types"
)

// Registry holds the mapping rules, keyed provider:nativeType
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates an empty rule registry
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule to the registry.
// Panics if the rule is invalid or already registered (fail fast).
func (r *Registry) Register(rule Rule) {
	if err := r.RegisterSafe(rule); err != nil {
		panic(err.Error())
	}
}

// RegisterSafe adds a rule returning error instead of panic
func (r *Registry) RegisterSafe(rule Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := rule.Key()
	if _, exists := r.rules[key]; exists {
		return fmt.Errorf("rule already registered: %s", key)
	}
	r.rules[key] = rule
	return nil
}

// Lookup returns the rule for a native type
func (r *Registry) Lookup(provider types.Provider, nativeType string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[ruleKey(provider, nativeType)]
	return rule, ok
}

// Resolve returns the registered rule, or the Unknown rule when there is none
func (r *Registry) Resolve(provider types.Provider, nativeType string) Rule {
	if rule, ok := r.Lookup(provider, nativeType); ok {
		return rule
	}
	return UnknownRule(provider, nativeType)
}

// ListByProvider returns a provider's rules ordered by native type
func (r *Registry) ListByProvider(provider types.Provider) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Rule
	for _, rule := range r.rules {
		if rule.Provider == provider {
			result = append(result, rule)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].NativeType < result[j].NativeType })
	return result
}

// Stats returns registry statistics
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{
		ByProvider: make(map[types.Provider]int),
		ByService:  make(map[types.Service]int),
	}
	for _, rule := range r.rules {
		stats.Total++
		stats.ByProvider[rule.Provider]++
		stats.ByService[rule.Service]++
	}
	return stats
}

// RegistryStats holds registry statistics
type RegistryStats struct {
	Total      int
	ByProvider map[types.Provider]int
	ByService  map[types.Service]int
}

// NewDefaultRegistry builds a registry holding the built-in rule tables
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	tables := []struct {
		provider types.Provider
		rules    []Rule
	}{
		{types.ProviderAWS, awsRules},
		{types.ProviderAzure, azureRules},
		{types.ProviderGCP, gcpRules},
		{types.ProviderOracle, oracleRules},
	}
	for _, t := range tables {
		for _, rule := range t.rules {
			rule.Provider = t.provider
			reg.Register(rule)
		}
	}
	return reg
}

// GlobalRegistry is the default global registry
var GlobalRegistry = NewDefaultRegistry()

// Lookup gets a rule from the global registry
func Lookup(provider types.Provider, nativeType string) (Rule, bool) {
	return GlobalRegistry.Lookup(provider, nativeType)
}

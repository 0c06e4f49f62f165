// Package clouds discovers live resources across providers.
// Provider packages contribute Discoverers; the Dispatcher fans out to them
// and normalizes what they report through the shared rule table.
package clouds

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"multicloud-cost/core/mapper"
	"multicloud-cost/core/types"
)

// Discoverer lists one provider's resources as native records
type Discoverer interface {
	// Provider returns the cloud provider identifier
	Provider() types.Provider

	// Discover lists resources; it must honour ctx cancellation
	Discover(ctx context.Context) ([]mapper.NativeRecord, error)
}

// Factory builds a Discoverer from credentials
type Factory func(ctx context.Context, creds Credentials, logger *zap.Logger) (Discoverer, error)

// Registry manages discoverer factories
type Registry struct {
	mu        sync.RWMutex
	factories map[types.Provider]Factory
}

// NewRegistry creates a new discoverer registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[types.Provider]Factory),
	}
}

// Register adds a factory to the registry
func (r *Registry) Register(provider types.Provider, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[provider]; exists {
		return fmt.Errorf("discoverer already registered: %s", provider)
	}
	r.factories[provider] = factory
	return nil
}

// Get returns a factory by provider
func (r *Registry) Get(provider types.Provider) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[provider]
	return f, ok
}

// Providers returns the registered providers in report order
func (r *Registry) Providers() []types.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]types.Provider, 0, len(r.factories))
	for _, p := range types.PricedProviders {
		if _, ok := r.factories[p]; ok {
			providers = append(providers, p)
		}
	}
	return providers
}

// Global default registry
var defaultRegistry = NewRegistry()

// RegisterDiscoverer adds a factory to the default registry
func RegisterDiscoverer(provider types.Provider, factory Factory) error {
	return defaultRegistry.Register(provider, factory)
}

// GetDefaultRegistry returns the default registry
func GetDefaultRegistry() *Registry {
	return defaultRegistry
}

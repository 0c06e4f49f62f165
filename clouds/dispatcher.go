package clouds

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"multicloud-cost/core/determinism"
	"multicloud-cost/core/mapper"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
	"multicloud-cost/internal/logging"
	"multicloud-cost/internal/metrics"
)

// DefaultTimeout bounds each provider's discovery
const DefaultTimeout = 2 * time.Minute

// ProviderFailure records why one provider contributed no resources
type ProviderFailure struct {
	Provider types.Provider `json:"provider"`
	Reason   string         `json:"reason"`
	Type     errors.Type    `json:"type"`
}

// ScanResult is the merged outcome of a discovery run
type ScanResult struct {
	Resources  []types.UnifiedResource                    `json:"resources"`
	ByProvider map[types.Provider][]types.UnifiedResource `json:"byProvider"`
	Failures   []ProviderFailure                          `json:"failures,omitempty"`
	StartedAt  time.Time                                  `json:"startedAt"`
	Duration   time.Duration                              `json:"duration"`
	Summary    types.ResourceSummary                      `json:"summary"`
}

// Failed reports whether a provider failed during the scan
func (r *ScanResult) Failed(p types.Provider) bool {
	for _, f := range r.Failures {
		if f.Provider == p {
			return true
		}
	}
	return false
}

// Dispatcher runs discoverers concurrently. A provider that fails or times
// out yields an empty list and a ProviderFailure; it never cancels the others.
type Dispatcher struct {
	registry   *Registry
	normalizer *mapper.Normalizer
	timeout    time.Duration
	clock      determinism.Clock
	metrics    *metrics.Recorder
	logger     *zap.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithRegistry replaces the default discoverer registry
func WithRegistry(r *Registry) Option {
	return func(d *Dispatcher) { d.registry = r }
}

// WithNormalizer replaces the default mapper normalizer
func WithNormalizer(n *mapper.Normalizer) Option {
	return func(d *Dispatcher) { d.normalizer = n }
}

// WithTimeout sets the per-provider timeout
func WithTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.timeout = t
		}
	}
}

// WithClock sets the clock used for StartedAt and durations
func WithClock(c determinism.Clock) Option {
	return func(d *Dispatcher) { d.clock = c }
}

// WithMetrics records discovery outcomes
func WithMetrics(m *metrics.Recorder) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// NewDispatcher creates a dispatcher over the default registry
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: defaultRegistry,
		timeout:  DefaultTimeout,
		clock:    determinism.SystemClock{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.normalizer == nil {
		d.normalizer = mapper.NewNormalizer(nil)
	}
	d.logger = logging.OrGlobal(d.logger, "discovery")
	return d
}

// ResolveProviders parses provider names; empty input selects every
// registered provider. Unknown or unregistered names are NOT_SUPPORTED.
func (d *Dispatcher) ResolveProviders(names []string) ([]types.Provider, error) {
	if len(names) == 0 {
		return d.registry.Providers(), nil
	}
	seen := make(map[types.Provider]bool, len(names))
	out := make([]types.Provider, 0, len(names))
	for _, name := range names {
		p, ok := types.ParseProvider(name)
		if !ok || p == types.ProviderMultiCloud {
			return nil, errors.NotSupported(fmt.Sprintf("discovery for provider %q", name))
		}
		if _, ok := d.registry.Get(p); !ok {
			return nil, errors.NotSupported(fmt.Sprintf("discovery for provider %q", name))
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

type providerOutcome struct {
	resources []types.UnifiedResource
	failure   *ProviderFailure
}

// Scan discovers every requested provider concurrently and merges the
// results in request order. It only returns an error for a bad provider list
// or a cancelled parent context.
func (d *Dispatcher) Scan(ctx context.Context, creds Credentials, providers []types.Provider) (*ScanResult, error) {
	if len(providers) == 0 {
		providers = d.registry.Providers()
	}
	for _, p := range providers {
		if _, ok := d.registry.Get(p); !ok {
			return nil, errors.NotSupported(fmt.Sprintf("discovery for provider %q", p))
		}
	}

	started := d.clock.Now()
	outcomes := make([]providerOutcome, len(providers))

	var g errgroup.Group
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			outcomes[i] = d.scanProvider(ctx, creds, p)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &ScanResult{
		ByProvider: make(map[types.Provider][]types.UnifiedResource, len(providers)),
		StartedAt:  started,
	}
	for i, p := range providers {
		o := outcomes[i]
		result.ByProvider[p] = o.resources
		result.Resources = append(result.Resources, o.resources...)
		if o.failure != nil {
			result.Failures = append(result.Failures, *o.failure)
		}
	}
	if result.Resources == nil {
		result.Resources = []types.UnifiedResource{}
	}
	types.EnsureUniqueIDs(result.Resources)
	result.Summary = types.Summarize(result.Resources)
	result.Duration = d.clock.Now().Sub(started)

	d.logger.Info("discovery complete",
		zap.Int("resources", len(result.Resources)),
		zap.Int("failures", len(result.Failures)),
		zap.Duration("duration", result.Duration))
	return result, nil
}

type discoverOutcome struct {
	records []mapper.NativeRecord
	err     error
}

func (d *Dispatcher) scanProvider(ctx context.Context, creds Credentials, p types.Provider) providerOutcome {
	start := time.Now()
	log := d.logger.With(zap.String("provider", string(p)))

	pctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	records, err := d.discover(pctx, creds, p)
	elapsed := time.Since(start)

	if err != nil {
		failure := d.failure(p, err)
		log.Warn("provider discovery failed", zap.String("reason", failure.Reason), zap.Duration("elapsed", elapsed))
		d.metrics.ObserveDiscovery(string(p), 0, elapsed, err)
		return providerOutcome{resources: []types.UnifiedResource{}, failure: &failure}
	}

	resources := d.normalizer.NormalizeAll(records)
	d.metrics.ObserveDiscovery(string(p), len(resources), elapsed, nil)
	log.Debug("provider discovery finished", zap.Int("resources", len(resources)), zap.Duration("elapsed", elapsed))
	return providerOutcome{resources: resources}
}

// discover builds and runs one discoverer, abandoning it when ctx expires
// even if the SDK call does not return.
func (d *Dispatcher) discover(ctx context.Context, creds Credentials, p types.Provider) ([]mapper.NativeRecord, error) {
	factory, _ := d.registry.Get(p)
	if !creds.Configured(p) {
		return nil, errors.Config(fmt.Sprintf("%s credentials are not configured", p), nil)
	}

	done := make(chan discoverOutcome, 1)
	go func() {
		disc, err := factory(ctx, creds, d.logger)
		if err != nil {
			done <- discoverOutcome{err: err}
			return
		}
		records, err := disc.Discover(ctx)
		done <- discoverOutcome{records: records, err: err}
	}()

	select {
	case o := <-done:
		return o.records, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Dispatcher) failure(p types.Provider, err error) ProviderFailure {
	f := ProviderFailure{Provider: p, Reason: err.Error(), Type: errors.TypeNetwork}
	if stderrors.Is(err, context.DeadlineExceeded) {
		f.Reason = fmt.Sprintf("timed out after %s", d.timeout)
		return f
	}
	if e, ok := errors.As(err); ok {
		f.Type = e.Type
	}
	return f
}

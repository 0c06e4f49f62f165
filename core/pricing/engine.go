package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"multicloud-cost/core/determinism"
	"multicloud-cost/core/optimizer"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/logging"
	"multicloud-cost/internal/metrics"
)

// kWh estimated per discounted USD of spend
var kwhPerDollar = decimal.NewFromInt(100)

// Engine prices requirements for every provider. It is safe for concurrent
// use; all state is read-only after NewEngine.
type Engine struct {
	table   *Table
	clock   determinism.Clock
	metrics *metrics.Recorder
	logger  *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithTable replaces the embedded rate table
func WithTable(t *Table) Option {
	return func(e *Engine) { e.table = t }
}

// WithClock sets the clock used for result timestamps
func WithClock(c determinism.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithMetrics records calculation counts and latency
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine builds an engine over the embedded table unless WithTable is given
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{clock: determinism.SystemClock{}}
	for _, opt := range opts {
		opt(e)
	}
	if e.table == nil {
		t, err := DefaultTable()
		if err != nil {
			return nil, err
		}
		e.table = t
	}
	e.logger = logging.OrGlobal(e.logger, "pricing")
	return e, nil
}

// Table returns the rate table the engine prices against
func (e *Engine) Table() *Table {
	return e.table
}

// Calculate prices req for every provider, ranks the results and builds the
// multi-cloud allocation. Any missing rate fails the whole calculation.
func (e *Engine) Calculate(ctx context.Context, req types.InfrastructureRequirements) (result *types.CalculationResult, err error) {
	start := time.Now()
	defer func() { e.metrics.ObserveCalculation(start, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	rate, symbol, err := e.table.Currency(req.Currency)
	if err != nil {
		return nil, err
	}

	breakdowns := make([]types.CostBreakdown, 0, len(types.PricedProviders))
	for _, p := range types.PricedProviders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := e.priceProvider(p, &req, rate, symbol)
		if err != nil {
			return nil, err
		}
		breakdowns = append(breakdowns, b)
	}

	ranking := optimizer.Rank(breakdowns)
	multi := optimizer.Optimize(ranking.Providers)

	result = &types.CalculationResult{
		Providers:        ranking.Providers,
		Cheapest:         ranking.Cheapest,
		MostExpensive:    ranking.MostExpensive,
		PotentialSavings: ranking.PotentialSavings,
		MultiCloudOption: multi,
		Recommendations:  recommend(req, ranking.Cheapest, multi),
		Metadata: types.CalculationMetadata{
			CalculatedAt: e.clock.Now(),
			Currency:     req.Currency,
			TableVersion: e.table.Version(),
			Region:       req.Compute.Region,
		},
	}

	e.logger.Debug("calculation complete",
		zap.String("currency", string(req.Currency)),
		zap.String("cheapest", string(ranking.Cheapest.Provider)),
		zap.String("total", ranking.Cheapest.Total.String()),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (e *Engine) priceProvider(p types.Provider, req *types.InfrastructureRequirements, rate decimal.Decimal, symbol string) (types.CostBreakdown, error) {
	info, err := e.table.Provider(p)
	if err != nil {
		return types.CostBreakdown{}, err
	}
	calc := newCalculator(e.table, p, req)

	base := make(map[types.Category]decimal.Decimal, len(types.ServiceCategories))
	baseTotal := decimal.Zero
	for _, cat := range types.ServiceCategories {
		amount := calc.category(cat)
		base[cat] = amount
		baseTotal = baseTotal.Add(amount)
	}
	optMult := optimizationMultiplier(req.Optimization)
	sustMult := calc.sustainabilityMultiplier()
	if calc.err != nil {
		return types.CostBreakdown{}, calc.err
	}
	lic, err := licensing(e.table, req)
	if err != nil {
		return types.CostBreakdown{}, err
	}

	b := types.CostBreakdown{
		Provider:                 p,
		Name:                     info.Name,
		Currency:                 req.Currency,
		CurrencySymbol:           symbol,
		RenewableEnergyPercent:   info.RenewablePercent,
		OptimizationMultiplier:   optMult.Round(4),
		SustainabilityMultiplier: sustMult.Round(4),
	}

	effective := optMult.Mul(sustMult)
	total := decimal.Zero
	for _, cat := range types.ServiceCategories {
		amount := base[cat].Mul(effective).Mul(rate)
		b.SetAmount(cat, amount)
		total = total.Add(amount)
	}
	converted := lic.Mul(rate)
	b.SetAmount(types.CategoryLicensing, converted)
	b.SetTotal(total.Add(converted))

	// carbon is measured on the USD total, licensing included
	usdTotal := baseTotal.Mul(effective).Add(lic)
	b.CarbonFootprint = usdTotal.Mul(kwhPerDollar).Mul(info.CO2PerKWh).Round(3)

	e.logger.Debug("provider priced",
		zap.String("provider", string(p)),
		zap.String("base", baseTotal.StringFixed(2)),
		zap.String("total", b.Total.String()))
	return b, nil
}

func recommend(req types.InfrastructureRequirements, cheapest types.CostBreakdown, multi types.MultiCloudOption) types.Recommendations {
	sym := cheapest.CurrencySymbol
	recs := types.Recommendations{
		SingleCloud: fmt.Sprintf("%s offers the best overall value at %s%s/month with comprehensive service coverage.",
			cheapest.Name, sym, cheapest.Total.StringFixed(2)),
		CostOptimization: costAdvice(req),
	}

	diff := cheapest.Total.Sub(multi.Cost)
	if diff.IsPositive() {
		recs.MultiCloud = fmt.Sprintf("Hybrid approach could save an additional %s%s/month by using the most cost-effective provider for each service category.",
			sym, diff.StringFixed(2))
	} else {
		recs.MultiCloud = fmt.Sprintf("%s is the most cost-effective provider in every service category; a hybrid approach offers no additional savings.",
			cheapest.Name)
	}
	return recs
}

// costAdvice lists the optimization levers a document leaves unused
func costAdvice(req types.InfrastructureRequirements) []string {
	var advice []string
	o := req.Optimization
	if req.Compute.VCPUs > 0 {
		if o.ReservedInstanceStrategy == "none" {
			advice = append(advice, "Reserved instances or committed use discounts could reduce compute costs by up to 22% for steady workloads")
		}
		if o.SpotInstanceTolerance == 0 {
			advice = append(advice, "Spot or preemptible capacity could cut up to 70% of compute costs for fault-tolerant workloads")
		}
		if o.AutoScalingAggression == "none" {
			advice = append(advice, "Enable auto-scaling to match capacity to demand")
		}
	}
	if req.Storage.ObjectStorage.Size > 0 && req.Storage.ObjectStorage.Tier == "standard" {
		advice = append(advice, "Move infrequently accessed objects to a cheaper storage tier")
	}
	if o.CostAlerts.Enabled {
		advice = append(advice, fmt.Sprintf("Cost alerts will notify via %s when spend exceeds %g%% of budget",
			o.CostAlerts.NotificationPreference, o.CostAlerts.ThresholdPercent))
	} else {
		advice = append(advice, "Enable cost alerts to catch unexpected spend early")
	}
	return advice
}

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is one cost dimension of a CostBreakdown
type Category string

const (
	CategoryCompute        Category = "compute"
	CategoryStorage        Category = "storage"
	CategoryDatabase       Category = "database"
	CategoryNetworking     Category = "networking"
	CategoryAnalytics      Category = "analytics"
	CategoryAI             Category = "ai"
	CategorySecurity       Category = "security"
	CategoryMonitoring     Category = "monitoring"
	CategoryDevOps         Category = "devops"
	CategoryBackup         Category = "backup"
	CategoryIoT            Category = "iot"
	CategoryMedia          Category = "media"
	CategoryQuantum        Category = "quantum"
	CategoryAdvancedAI     Category = "advancedAI"
	CategoryEdge           Category = "edge"
	CategoryConfidential   Category = "confidential"
	CategorySustainability Category = "sustainability"
	CategoryScenarios      Category = "scenarios"
	CategoryLicensing      Category = "licensing"
)

// ServiceCategories are the provider-dependent categories, in report order.
// Licensing is deliberately absent: it is identical for every provider.
var ServiceCategories = []Category{
	CategoryCompute, CategoryStorage, CategoryDatabase, CategoryNetworking,
	CategoryAnalytics, CategoryAI, CategorySecurity, CategoryMonitoring,
	CategoryDevOps, CategoryBackup, CategoryIoT, CategoryMedia, CategoryQuantum,
	CategoryAdvancedAI, CategoryEdge, CategoryConfidential, CategorySustainability,
	CategoryScenarios,
}

// CostBreakdown is one provider's priced result. Amounts are monthly, in
// Currency, rounded to cents. Category amounts already include the
// optimization and sustainability multipliers, so they sum to Total together
// with Licensing.
type CostBreakdown struct {
	Provider Provider `json:"provider"`
	Name     string   `json:"name"`

	Compute        decimal.Decimal `json:"compute"`
	Storage        decimal.Decimal `json:"storage"`
	Database       decimal.Decimal `json:"database"`
	Networking     decimal.Decimal `json:"networking"`
	Licensing      decimal.Decimal `json:"licensing"`
	Analytics      decimal.Decimal `json:"analytics"`
	AI             decimal.Decimal `json:"ai"`
	Security       decimal.Decimal `json:"security"`
	Monitoring     decimal.Decimal `json:"monitoring"`
	DevOps         decimal.Decimal `json:"devops"`
	Backup         decimal.Decimal `json:"backup"`
	IoT            decimal.Decimal `json:"iot"`
	Media          decimal.Decimal `json:"media"`
	Quantum        decimal.Decimal `json:"quantum"`
	AdvancedAI     decimal.Decimal `json:"advancedAI"`
	Edge           decimal.Decimal `json:"edge"`
	Confidential   decimal.Decimal `json:"confidential"`
	Sustainability decimal.Decimal `json:"sustainability"`
	Scenarios      decimal.Decimal `json:"scenarios"`

	Total                    decimal.Decimal `json:"total"`
	CarbonFootprint          decimal.Decimal `json:"carbonFootprint"`
	RenewableEnergyPercent   decimal.Decimal `json:"renewableEnergyPercent"`
	Currency                 Currency        `json:"currency"`
	CurrencySymbol           string          `json:"currencySymbol"`
	OptimizationMultiplier   decimal.Decimal `json:"optimizationMultiplier"`
	SustainabilityMultiplier decimal.Decimal `json:"sustainabilityMultiplier"`

	// full-precision converted amounts; not serialized
	exact      map[Category]decimal.Decimal
	exactTotal *decimal.Decimal
}

func (b *CostBreakdown) field(c Category) *decimal.Decimal {
	switch c {
	case CategoryCompute:
		return &b.Compute
	case CategoryStorage:
		return &b.Storage
	case CategoryDatabase:
		return &b.Database
	case CategoryNetworking:
		return &b.Networking
	case CategoryLicensing:
		return &b.Licensing
	case CategoryAnalytics:
		return &b.Analytics
	case CategoryAI:
		return &b.AI
	case CategorySecurity:
		return &b.Security
	case CategoryMonitoring:
		return &b.Monitoring
	case CategoryDevOps:
		return &b.DevOps
	case CategoryBackup:
		return &b.Backup
	case CategoryIoT:
		return &b.IoT
	case CategoryMedia:
		return &b.Media
	case CategoryQuantum:
		return &b.Quantum
	case CategoryAdvancedAI:
		return &b.AdvancedAI
	case CategoryEdge:
		return &b.Edge
	case CategoryConfidential:
		return &b.Confidential
	case CategorySustainability:
		return &b.Sustainability
	case CategoryScenarios:
		return &b.Scenarios
	}
	return nil
}

// Amount returns the reported amount of a category
func (b CostBreakdown) Amount(c Category) decimal.Decimal {
	if f := b.field(c); f != nil {
		return *f
	}
	return decimal.Zero
}

// SetAmount records a category's full-precision amount and its cent-rounded report value.
func (b *CostBreakdown) SetAmount(c Category, exact decimal.Decimal) {
	f := b.field(c)
	if f == nil {
		return
	}
	if b.exact == nil {
		b.exact = make(map[Category]decimal.Decimal, len(ServiceCategories)+1)
	}
	b.exact[c] = exact
	*f = exact.Round(2)
}

// SetTotal records the full-precision total and its rounded report value
func (b *CostBreakdown) SetTotal(exact decimal.Decimal) {
	b.exactTotal = &exact
	b.Total = exact.Round(2)
}

// ExactAmount returns the full-precision amount when known, else the reported one.
func (b CostBreakdown) ExactAmount(c Category) decimal.Decimal {
	if v, ok := b.exact[c]; ok {
		return v
	}
	return b.Amount(c)
}

// ExactTotal returns the full-precision total when known, else the reported one.
func (b CostBreakdown) ExactTotal() decimal.Decimal {
	if b.exactTotal != nil {
		return *b.exactTotal
	}
	return b.Total
}

// MultiCloudOption is the per-category cheapest allocation
type MultiCloudOption struct {
	Cost      decimal.Decimal     `json:"cost"`
	Breakdown map[Category]string `json:"breakdown"`
}

// AllProvidersLabel marks categories that do not vary by provider
const AllProvidersLabel = "All Providers"

// Recommendations are human-readable findings attached to a calculation
type Recommendations struct {
	SingleCloud      string   `json:"singleCloud"`
	MultiCloud       string   `json:"multiCloud"`
	CostOptimization []string `json:"costOptimization,omitempty"`
}

// CalculationMetadata records how a result was produced
type CalculationMetadata struct {
	CalculatedAt time.Time `json:"calculatedAt"`
	Currency     Currency  `json:"currency"`
	TableVersion string    `json:"tableVersion"`
	Region       string    `json:"region"`
}

// CalculationResult is the full output of one pricing run
type CalculationResult struct {
	Providers        []CostBreakdown     `json:"providers"`
	Cheapest         CostBreakdown       `json:"cheapest"`
	MostExpensive    CostBreakdown       `json:"mostExpensive"`
	PotentialSavings decimal.Decimal     `json:"potentialSavings"`
	MultiCloudOption MultiCloudOption    `json:"multiCloudOption"`
	Recommendations  Recommendations     `json:"recommendations"`
	Metadata         CalculationMetadata `json:"metadata"`
}

// Package pricing prices InfrastructureRequirements against a static rate
// table for every supported provider.
package pricing

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

//go:embed data/pricing.json
var embeddedTable []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Table is a loaded rate table. It is read-only after LoadTable returns and
// safe for concurrent use.
type Table struct {
	root    map[string]any
	version string
}

// ProviderInfo carries the per-provider constants that are not rates
type ProviderInfo struct {
	Name             string
	CO2PerKWh        decimal.Decimal
	RenewablePercent decimal.Decimal
}

// Embedded returns a copy of the built-in table document
func Embedded() []byte {
	return append([]byte(nil), embeddedTable...)
}

// DefaultTable returns the embedded table, loaded once
func DefaultTable() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = LoadTable(embeddedTable)
	})
	return defaultTable, defaultErr
}

// LoadTableFile reads and validates a table from disk
func LoadTableFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("read pricing table", err).WithContext("path", path)
	}
	t, err := LoadTable(data)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			return nil, e.WithContext("path", path)
		}
		return nil, err
	}
	return t, nil
}

// LoadTable decodes a JSON rate table and checks that every key a valid
// requirements document can reach is present. All missing keys are
// reported together.
func LoadTable(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, errors.Config("decode pricing table", err)
	}
	if root == nil {
		return nil, errors.New(errors.TypeConfig, "pricing table is empty")
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])[:12]
	version := digest
	if declared, ok := root["version"].(string); ok && declared != "" {
		version = declared + "+" + digest
	}

	t := &Table{root: root, version: version}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Version identifies the table content
func (t *Table) Version() string {
	return t.version
}

func (t *Table) lookup(path []string) (any, bool) {
	var node any = t.root
	for _, key := range path {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		if node, ok = m[key]; !ok {
			return nil, false
		}
	}
	return node, true
}

func missing(path []string) *errors.Error {
	return errors.New(errors.TypePricing, "missing price key").
		WithContext("path", strings.Join(path, "."))
}

// rate resolves a numeric leaf
func (t *Table) rate(path []string) (decimal.Decimal, *errors.Error) {
	node, ok := t.lookup(path)
	if !ok {
		return decimal.Zero, missing(path)
	}
	switch v := node.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, errors.Pricing("malformed price", err).
				WithContext("path", strings.Join(path, "."))
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	}
	return decimal.Zero, errors.New(errors.TypePricing, "price is not a number").
		WithContext("path", strings.Join(path, "."))
}

// Rate returns the numeric value at path. A missing or non-numeric key is a
// PRICING_ERROR carrying the path.
func (t *Table) Rate(path ...string) (decimal.Decimal, error) {
	d, err := t.rate(path)
	if err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func (t *Table) text(path ...string) (string, error) {
	node, ok := t.lookup(path)
	if !ok {
		return "", missing(path)
	}
	s, ok := node.(string)
	if !ok {
		return "", errors.New(errors.TypePricing, "value is not a string").
			WithContext("path", strings.Join(path, "."))
	}
	return s, nil
}

// RegionMultiplier returns the region's multiplier, or 1 for regions the
// table does not list.
func (t *Table) RegionMultiplier(region string) decimal.Decimal {
	if m, err := t.rate([]string{"regions", region, "multiplier"}); err == nil {
		return m
	}
	return decimal.NewFromInt(1)
}

// Currency returns the USD conversion rate and display symbol
func (t *Table) Currency(c types.Currency) (decimal.Decimal, string, error) {
	rate, err := t.Rate("currencies", string(c), "rate")
	if err != nil {
		return decimal.Zero, "", err
	}
	symbol, err := t.text("currencies", string(c), "symbol")
	if err != nil {
		return decimal.Zero, "", err
	}
	return rate, symbol, nil
}

// Provider returns the display name and sustainability constants of p
func (t *Table) Provider(p types.Provider) (ProviderInfo, error) {
	name, err := t.text("providers", string(p), "name")
	if err != nil {
		return ProviderInfo{}, err
	}
	co2, err := t.Rate("providers", string(p), "co2_per_kwh")
	if err != nil {
		return ProviderInfo{}, err
	}
	renewable, err := t.Rate("providers", string(p), "renewable_percent")
	if err != nil {
		return ProviderInfo{}, err
	}
	return ProviderInfo{Name: name, CO2PerKWh: co2, RenewablePercent: renewable}, nil
}

// Validate checks every required key and returns one PRICING_ERROR per gap
// folded into a multierror.
func (t *Table) Validate() error {
	var errs []error
	for _, path := range requiredPaths() {
		if _, err := t.rate(path); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range types.PricedProviders {
		if _, err := t.text("providers", string(p), "name"); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range types.Currencies {
		if _, err := t.text("currencies", string(c), "symbol"); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Collect(errs...)
}

// Package types defines core domain types shared across all layers.
// This package contains NO pricing or normalization logic.
package types

import "strings"

// Provider represents a cloud provider
type Provider string

const (
	ProviderAWS        Provider = "aws"
	ProviderAzure      Provider = "azure"
	ProviderGCP        Provider = "gcp"
	ProviderOracle     Provider = "oracle"
	ProviderMultiCloud Provider = "multi-cloud"
)

// PricedProviders are the providers the pricing engine evaluates, in report order.
var PricedProviders = []Provider{ProviderAWS, ProviderAzure, ProviderGCP, ProviderOracle}

// String returns the string representation of the provider
func (p Provider) String() string {
	return string(p)
}

// IsValid checks if the provider is a known provider
func (p Provider) IsValid() bool {
	switch p {
	case ProviderAWS, ProviderAzure, ProviderGCP, ProviderOracle, ProviderMultiCloud:
		return true
	default:
		return false
	}
}

// ParseProvider normalizes aliases ("oci", "google", "azurerm") to a Provider.
func ParseProvider(s string) (Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aws", "amazon":
		return ProviderAWS, true
	case "azure", "azurerm", "microsoft":
		return ProviderAzure, true
	case "gcp", "google":
		return ProviderGCP, true
	case "oracle", "oci":
		return ProviderOracle, true
	case "multi-cloud", "multicloud":
		return ProviderMultiCloud, true
	}
	return "", false
}

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyINR Currency = "INR"
	CurrencyEUR Currency = "EUR"
	CurrencyKWD Currency = "KWD"
)

// Currencies lists every supported currency
var Currencies = []Currency{CurrencyUSD, CurrencyINR, CurrencyEUR, CurrencyKWD}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// IsValid checks if the currency is supported
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyINR, CurrencyEUR, CurrencyKWD:
		return true
	}
	return false
}

// Service is the normalized service category of a resource
type Service string

const (
	ServiceCompute    Service = "Compute"
	ServiceStorage    Service = "Storage"
	ServiceDatabase   Service = "Database"
	ServiceNetworking Service = "Networking"
	ServiceMonitoring Service = "Monitoring"
	ServiceSecurity   Service = "Security"
	ServiceAnalytics  Service = "Analytics"
	ServiceContainers Service = "Containers"
	ServiceServerless Service = "Serverless"
	ServiceOther      Service = "Other"
)

var services = []Service{
	ServiceCompute, ServiceStorage, ServiceDatabase, ServiceNetworking, ServiceMonitoring,
	ServiceSecurity, ServiceAnalytics, ServiceContainers, ServiceServerless, ServiceOther,
}

// ParseService maps a free-form service name onto the enumeration; unknown names become Other.
func ParseService(s string) Service {
	trimmed := strings.TrimSpace(s)
	for _, svc := range services {
		if strings.EqualFold(trimmed, string(svc)) {
			return svc
		}
	}
	return ServiceOther
}

// Resource kinds produced by the normalizers
const (
	TypeUnknown      = "Unknown"
	TypeInstance     = "Instance"
	TypeDatabase     = "Database"
	TypeLoadBalancer = "LoadBalancer"
	TypeBucket       = "Bucket"
)

// DefaultState is used when a source carries no lifecycle state
const DefaultState = "active"

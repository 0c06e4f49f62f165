// Package config provides configuration management.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"multicloud-cost/clouds"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
	"multicloud-cost/internal/logging"
)

// EnvPrefix is the environment variable prefix (MCCOST_DISCOVERY_TIMEOUT, ...)
const EnvPrefix = "MCCOST"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `mapstructure:"version"`

	// Logging contains logging configuration
	Logging logging.Config `mapstructure:"logging"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `mapstructure:"pricing"`

	// Discovery contains live discovery settings and credentials
	Discovery DiscoveryConfig `mapstructure:"discovery"`

	// Output contains output configuration
	Output OutputConfig `mapstructure:"output"`

	// Store configures where calculation snapshots are kept
	Store StoreConfig `mapstructure:"store"`

	// IaC configures generated Terraform
	IaC IaCConfig `mapstructure:"iac"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// TablePath overrides the embedded pricing table
	TablePath string `mapstructure:"table_path"`

	// DefaultCurrency applies when a requirements document omits currency
	DefaultCurrency types.Currency `mapstructure:"default_currency"`
}

// DiscoveryConfig contains live discovery settings
type DiscoveryConfig struct {
	// Timeout bounds each provider's scan
	Timeout time.Duration `mapstructure:"timeout"`

	// Providers lists the providers to scan; empty means every configured one
	Providers []string `mapstructure:"providers"`

	clouds.Credentials `mapstructure:",squash"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Format is the default output format (cli, json)
	Format string `mapstructure:"format"`

	// NoColor disables ANSI colours
	NoColor bool `mapstructure:"no_color"`
}

// StoreConfig selects the snapshot backend
type StoreConfig struct {
	Backend   string `mapstructure:"backend"`
	Directory string `mapstructure:"directory"`
}

// IaCConfig holds the default regions written into generated provider blocks
type IaCConfig struct {
	AWSRegion     string `mapstructure:"aws_region"`
	AzureLocation string `mapstructure:"azure_location"`
	GCPRegion     string `mapstructure:"gcp_region"`
	OracleRegion  string `mapstructure:"oracle_region"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Version: "1.0",
		Logging: logging.DefaultConfig(),
		Pricing: PricingConfig{
			DefaultCurrency: types.CurrencyUSD,
		},
		Discovery: DiscoveryConfig{
			Timeout: 2 * time.Minute,
		},
		Output: OutputConfig{
			Format: "cli",
		},
		Store: StoreConfig{
			Backend:   "file",
			Directory: filepath.Join(homeDir, ".multicloud-cost", "snapshots"),
		},
		IaC: IaCConfig{
			AWSRegion:     "us-east-1",
			AzureLocation: "eastus",
			GCPRegion:     "us-central1",
			OracleRegion:  "us-phoenix-1",
		},
	}
}

// Load reads configuration from path (YAML, JSON or TOML) layered over the
// defaults and MCCOST_* environment variables. An empty or missing path
// yields the defaults plus environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Config("failed to read config file", err).WithContext("path", path)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Config("failed to decode config", err).WithContext("path", path)
	}
	if cfg.Discovery.Timeout <= 0 {
		cfg.Discovery.Timeout = 2 * time.Minute
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can bind it during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.development", d.Logging.Development)
	v.SetDefault("pricing.table_path", d.Pricing.TablePath)
	v.SetDefault("pricing.default_currency", string(d.Pricing.DefaultCurrency))
	v.SetDefault("discovery.timeout", d.Discovery.Timeout)
	v.SetDefault("discovery.providers", d.Discovery.Providers)
	for _, key := range credentialKeys {
		v.SetDefault("discovery."+key, "")
	}
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.no_color", d.Output.NoColor)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.directory", d.Store.Directory)
	v.SetDefault("iac.aws_region", d.IaC.AWSRegion)
	v.SetDefault("iac.azure_location", d.IaC.AzureLocation)
	v.SetDefault("iac.gcp_region", d.IaC.GCPRegion)
	v.SetDefault("iac.oracle_region", d.IaC.OracleRegion)
}

var credentialKeys = []string{
	"aws.region", "aws.profile", "aws.access_key_id", "aws.secret_access_key", "aws.session_token",
	"azure.tenant_id", "azure.client_id", "azure.client_secret", "azure.subscription_id",
	"gcp.project_id", "gcp.credentials_file", "gcp.zone",
	"oracle.tenancy_ocid", "oracle.user_ocid", "oracle.fingerprint", "oracle.private_key_path",
	"oracle.private_key_passphrase", "oracle.region", "oracle.compartment_ocid",
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

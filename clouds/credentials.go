package clouds

import "multicloud-cost/core/types"

// Credentials carries per-provider connection settings. Each discoverer builds
// its own client from its section; nothing is read from global SDK state.
type Credentials struct {
	AWS    AWSCredentials    `mapstructure:"aws" json:"aws"`
	Azure  AzureCredentials  `mapstructure:"azure" json:"azure"`
	GCP    GCPCredentials    `mapstructure:"gcp" json:"gcp"`
	Oracle OracleCredentials `mapstructure:"oracle" json:"oracle"`
}

// AWSCredentials configures AWS discovery. Empty keys fall back to the SDK's
// default chain (environment, shared config, instance role).
type AWSCredentials struct {
	Region          string `mapstructure:"region" json:"region"`
	Profile         string `mapstructure:"profile" json:"profile,omitempty"`
	AccessKeyID     string `mapstructure:"access_key_id" json:"-"`
	SecretAccessKey string `mapstructure:"secret_access_key" json:"-"`
	SessionToken    string `mapstructure:"session_token" json:"-"`
}

// AzureCredentials configures Azure discovery. Without a client secret the
// default Azure credential chain is used.
type AzureCredentials struct {
	TenantID       string `mapstructure:"tenant_id" json:"tenantId,omitempty"`
	ClientID       string `mapstructure:"client_id" json:"clientId,omitempty"`
	ClientSecret   string `mapstructure:"client_secret" json:"-"`
	SubscriptionID string `mapstructure:"subscription_id" json:"subscriptionId"`
}

// GCPCredentials configures GCP discovery
type GCPCredentials struct {
	ProjectID       string `mapstructure:"project_id" json:"projectId"`
	CredentialsFile string `mapstructure:"credentials_file" json:"credentialsFile,omitempty"`
	// Zone restricts discovery to one zone; empty scans every zone
	Zone string `mapstructure:"zone" json:"zone,omitempty"`
}

// OracleCredentials configures OCI discovery with API-key authentication
type OracleCredentials struct {
	TenancyOCID          string `mapstructure:"tenancy_ocid" json:"tenancyOcid"`
	UserOCID             string `mapstructure:"user_ocid" json:"userOcid"`
	Fingerprint          string `mapstructure:"fingerprint" json:"fingerprint"`
	PrivateKeyPath       string `mapstructure:"private_key_path" json:"privateKeyPath"`
	PrivateKeyPassphrase string `mapstructure:"private_key_passphrase" json:"-"`
	Region               string `mapstructure:"region" json:"region"`
	// CompartmentOCID defaults to the tenancy root compartment
	CompartmentOCID string `mapstructure:"compartment_ocid" json:"compartmentOcid,omitempty"`
}

// Compartment returns the compartment to list, defaulting to the tenancy
func (c OracleCredentials) Compartment() string {
	if c.CompartmentOCID != "" {
		return c.CompartmentOCID
	}
	return c.TenancyOCID
}

// Configured reports whether a provider section carries the settings its
// discoverer cannot do without.
func (c Credentials) Configured(p types.Provider) bool {
	switch p {
	case types.ProviderAWS:
		return true
	case types.ProviderAzure:
		return c.Azure.SubscriptionID != ""
	case types.ProviderGCP:
		return c.GCP.ProjectID != ""
	case types.ProviderOracle:
		o := c.Oracle
		return o.TenancyOCID != "" && o.UserOCID != "" && o.Fingerprint != "" && o.PrivateKeyPath != "" && o.Region != ""
	}
	return false
}

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"multicloud-cost/internal/errors"
)

// InfrastructureRequirements is the aggregate sizing document the pricing
// engine consumes. Every section is present; an all-zero section costs nothing.
type InfrastructureRequirements struct {
	Currency       Currency                   `json:"currency" validate:"oneof=USD INR EUR KWD"`
	Licensing      LicensingRequirements      `json:"licensing"`
	Compute        ComputeRequirements        `json:"compute"`
	Storage        StorageRequirements        `json:"storage"`
	Database       DatabaseRequirements       `json:"database"`
	Networking     NetworkingRequirements     `json:"networking"`
	Analytics      AnalyticsRequirements      `json:"analytics"`
	AI             AIRequirements             `json:"ai"`
	Security       SecurityRequirements       `json:"security"`
	Monitoring     MonitoringRequirements     `json:"monitoring"`
	DevOps         DevOpsRequirements         `json:"devops"`
	Backup         BackupRequirements         `json:"backup"`
	IoT            IoTRequirements            `json:"iot"`
	Media          MediaRequirements          `json:"media"`
	Quantum        QuantumRequirements        `json:"quantum"`
	AdvancedAI     AdvancedAIRequirements     `json:"advancedAI"`
	Edge           EdgeRequirements           `json:"edge"`
	Confidential   ConfidentialRequirements   `json:"confidential"`
	Sustainability SustainabilityRequirements `json:"sustainability"`
	Scenarios      ScenarioRequirements       `json:"scenarios"`
	Optimization   OptimizationRequirements   `json:"optimization"`
}

// License is a per-product license count
type License struct {
	Enabled  bool    `json:"enabled"`
	Licenses float64 `json:"licenses" validate:"gte=0,lte=1000"`
}

// SQLServerLicense is priced per core by edition
type SQLServerLicense struct {
	Enabled  bool    `json:"enabled"`
	Edition  string  `json:"edition" validate:"oneof=express standard enterprise"`
	Licenses float64 `json:"licenses" validate:"gte=0,lte=1000"`
}

// OracleLicense is priced per processor by edition
type OracleLicense struct {
	Enabled  bool    `json:"enabled"`
	Edition  string  `json:"edition" validate:"oneof=standard enterprise"`
	Licenses float64 `json:"licenses" validate:"gte=0,lte=1000"`
}

type LicensingRequirements struct {
	Windows   License          `json:"windows"`
	SQLServer SQLServerLicense `json:"sqlServer"`
	Oracle    OracleLicense    `json:"oracle"`
	VMware    License          `json:"vmware"`
	RedHat    License          `json:"redhat"`
	SAP       License          `json:"sap"`
	Office365 struct {
		Enabled  bool    `json:"enabled"`
		Licenses float64 `json:"licenses" validate:"gte=0,lte=10000"`
	} `json:"microsoftOffice365"`
}

type BootVolume struct {
	Size float64 `json:"size" validate:"omitempty,gte=8,lte=65536"`
	Type string  `json:"type" validate:"oneof=ssd-gp3 ssd-gp2 ssd-io2 hdd-standard"`
	IOPS float64 `json:"iops" validate:"gte=100,lte=16000"`
}

type Serverless struct {
	Functions     float64 `json:"functions" validate:"gte=0,lte=1000000"`
	ExecutionTime float64 `json:"executionTime" validate:"gte=0,lte=15"`
}

type ComputeRequirements struct {
	VCPUs           float64    `json:"vcpus" validate:"gte=0,lte=65536"`
	RAM             float64    `json:"ram" validate:"gte=0,lte=262144"`
	InstanceType    string     `json:"instanceType" validate:"oneof=general-purpose compute-optimized memory-optimized storage-optimized"`
	Region          string     `json:"region" validate:"required"`
	OperatingSystem string     `json:"operatingSystem" validate:"oneof=linux windows"`
	BootVolume      BootVolume `json:"bootVolume"`
	Serverless      Serverless `json:"serverless"`
}

type ObjectStorage struct {
	Size     float64 `json:"size" validate:"gte=0,lte=1000000"`
	Tier     string  `json:"tier" validate:"oneof=standard infrequent-access glacier deep-archive"`
	Requests float64 `json:"requests" validate:"gte=0,lte=10000000"`
}

type BlockStorage struct {
	Size float64 `json:"size" validate:"gte=0,lte=1000000"`
	Type string  `json:"type" validate:"oneof=ssd-gp3 ssd-io2 hdd-st1"`
	IOPS float64 `json:"iops" validate:"gte=100,lte=100000"`
}

type FileStorage struct {
	Size            float64 `json:"size" validate:"gte=0,lte=1000000"`
	PerformanceMode string  `json:"performanceMode" validate:"oneof=general-purpose max-io"`
}

type StorageRequirements struct {
	ObjectStorage ObjectStorage `json:"objectStorage"`
	BlockStorage  BlockStorage  `json:"blockStorage"`
	FileStorage   FileStorage   `json:"fileStorage"`
}

type RelationalDatabase struct {
	Engine        string  `json:"engine" validate:"oneof=mysql postgresql oracle sql-server mariadb"`
	InstanceClass string  `json:"instanceClass" validate:"oneof=micro small medium large xlarge"`
	Storage       float64 `json:"storage" validate:"gte=0,lte=100000"`
	MultiAZ       bool    `json:"multiAZ"`
}

type NoSQLDatabase struct {
	Engine        string  `json:"engine" validate:"oneof=dynamodb mongodb cassandra none"`
	ReadCapacity  float64 `json:"readCapacity" validate:"gte=0,lte=40000"`
	WriteCapacity float64 `json:"writeCapacity" validate:"gte=0,lte=40000"`
	Storage       float64 `json:"storage" validate:"gte=0,lte=10000"`
}

type CacheCluster struct {
	Engine        string  `json:"engine" validate:"oneof=redis memcached none"`
	InstanceClass string  `json:"instanceClass" validate:"oneof=micro small medium large"`
	Nodes         float64 `json:"nodes" validate:"gte=0,lte=100"`
}

type DataWarehouse struct {
	Nodes    float64 `json:"nodes" validate:"gte=0,lte=100"`
	NodeType string  `json:"nodeType" validate:"oneof=small medium large xlarge"`
	Storage  float64 `json:"storage" validate:"gte=0,lte=100000"`
}

type DatabaseRequirements struct {
	Relational    RelationalDatabase `json:"relational"`
	NoSQL         NoSQLDatabase      `json:"nosql"`
	Cache         CacheCluster       `json:"cache"`
	DataWarehouse DataWarehouse      `json:"dataWarehouse"`
}

type CDN struct {
	Enabled      bool    `json:"enabled"`
	Requests     float64 `json:"requests" validate:"gte=0,lte=10000000"`
	DataTransfer float64 `json:"dataTransfer" validate:"gte=0,lte=100000"`
}

type DNS struct {
	HostedZones float64 `json:"hostedZones" validate:"gte=0,lte=100"`
	Queries     float64 `json:"queries" validate:"gte=0,lte=100000000"`
}

type VPN struct {
	Connections float64 `json:"connections" validate:"gte=0,lte=100"`
	Hours       float64 `json:"hours" validate:"gte=0,lte=8760"`
}

type NetworkingRequirements struct {
	Bandwidth    float64 `json:"bandwidth" validate:"gte=0,lte=100000"`
	LoadBalancer string  `json:"loadBalancer" validate:"oneof=none application network"`
	CDN          CDN     `json:"cdn"`
	DNS          DNS     `json:"dns"`
	VPN          VPN     `json:"vpn"`
}

type AnalyticsRequirements struct {
	DataProcessing struct {
		Hours    float64 `json:"hours" validate:"gte=0,lte=10000"`
		NodeType string  `json:"nodeType" validate:"oneof=small medium large xlarge"`
	} `json:"dataProcessing"`
	Streaming struct {
		Shards  float64 `json:"shards" validate:"gte=0,lte=1000"`
		Records float64 `json:"records" validate:"gte=0,lte=1000000000"`
	} `json:"streaming"`
	BusinessIntelligence struct {
		Users   float64 `json:"users" validate:"gte=0,lte=10000"`
		Queries float64 `json:"queries" validate:"gte=0,lte=1000000"`
	} `json:"businessIntelligence"`
}

type AIRequirements struct {
	Training struct {
		Hours        float64 `json:"hours" validate:"gte=0,lte=10000"`
		InstanceType string  `json:"instanceType" validate:"oneof=cpu gpu-small gpu-large"`
	} `json:"training"`
	Inference struct {
		Requests     float64 `json:"requests" validate:"gte=0,lte=10000000"`
		InstanceType string  `json:"instanceType" validate:"oneof=cpu gpu-small gpu-large"`
	} `json:"inference"`
	Prebuilt struct {
		ImageAnalysis  float64 `json:"imageAnalysis" validate:"gte=0,lte=1000000"`
		TextProcessing float64 `json:"textProcessing" validate:"gte=0,lte=10000000"`
		SpeechServices float64 `json:"speechServices" validate:"gte=0,lte=1000000"`
	} `json:"prebuilt"`
}

type SecurityRequirements struct {
	WebFirewall struct {
		Enabled  bool    `json:"enabled"`
		Requests float64 `json:"requests" validate:"gte=0,lte=1000000000"`
	} `json:"webFirewall"`
	IdentityManagement struct {
		Users           float64 `json:"users" validate:"gte=0,lte=1000000"`
		Authentications float64 `json:"authentications" validate:"gte=0,lte=10000000"`
	} `json:"identityManagement"`
	KeyManagement struct {
		Keys       float64 `json:"keys" validate:"gte=0,lte=100000"`
		Operations float64 `json:"operations" validate:"gte=0,lte=10000000"`
	} `json:"keyManagement"`
	ThreatDetection struct {
		Enabled bool    `json:"enabled"`
		Events  float64 `json:"events" validate:"gte=0,lte=10000000"`
	} `json:"threatDetection"`
}

type MonitoringRequirements struct {
	Metrics float64 `json:"metrics" validate:"gte=0,lte=1000000"`
	Logs    float64 `json:"logs" validate:"gte=0,lte=1000"`
	Traces  float64 `json:"traces" validate:"gte=0,lte=10000000"`
	Alerts  float64 `json:"alerts" validate:"gte=0,lte=10000"`
}

type DevOpsRequirements struct {
	CICD struct {
		BuildMinutes float64 `json:"buildMinutes" validate:"gte=0,lte=100000"`
		ParallelJobs float64 `json:"parallelJobs" validate:"gte=0,lte=100"`
	} `json:"cicd"`
	ContainerRegistry struct {
		Storage float64 `json:"storage" validate:"gte=0,lte=10000"`
		Pulls   float64 `json:"pulls" validate:"gte=0,lte=1000000"`
	} `json:"containerRegistry"`
	APIManagement struct {
		Requests  float64 `json:"requests" validate:"gte=0,lte=1000000000"`
		Endpoints float64 `json:"endpoints" validate:"gte=0,lte=10000"`
	} `json:"apiManagement"`
}

type BackupRequirements struct {
	Storage   float64 `json:"storage" validate:"gte=0,lte=100000"`
	Frequency string  `json:"frequency" validate:"oneof=daily weekly monthly"`
	Retention float64 `json:"retention" validate:"gte=7,lte=2555"`
}

type IoTRequirements struct {
	Devices        float64 `json:"devices" validate:"gte=0,lte=1000000"`
	Messages       float64 `json:"messages" validate:"gte=0,lte=1000000000"`
	DataProcessing float64 `json:"dataProcessing" validate:"gte=0,lte=100000"`
	EdgeLocations  float64 `json:"edgeLocations" validate:"gte=0,lte=1000"`
}

type MediaRequirements struct {
	VideoStreaming struct {
		Hours   float64 `json:"hours" validate:"gte=0,lte=100000"`
		Quality string  `json:"quality" validate:"oneof=720p 1080p 4k"`
	} `json:"videoStreaming"`
	Transcoding struct {
		Minutes     float64 `json:"minutes" validate:"gte=0,lte=100000"`
		InputFormat string  `json:"inputFormat" validate:"oneof=standard hd 4k"`
	} `json:"transcoding"`
}

type QuantumRequirements struct {
	ProcessingUnits   float64 `json:"processingUnits" validate:"gte=0,lte=1000"`
	QuantumAlgorithms string  `json:"quantumAlgorithms" validate:"oneof=optimization simulation cryptography ml"`
	CircuitComplexity string  `json:"circuitComplexity" validate:"oneof=basic intermediate advanced"`
}

type AdvancedAIRequirements struct {
	VectorDatabase struct {
		Dimensions float64 `json:"dimensions" validate:"gte=0,lte=10000000"`
		Queries    float64 `json:"queries" validate:"gte=0,lte=100000000"`
	} `json:"vectorDatabase"`
	CustomChips struct {
		TPUHours       float64 `json:"tpuHours" validate:"gte=0,lte=100000"`
		InferenceChips float64 `json:"inferenceChips" validate:"gte=0,lte=100000"`
	} `json:"customChips"`
	ModelHosting struct {
		Models   float64 `json:"models" validate:"gte=0,lte=1000"`
		Requests float64 `json:"requests" validate:"gte=0,lte=1000000000"`
	} `json:"modelHosting"`
	RAGPipelines struct {
		Documents  float64 `json:"documents" validate:"gte=0,lte=10000000"`
		Embeddings float64 `json:"embeddings" validate:"gte=0,lte=100000000"`
	} `json:"ragPipelines"`
}

type EdgeRequirements struct {
	EdgeLocations   float64 `json:"edgeLocations" validate:"gte=0,lte=10000"`
	EdgeCompute     float64 `json:"edgeCompute" validate:"gte=0,lte=100000"`
	FiveGNetworking struct {
		NetworkSlices   float64 `json:"networkSlices" validate:"gte=0,lte=1000"`
		PrivateNetworks float64 `json:"privateNetworks" validate:"gte=0,lte=100"`
	} `json:"fiveGNetworking"`
	RealTimeProcessing float64 `json:"realTimeProcessing" validate:"gte=0,lte=1000000"`
}

type ConfidentialRequirements struct {
	SecureEnclaves             float64 `json:"secureEnclaves" validate:"gte=0,lte=10000"`
	TrustedExecution           float64 `json:"trustedExecution" validate:"gte=0,lte=100000"`
	PrivacyPreservingAnalytics float64 `json:"privacyPreservingAnalytics" validate:"gte=0,lte=1000000"`
	ZeroTrustProcessing        float64 `json:"zeroTrustProcessing" validate:"gte=0,lte=100000"`
}

type SustainabilityRequirements struct {
	CarbonFootprintTracking   bool    `json:"carbonFootprintTracking"`
	RenewableEnergyPreference bool    `json:"renewableEnergyPreference"`
	GreenCloudOptimization    bool    `json:"greenCloudOptimization"`
	CarbonOffsetCredits       float64 `json:"carbonOffsetCredits" validate:"gte=0,lte=100000"`
}

type DisasterRecovery struct {
	Enabled       bool    `json:"enabled"`
	RTOHours      float64 `json:"rtoHours" validate:"gte=1,lte=168"`
	RPOMinutes    float64 `json:"rpoMinutes" validate:"gte=15,lte=1440"`
	BackupRegions float64 `json:"backupRegions" validate:"gte=1,lte=10"`
}

type Compliance struct {
	Frameworks    []string `json:"frameworks" validate:"dive,oneof=gdpr hipaa sox pci iso27001"`
	AuditLogging  bool     `json:"auditLogging"`
	DataResidency string   `json:"dataResidency" validate:"oneof=us eu asia global"`
}

type Migration struct {
	SourceProvider        string  `json:"sourceProvider,omitempty" validate:"omitempty,oneof=aws azure gcp oracle on-premise"`
	DataToMigrate         float64 `json:"dataToMigrate" validate:"gte=0,lte=1000000"`
	ApplicationComplexity string  `json:"applicationComplexity" validate:"oneof=simple moderate complex"`
}

type ScenarioRequirements struct {
	DisasterRecovery DisasterRecovery `json:"disasterRecovery"`
	Compliance       Compliance       `json:"compliance"`
	Migration        Migration        `json:"migration"`
}

type CostAlerts struct {
	Enabled                bool    `json:"enabled"`
	ThresholdPercent       float64 `json:"thresholdPercent" validate:"gte=5,lte=100"`
	NotificationPreference string  `json:"notificationPreference" validate:"oneof=email slack webhook"`
}

type OptimizationRequirements struct {
	ReservedInstanceStrategy string     `json:"reservedInstanceStrategy" validate:"oneof=none conservative moderate aggressive"`
	SpotInstanceTolerance    float64    `json:"spotInstanceTolerance" validate:"gte=0,lte=100"`
	AutoScalingAggression    string     `json:"autoScalingAggression" validate:"oneof=none minimal moderate aggressive"`
	CostAlerts               CostAlerts `json:"costAlerts"`
}

// DefaultRequirements returns a valid document in which every cost-bearing
// quantity is zero and every lever is off.
func DefaultRequirements() InfrastructureRequirements {
	var r InfrastructureRequirements
	r.Currency = CurrencyUSD

	r.Licensing.SQLServer.Edition = "standard"
	r.Licensing.Oracle.Edition = "standard"

	r.Compute.InstanceType = "general-purpose"
	r.Compute.Region = "us-east-1"
	r.Compute.OperatingSystem = "linux"
	r.Compute.BootVolume = BootVolume{Type: "ssd-gp3", IOPS: 3000}
	r.Compute.Serverless.ExecutionTime = 1

	r.Storage.ObjectStorage = ObjectStorage{Tier: "standard", Requests: 10000}
	r.Storage.BlockStorage = BlockStorage{Type: "ssd-gp3", IOPS: 3000}
	r.Storage.FileStorage.PerformanceMode = "general-purpose"

	r.Database.Relational = RelationalDatabase{Engine: "mysql", InstanceClass: "small"}
	r.Database.NoSQL.Engine = "none"
	r.Database.Cache = CacheCluster{Engine: "none", InstanceClass: "small"}
	r.Database.DataWarehouse.NodeType = "small"

	r.Networking.LoadBalancer = "none"

	r.Analytics.DataProcessing.NodeType = "small"
	r.AI.Training.InstanceType = "cpu"
	r.AI.Inference.InstanceType = "cpu"

	r.Backup.Frequency = "daily"
	r.Backup.Retention = 30

	r.Media.VideoStreaming.Quality = "1080p"
	r.Media.Transcoding.InputFormat = "standard"

	r.Quantum.QuantumAlgorithms = "optimization"
	r.Quantum.CircuitComplexity = "basic"

	r.Scenarios.DisasterRecovery = DisasterRecovery{RTOHours: 24, RPOMinutes: 240, BackupRegions: 1}
	r.Scenarios.Compliance = Compliance{Frameworks: []string{}, DataResidency: "global"}
	r.Scenarios.Migration.ApplicationComplexity = "moderate"

	r.Optimization = OptimizationRequirements{
		ReservedInstanceStrategy: "none",
		AutoScalingAggression:    "none",
		CostAlerts: CostAlerts{
			Enabled:                true,
			ThresholdPercent:       20,
			NotificationPreference: "email",
		},
	}
	return r
}

// ParseRequirements decodes a JSON document over DefaultRequirements and
// validates the result. Sections or fields absent from data keep their defaults.
func ParseRequirements(data []byte) (InfrastructureRequirements, error) {
	req := DefaultRequirements()
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&req); err != nil {
		return InfrastructureRequirements{}, errors.Wrap(errors.TypeInput, "malformed requirements document", err)
	}
	if err := req.Validate(); err != nil {
		return InfrastructureRequirements{}, err
	}
	return req, nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func requirementsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(JSONFieldName)
	})
	return validate
}

// Validate checks every range and enumeration. All violations are reported
// together as one INPUT_ERROR wrapping a multierror.
func (r InfrastructureRequirements) Validate() error {
	err := requirementsValidator().Struct(r)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Internal("requirements validation failed", err)
	}

	problems := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, errors.Newf(errors.TypeInput, "%s: %s", trimRoot(fe.Namespace()), describe(fe)))
	}
	return errors.Wrap(errors.TypeInput, fmt.Sprintf("invalid requirements (%d violations)", len(problems)), errors.Collect(problems...))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "required":
		return "is required"
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}

// JSONFieldName names struct fields by their json tag in validation errors
func JSONFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// trimRoot drops the struct name from "InfrastructureRequirements.compute.vcpus".
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

package pricing

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

const (
	hoursPerMonth        = 720
	io2IncludedIOPS      = 3000
	backupRegionFraction = 0.5
	complianceBase       = 1000
	auditLogGB           = 100
	drDefaultKey         = "default"
)

var (
	one = decimal.NewFromInt(1)

	// boot volume types map onto the block storage price list
	bootVolumeTypes = map[string]string{
		"ssd-gp3":      "ssd-gp3",
		"ssd-gp2":      "ssd-gp3",
		"ssd-io2":      "ssd-io2",
		"hdd-standard": "hdd-st1",
	}
)

func num(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// per divides a quantity into billing units, e.g. per(requests, 1e6)
func per(quantity float64, unit int64) decimal.Decimal {
	return num(quantity).Div(decimal.NewFromInt(unit))
}

// calculator prices one provider. The first missing key is kept in err and
// every later lookup returns zero, so callers check err once at the end.
type calculator struct {
	table    *Table
	provider types.Provider
	req      *types.InfrastructureRequirements
	region   decimal.Decimal
	err      *errors.Error
}

func newCalculator(t *Table, p types.Provider, req *types.InfrastructureRequirements) *calculator {
	return &calculator{
		table:    t,
		provider: p,
		req:      req,
		region:   t.RegionMultiplier(req.Compute.Region),
	}
}

func (c *calculator) rate(cat types.Category, path ...string) decimal.Decimal {
	if c.err != nil {
		return decimal.Zero
	}
	full := append([]string{string(cat), string(c.provider)}, path...)
	v, err := c.table.rate(full)
	if err != nil {
		c.err = err.WithContext("provider", string(c.provider)).WithContext("category", string(cat))
		return decimal.Zero
	}
	return v
}

// multiplier looks up an exact key, then the "default" entry
func (c *calculator) multiplier(cat types.Category, table string, value float64) decimal.Decimal {
	key := strconv.FormatFloat(value, 'f', -1, 64)
	full := []string{string(cat), string(c.provider), table}
	if _, ok := c.table.lookup(append(full, key)); ok {
		return c.rate(cat, table, key)
	}
	return c.rate(cat, table, drDefaultKey)
}

func (c *calculator) category(cat types.Category) decimal.Decimal {
	switch cat {
	case types.CategoryCompute:
		return c.compute()
	case types.CategoryStorage:
		return c.storage()
	case types.CategoryDatabase:
		return c.database()
	case types.CategoryNetworking:
		return c.networking()
	case types.CategoryAnalytics:
		return c.analytics()
	case types.CategoryAI:
		return c.ai()
	case types.CategorySecurity:
		return c.security()
	case types.CategoryMonitoring:
		return c.monitoring()
	case types.CategoryDevOps:
		return c.devops()
	case types.CategoryBackup:
		return c.backup()
	case types.CategoryIoT:
		return c.iot()
	case types.CategoryMedia:
		return c.media()
	case types.CategoryQuantum:
		return c.quantum()
	case types.CategoryAdvancedAI:
		return c.advancedAI()
	case types.CategoryEdge:
		return c.edge()
	case types.CategoryConfidential:
		return c.confidential()
	case types.CategorySustainability:
		return c.sustainability()
	case types.CategoryScenarios:
		return c.scenarios()
	}
	return decimal.Zero
}

func (c *calculator) compute() decimal.Decimal {
	const cat = types.CategoryCompute
	cr := c.req.Compute

	hourly := num(cr.VCPUs).Mul(c.rate(cat, cr.InstanceType, "vcpu")).
		Add(num(cr.RAM).Mul(c.rate(cat, cr.InstanceType, "ram")))
	total := hourly.Mul(decimal.NewFromInt(hoursPerMonth))
	if cr.OperatingSystem == "windows" {
		total = total.Mul(c.rate(cat, "windows_multiplier"))
	}

	if bv := cr.BootVolume; bv.Size > 0 {
		blockType := bootVolumeTypes[bv.Type]
		total = total.Add(num(bv.Size).Mul(c.rate(types.CategoryStorage, "block", blockType)))
		if blockType == "ssd-io2" && bv.IOPS > io2IncludedIOPS {
			total = total.Add(num(bv.IOPS - io2IncludedIOPS).Mul(c.rate(types.CategoryStorage, "block", "iops")))
		}
	}

	if fn := cr.Serverless; fn.Functions > 0 {
		total = total.Add(num(fn.Functions).Mul(c.rate(cat, "serverless_per_request"))).
			Add(num(fn.Functions * fn.ExecutionTime).Mul(c.rate(cat, "serverless_per_gb_second")))
	}
	return total.Mul(c.region)
}

func (c *calculator) storage() decimal.Decimal {
	const cat = types.CategoryStorage
	s := c.req.Storage
	total := decimal.Zero

	if obj := s.ObjectStorage; obj.Size > 0 {
		total = total.Add(num(obj.Size).Mul(c.rate(cat, "object", obj.Tier))).
			Add(per(obj.Requests, 1000).Mul(c.rate(cat, "object", "requests_per_1k", "get")))
	}
	if blk := s.BlockStorage; blk.Size > 0 {
		total = total.Add(num(blk.Size).Mul(c.rate(cat, "block", blk.Type))).
			Add(num(blk.IOPS).Mul(c.rate(cat, "block", "iops")))
	}
	if fs := s.FileStorage; fs.Size > 0 {
		total = total.Add(num(fs.Size).Mul(c.rate(cat, "file", fs.PerformanceMode)))
	}
	return total
}

func (c *calculator) database() decimal.Decimal {
	const cat = types.CategoryDatabase
	db := c.req.Database
	total := decimal.Zero

	if rel := db.Relational; rel.Storage > 0 {
		instance := c.rate(cat, "relational", rel.Engine, rel.InstanceClass)
		if rel.MultiAZ {
			instance = instance.Mul(c.rate(cat, "relational", "multi_az_multiplier"))
		}
		total = total.Add(instance).
			Add(num(rel.Storage).Mul(c.rate(cat, "relational", "storage_per_gb")))
	}

	switch nosql := db.NoSQL; nosql.Engine {
	case "none", "":
	case "dynamodb":
		total = total.Add(num(nosql.ReadCapacity).Mul(c.rate(cat, "nosql", "dynamodb", "read_capacity_unit"))).
			Add(num(nosql.WriteCapacity).Mul(c.rate(cat, "nosql", "dynamodb", "write_capacity_unit"))).
			Add(num(nosql.Storage).Mul(c.rate(cat, "nosql", "dynamodb", "storage_per_gb")))
	default:
		total = total.Add(c.rate(cat, "nosql", nosql.Engine, "small"))
	}

	if cache := db.Cache; cache.Engine != "none" && cache.Engine != "" && cache.Nodes > 0 {
		total = total.Add(num(cache.Nodes).Mul(c.rate(cat, "cache", cache.Engine, cache.InstanceClass)))
	}

	if dw := db.DataWarehouse; dw.Nodes > 0 {
		total = total.Add(num(dw.Nodes).Mul(c.rate(cat, "warehouse", dw.NodeType))).
			Add(num(dw.Storage).Mul(c.rate(cat, "warehouse", "storage_per_gb")))
	}
	return total.Mul(c.region)
}

func (c *calculator) networking() decimal.Decimal {
	const cat = types.CategoryNetworking
	n := c.req.Networking

	total := num(n.Bandwidth).Mul(c.rate(cat, "bandwidth")).
		Add(c.rate(cat, "load_balancer", n.LoadBalancer))
	if cdn := n.CDN; cdn.Enabled && cdn.Requests > 0 {
		total = total.Add(per(cdn.Requests, 10000).Mul(c.rate(cat, "cdn", "requests_per_10k"))).
			Add(num(cdn.DataTransfer).Mul(c.rate(cat, "cdn", "data_transfer_per_gb")))
	}
	if dns := n.DNS; dns.HostedZones > 0 {
		total = total.Add(num(dns.HostedZones).Mul(c.rate(cat, "dns", "hosted_zone"))).
			Add(per(dns.Queries, 1e6).Mul(c.rate(cat, "dns", "queries_per_million")))
	}
	if vpn := n.VPN; vpn.Connections > 0 {
		total = total.Add(num(vpn.Connections * vpn.Hours).Mul(c.rate(cat, "vpn", "connection_hour")))
	}
	return total
}

func (c *calculator) analytics() decimal.Decimal {
	const cat = types.CategoryAnalytics
	a := c.req.Analytics

	total := num(a.DataProcessing.Hours).Mul(c.rate(cat, "data_processing", a.DataProcessing.NodeType)).
		Add(num(a.Streaming.Shards * hoursPerMonth).Mul(c.rate(cat, "streaming", "shard_hour"))).
		Add(per(a.Streaming.Records, 1e6).Mul(c.rate(cat, "streaming", "record_per_million"))).
		Add(num(a.BusinessIntelligence.Users).Mul(c.rate(cat, "business_intelligence", "user_per_month"))).
		Add(per(a.BusinessIntelligence.Queries, 1000).Mul(c.rate(cat, "business_intelligence", "query_per_1k")))
	return total.Mul(c.region)
}

func (c *calculator) ai() decimal.Decimal {
	const cat = types.CategoryAI
	a := c.req.AI

	total := num(a.Training.Hours).Mul(c.rate(cat, "training", a.Training.InstanceType)).
		Add(num(a.Inference.Requests).Mul(c.rate(cat, "inference", a.Inference.InstanceType))).
		Add(per(a.Prebuilt.ImageAnalysis, 1000).Mul(c.rate(cat, "prebuilt", "image_analysis_per_1k"))).
		Add(per(a.Prebuilt.TextProcessing, 1e6).Mul(c.rate(cat, "prebuilt", "text_processing_per_million_chars"))).
		Add(per(a.Prebuilt.SpeechServices, 1000).Mul(c.rate(cat, "prebuilt", "speech_per_1k_requests")))
	return total.Mul(c.region)
}

func (c *calculator) security() decimal.Decimal {
	const cat = types.CategorySecurity
	s := c.req.Security
	total := decimal.Zero

	if s.WebFirewall.Enabled {
		total = total.Add(per(s.WebFirewall.Requests, 1e6).Mul(c.rate(cat, "web_firewall_per_million")))
	}
	total = total.
		Add(num(s.IdentityManagement.Users).Mul(c.rate(cat, "identity_per_user"))).
		Add(num(s.IdentityManagement.Authentications).Mul(c.rate(cat, "identity_per_auth"))).
		Add(num(s.KeyManagement.Keys).Mul(c.rate(cat, "key_per_key"))).
		Add(per(s.KeyManagement.Operations, 10000).Mul(c.rate(cat, "key_per_10k_operations")))
	if s.ThreatDetection.Enabled {
		total = total.Add(c.rate(cat, "threat_detection")).
			Add(per(s.ThreatDetection.Events, 1e6).Mul(c.rate(cat, "threat_per_million_events")))
	}
	return total.Mul(c.region)
}

func (c *calculator) monitoring() decimal.Decimal {
	const cat = types.CategoryMonitoring
	m := c.req.Monitoring

	total := num(m.Metrics).Mul(c.rate(cat, "custom_metric")).
		Add(num(m.Logs).Mul(c.rate(cat, "log_ingestion_per_gb"))).
		Add(per(m.Traces, 1e6).Mul(c.rate(cat, "traces_per_million"))).
		Add(num(m.Alerts).Mul(c.rate(cat, "alert_per_notification")))
	return total.Mul(c.region)
}

func (c *calculator) devops() decimal.Decimal {
	const cat = types.CategoryDevOps
	d := c.req.DevOps
	total := decimal.Zero

	if d.CICD.BuildMinutes > 0 {
		total = total.Add(num(d.CICD.BuildMinutes).Mul(c.rate(cat, "build_per_minute"))).
			Add(num(d.CICD.ParallelJobs).Mul(c.rate(cat, "parallel_job")))
	}
	if d.ContainerRegistry.Storage > 0 {
		total = total.Add(num(d.ContainerRegistry.Storage).Mul(c.rate(cat, "container_registry_per_gb"))).
			Add(per(d.ContainerRegistry.Pulls, 1000).Mul(c.rate(cat, "container_pulls_per_1k")))
	}
	if d.APIManagement.Requests > 0 {
		total = total.Add(per(d.APIManagement.Requests, 1e6).Mul(c.rate(cat, "api_requests_per_million"))).
			Add(num(d.APIManagement.Endpoints).Mul(c.rate(cat, "api_endpoint")))
	}
	return total.Mul(c.region)
}

func (c *calculator) backup() decimal.Decimal {
	const cat = types.CategoryBackup
	b := c.req.Backup
	if b.Storage <= 0 {
		return decimal.Zero
	}
	return num(b.Storage).
		Mul(c.rate(cat, "storage_per_gb")).
		Mul(c.rate(cat, "frequency_multiplier", b.Frequency))
}

func (c *calculator) iot() decimal.Decimal {
	const cat = types.CategoryIoT
	i := c.req.IoT

	total := num(i.Devices).Mul(c.rate(cat, "device_per_month")).
		Add(per(i.Messages, 1e6).Mul(c.rate(cat, "message_per_million"))).
		Add(num(i.DataProcessing).Mul(c.rate(cat, "data_processing_per_gb"))).
		Add(num(i.EdgeLocations).Mul(c.rate(cat, "edge_location")))
	return total.Mul(c.region)
}

func (c *calculator) media() decimal.Decimal {
	const cat = types.CategoryMedia
	m := c.req.Media

	total := num(m.VideoStreaming.Hours).Mul(c.rate(cat, "streaming_per_hour", m.VideoStreaming.Quality)).
		Add(num(m.Transcoding.Minutes).Mul(c.rate(cat, "transcoding_per_minute", m.Transcoding.InputFormat)))
	return total.Mul(c.region)
}

func (c *calculator) quantum() decimal.Decimal {
	const cat = types.CategoryQuantum
	q := c.req.Quantum
	units := num(q.ProcessingUnits)

	total := units.Mul(c.rate(cat, "qpu_hour")).Mul(c.rate(cat, "algorithm_complexity", q.CircuitComplexity)).
		Add(units.Mul(c.rate(cat, "circuit_optimization")))
	return total.Mul(c.region)
}

func (c *calculator) advancedAI() decimal.Decimal {
	const cat = types.CategoryAdvancedAI
	a := c.req.AdvancedAI

	total := per(a.VectorDatabase.Dimensions, 1e6).Mul(c.rate(cat, "vector_db_per_million_dims")).
		Add(per(a.VectorDatabase.Queries, 1e6).Mul(c.rate(cat, "vector_queries_per_million"))).
		Add(num(a.CustomChips.TPUHours).Mul(c.rate(cat, "tpu_per_hour"))).
		Add(num(a.CustomChips.InferenceChips).Mul(c.rate(cat, "inference_chips_per_hour"))).
		Add(num(a.ModelHosting.Models).Mul(c.rate(cat, "model_hosting_per_model"))).
		Add(per(a.ModelHosting.Requests, 1e6).Mul(c.rate(cat, "inference_per_million_requests"))).
		Add(per(a.RAGPipelines.Documents, 1000).Mul(c.rate(cat, "document_processing_per_1k"))).
		Add(per(a.RAGPipelines.Embeddings, 1e6).Mul(c.rate(cat, "embeddings_per_million")))
	return total.Mul(c.region)
}

func (c *calculator) edge() decimal.Decimal {
	const cat = types.CategoryEdge
	e := c.req.Edge

	total := num(e.EdgeLocations).Mul(c.rate(cat, "edge_location")).
		Add(num(e.EdgeCompute).Mul(c.rate(cat, "edge_compute_per_hour"))).
		Add(num(e.FiveGNetworking.NetworkSlices).Mul(c.rate(cat, "5g_network_slice"))).
		Add(num(e.FiveGNetworking.PrivateNetworks).Mul(c.rate(cat, "private_5g_network"))).
		Add(per(e.RealTimeProcessing, 1e6).Mul(c.rate(cat, "realtime_events_per_million")))
	return total.Mul(c.region)
}

func (c *calculator) confidential() decimal.Decimal {
	const cat = types.CategoryConfidential
	cc := c.req.Confidential

	total := num(cc.SecureEnclaves).Mul(c.rate(cat, "secure_enclave_per_hour")).
		Add(num(cc.TrustedExecution).Mul(c.rate(cat, "trusted_execution_per_hour"))).
		Add(per(cc.PrivacyPreservingAnalytics, 1e6).Mul(c.rate(cat, "privacy_operations_per_million"))).
		Add(num(cc.ZeroTrustProcessing).Mul(c.rate(cat, "zero_trust_per_gb")))
	return total.Mul(c.region)
}

func (c *calculator) sustainability() decimal.Decimal {
	const cat = types.CategorySustainability
	s := c.req.Sustainability
	total := decimal.Zero

	if s.CarbonFootprintTracking {
		total = total.Add(c.rate(cat, "carbon_tracking"))
	}
	return total.Add(num(s.CarbonOffsetCredits).Mul(c.rate(cat, "carbon_offset_per_ton")))
}

func (c *calculator) scenarios() decimal.Decimal {
	const cat = types.CategoryScenarios
	sc := c.req.Scenarios
	total := decimal.Zero

	if dr := sc.DisasterRecovery; dr.Enabled {
		base := c.rate(cat, "disaster_recovery_base")
		total = total.Add(base.
			Mul(c.multiplier(cat, "dr_rto_multiplier", dr.RTOHours)).
			Mul(c.multiplier(cat, "dr_rpo_multiplier", dr.RPOMinutes)))
		if extra := dr.BackupRegions - 1; extra > 0 {
			total = total.Add(num(extra).Mul(base).Mul(num(backupRegionFraction)))
		}
	}

	for _, fw := range sc.Compliance.Frameworks {
		total = total.Add(decimal.NewFromInt(complianceBase).Mul(c.rate(cat, "compliance_premiums", fw)))
	}
	if sc.Compliance.AuditLogging {
		total = total.Add(decimal.NewFromInt(auditLogGB).Mul(c.rate(cat, "audit_logging_per_gb")))
	}
	total = total.Mul(c.rate(cat, "data_residency_premium", sc.Compliance.DataResidency))

	if m := sc.Migration; m.DataToMigrate > 0 {
		total = total.
			Add(c.rate(cat, "migration_base_cost")).
			Add(num(m.DataToMigrate).Mul(c.rate(cat, "migration_per_tb"))).
			Mul(c.rate(cat, "complexity_multiplier", m.ApplicationComplexity))
	}
	return total.Mul(c.region)
}

// licensing prices the provider-independent license costs
func licensing(t *Table, req *types.InfrastructureRequirements) (decimal.Decimal, error) {
	const cat = types.CategoryLicensing
	lic := req.Licensing
	vcpus := num(req.Compute.VCPUs)
	sockets := num(math.Ceil(req.Compute.VCPUs / 8))
	months := decimal.NewFromInt(12)

	var firstErr error
	rate := func(path ...string) decimal.Decimal {
		v, err := t.rate(append([]string{string(cat)}, path...))
		if err != nil {
			if firstErr == nil {
				firstErr = err.WithContext("category", string(cat))
			}
			return decimal.Zero
		}
		return v
	}

	total := decimal.Zero
	if lic.Windows.Enabled {
		total = total.Add(num(lic.Windows.Licenses).Mul(rate("windows", "server_standard")).Mul(vcpus))
	}
	if lic.SQLServer.Enabled {
		total = total.Add(num(lic.SQLServer.Licenses).Mul(rate("sqlServer", lic.SQLServer.Edition)).Mul(vcpus))
	}
	if lic.Oracle.Enabled {
		total = total.Add(num(lic.Oracle.Licenses).Mul(rate("oracle", lic.Oracle.Edition)).Mul(vcpus).Div(months))
	}
	if lic.VMware.Enabled {
		total = total.Add(num(lic.VMware.Licenses).Mul(rate("vmware", "vsphere_standard")).Mul(sockets).Div(months))
	}
	if lic.RedHat.Enabled {
		total = total.Add(num(lic.RedHat.Licenses).Mul(rate("redhat", "enterprise_linux")).Mul(sockets).Div(months))
	}
	if lic.SAP.Enabled {
		total = total.Add(num(lic.SAP.Licenses).Mul(rate("sap", "hana_enterprise")).Div(months))
	}
	if lic.Office365.Enabled {
		total = total.Add(num(lic.Office365.Licenses).Mul(rate("microsoftOffice365", "business_premium")))
	}
	if firstErr != nil {
		return decimal.Zero, firstErr
	}
	return total, nil
}

var (
	reservedSavings = map[string]decimal.Decimal{
		"none":         one,
		"conservative": decimal.RequireFromString("0.95"),
		"moderate":     decimal.RequireFromString("0.88"),
		"aggressive":   decimal.RequireFromString("0.78"),
	}
	scalingSavings = map[string]decimal.Decimal{
		"none":       one,
		"minimal":    decimal.RequireFromString("0.98"),
		"moderate":   decimal.RequireFromString("0.92"),
		"aggressive": decimal.RequireFromString("0.85"),
	}
	spotDiscount = decimal.RequireFromString("0.7")
)

// optimizationMultiplier folds the reserved, spot and autoscaling levers
func optimizationMultiplier(o types.OptimizationRequirements) decimal.Decimal {
	m := one
	if r, ok := reservedSavings[o.ReservedInstanceStrategy]; ok {
		m = m.Mul(r)
	}
	m = m.Mul(one.Sub(per(o.SpotInstanceTolerance, 100).Mul(spotDiscount)))
	if s, ok := scalingSavings[o.AutoScalingAggression]; ok {
		m = m.Mul(s)
	}
	return m
}

func (c *calculator) sustainabilityMultiplier() decimal.Decimal {
	const cat = types.CategorySustainability
	s := c.req.Sustainability
	m := one
	if s.RenewableEnergyPreference {
		m = m.Mul(c.rate(cat, "renewable_energy_premium"))
	}
	if s.GreenCloudOptimization {
		m = m.Mul(c.rate(cat, "green_optimization"))
	}
	return m
}

// Package projector turns a discovered or imported resource inventory into
// the aggregate InfrastructureRequirements the pricing engine consumes.
//
// Projection is coarse: it sums sizing hints into the compute,
// storage, database and networking sections and leaves every other section
// at its zero default.
package projector

import (
	"math"
	"sort"
	"strings"

	"multicloud-cost/core/types"
)

const (
	// DefaultRegion is used when no compute resource reports a location
	DefaultRegion = "us-east-1"

	bootVolumePerInstance = 30
	defaultBucketGB       = 100
	bandwidthPerResource  = 10
)

type bucket int

const (
	bucketNone bucket = iota
	bucketCompute
	bucketCache
	bucketDatabase
	bucketObject
	bucketFile
	bucketBlock
)

// Project aggregates resources into requirements. The result is validated;
// an aggregate outside the accepted ranges is an INPUT_ERROR.
func Project(resources []types.UnifiedResource) (types.InfrastructureRequirements, error) {
	req := types.DefaultRequirements()
	regions := make(map[string]int)
	engineFixed := false

	for _, r := range resources {
		switch classify(r) {
		case bucketCompute:
			if loc := r.Location; loc != "" && loc != "unknown" {
				regions[loc]++
			}
			if vcpus, ok := r.DetailFloat(types.DetailVCPUs); ok {
				memory, _ := r.DetailFloat(types.DetailMemory)
				req.Compute.VCPUs += vcpus
				req.Compute.RAM += memory
				req.Compute.BootVolume.Size += bootVolumePerInstance
			}

		case bucketCache:
			req.Database.Cache.Engine = "redis"
			nodes, ok := r.DetailFloat(types.DetailNodeCount)
			if !ok || nodes <= 0 {
				nodes = 1
			}
			req.Database.Cache.Nodes += nodes

		case bucketDatabase:
			rel := &req.Database.Relational
			if size, ok := r.DetailFloat(types.DetailStorage); ok {
				rel.Storage += size
			}
			if engine := Engine(r.DetailString(types.DetailEngine)); engine != "" && !engineFixed {
				rel.Engine = engine
				engineFixed = true
			}
			if r.DetailBool(types.DetailMultiAZ) {
				rel.MultiAZ = true
			}

		case bucketObject:
			size, ok := r.DetailFloat(types.DetailStorage)
			if !ok || size <= 0 {
				size = defaultBucketGB
			}
			req.Storage.ObjectStorage.Size += size

		case bucketFile:
			size, _ := r.DetailFloat(types.DetailStorage)
			req.Storage.FileStorage.Size += size

		case bucketBlock:
			size, _ := r.DetailFloat(types.DetailStorage)
			req.Storage.BlockStorage.Size += size
		}

		if isLoadBalancer(r) {
			req.Networking.LoadBalancer = "application"
		}
	}

	if n := len(resources); n > 0 {
		req.Networking.Bandwidth = math.Max(1, math.Floor(float64(n)*bandwidthPerResource))
	}
	req.Compute.Region = dominantRegion(regions)

	if err := req.Validate(); err != nil {
		return types.InfrastructureRequirements{}, err
	}
	return req, nil
}

// Storage and load-balancer kinds the projector sizes. Sub-records such as
// objects, blobs and bucket policies live inside a container that is already
// counted and carry no capacity of their own.
var (
	objectStorageTypes = map[string]bool{
		types.TypeBucket:   true,
		"StorageContainer": true,
	}
	fileStorageTypes = map[string]bool{
		"FileSystem":       true,
		"LustreFileSystem": true,
		"FileShare":        true,
		"Filestore":        true,
	}
	storageSubRecords = map[string]bool{
		"Object":       true,
		"BucketPolicy": true,
		"StorageBlob":  true,
	}
	loadBalancerTypes = map[string]bool{
		types.TypeLoadBalancer:    true,
		"ApplicationLoadBalancer": true,
		"NetworkLoadBalancer":     true,
		"ClassicLoadBalancer":     true,
		"GlobalLoadBalancer":      true,
		"ApplicationGateway":      true,
	}
)

func classify(r types.UnifiedResource) bucket {
	t := r.Type
	switch {
	case r.Service == types.ServiceCompute || strings.Contains(t, "Virtual"):
		return bucketCompute
	case containsAny(t, "Cache", "Redis"):
		return bucketCache
	case r.Service == types.ServiceDatabase:
		return bucketDatabase
	case objectStorageTypes[t]:
		return bucketObject
	case fileStorageTypes[t]:
		return bucketFile
	case storageSubRecords[t]:
		return bucketNone
	case r.Service == types.ServiceStorage:
		return bucketBlock
	}
	return bucketNone
}

func isLoadBalancer(r types.UnifiedResource) bool {
	if loadBalancerTypes[r.Type] {
		return true
	}
	_, hasLB := r.Detail(types.DetailLBType)
	return r.Service == types.ServiceNetworking && hasLB
}

// Engine maps a provider engine name onto the requirements vocabulary.
// Unrecognised names return "".
func Engine(native string) string {
	e := strings.ToLower(native)
	switch {
	case e == "":
		return ""
	case strings.Contains(e, "postgres"):
		return "postgresql"
	case strings.Contains(e, "mariadb"):
		return "mariadb"
	case strings.Contains(e, "mysql"):
		return "mysql"
	case strings.Contains(e, "oracle"):
		return "oracle"
	case strings.Contains(e, "sqlserver"), strings.Contains(e, "sql-server"), strings.Contains(e, "mssql"):
		return "sql-server"
	}
	return ""
}

// dominantRegion picks the most frequent location; ties go to the
// lexicographically smallest name.
func dominantRegion(counts map[string]int) string {
	if len(counts) == 0 {
		return DefaultRegion
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}
	return best
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

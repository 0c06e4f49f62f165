package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Cost detail keys shared by the normalizers and the projector.
const (
	DetailVCPUs         = "vcpus"
	DetailMemory        = "memory"
	DetailStorage       = "storage"
	DetailInstanceType  = "instanceType"
	DetailEngine        = "engine"
	DetailInstanceClass = "instanceClass"
	DetailMultiAZ       = "multiAZ"
	DetailIOPS          = "iops"
	DetailLBType        = "lbType"
	DetailNodeCount     = "nodeCount"
	DetailRuntime       = "runtime"
	DetailDataSpace     = "dataSpaceGB"
	DetailFileStorage   = "fileStorageGB"
	DetailLoadBalanced  = "loadBalanced"
	DetailHARequired    = "haRequired"
	DetailOS            = "operatingSystem"
	DetailMetadata      = "metadata"
)

// UnifiedResource is the one record every source normalizes into
type UnifiedResource struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Service     Service           `json:"service"`
	Provider    Provider          `json:"provider"`
	Location    string            `json:"location"`
	State       string            `json:"state"`
	Tags        map[string]string `json:"tags"`
	CostDetails map[string]any    `json:"costDetails"`
}

// IsPriced reports whether the resource takes part in cost aggregation
func (r UnifiedResource) IsPriced() bool {
	return r.Service != ServiceOther && r.Service != ""
}

// Detail returns a raw cost detail
func (r UnifiedResource) Detail(key string) (any, bool) {
	v, ok := r.CostDetails[key]
	return v, ok && v != nil
}

// DetailString returns a cost detail as string
func (r UnifiedResource) DetailString(key string) string {
	v, ok := r.Detail(key)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return ""
}

// DetailFloat returns a numeric cost detail; ok is false when absent or not numeric
func (r UnifiedResource) DetailFloat(key string) (float64, bool) {
	v, ok := r.Detail(key)
	if !ok {
		return 0, false
	}
	return ToFloat(v)
}

// DetailBool returns a boolean cost detail
func (r UnifiedResource) DetailBool(key string) bool {
	v, ok := r.Detail(key)
	if !ok {
		return false
	}
	return ToBool(v)
}

// ToFloat converts the numeric shapes found in decoded JSON, SDK structs and sheets.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// ToBool converts bools and the common truthy strings ("yes", "true", "1")
func ToBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "yes", "y", "true", "1":
			return true
		}
	case float64:
		return b != 0
	case int:
		return b != 0
	}
	return false
}

// ResourceSummary counts a scan by provider, service and location
type ResourceSummary struct {
	Total      int            `json:"total"`
	ByProvider map[string]int `json:"byProvider"`
	ByService  map[string]int `json:"byService"`
	ByLocation map[string]int `json:"byLocation"`
}

// Summarize builds a ResourceSummary
func Summarize(resources []UnifiedResource) ResourceSummary {
	s := ResourceSummary{
		Total:      len(resources),
		ByProvider: make(map[string]int),
		ByService:  make(map[string]int),
		ByLocation: make(map[string]int),
	}
	for _, r := range resources {
		s.ByProvider[string(r.Provider)]++
		s.ByService[string(r.Service)]++
		s.ByLocation[r.Location]++
	}
	return s
}

// EnsureUniqueIDs suffixes colliding ids with #2, #3, ... in list order.
func EnsureUniqueIDs(resources []UnifiedResource) {
	seen := make(map[string]int, len(resources))
	for i := range resources {
		id := resources[i].ID
		seen[id]++
		if n := seen[id]; n > 1 {
			candidate := id + "#" + strconv.Itoa(n)
			for seen[candidate] > 0 {
				n++
				candidate = id + "#" + strconv.Itoa(n)
			}
			seen[candidate] = 1
			resources[i].ID = candidate
		}
	}
}

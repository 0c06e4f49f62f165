package types

import "strings"

// Workload is one row of an infrastructure requirement sheet
type Workload struct {
	SlNo            int     `json:"slNo"`
	Site            string  `json:"site"`
	Category        string  `json:"category"`
	WorkloadType    string  `json:"workloadType"`
	ApplicationName string  `json:"applicationName"`
	Softwares       string  `json:"softwares"`
	OSName          string  `json:"osName"`
	CPUName         string  `json:"cpuName"`
	PhysicalCores   float64 `json:"physicalCores"`
	TotalThreads    float64 `json:"totalThreads"`
	RAMGB           float64 `json:"ramGB"`
	BootSpaceGB     float64 `json:"bootSpaceGB"`
	DataSpaceGB     float64 `json:"dataSpaceGB"`
	FileStorageGB   float64 `json:"fileStorageGB"`
	LoadBalanced    bool    `json:"loadBalanced"`
	HARequired      bool    `json:"haRequired"`
}

// IsDatabase reports whether the workload is a database tier
func (w Workload) IsDatabase() bool {
	return strings.Contains(strings.ToLower(w.WorkloadType), "db")
}

// VCPUs is the thread count, falling back to physical cores
func (w Workload) VCPUs() float64 {
	if w.TotalThreads > 0 {
		return w.TotalThreads
	}
	return w.PhysicalCores
}

// IsWindows reports whether the OS name names Windows
func (w Workload) IsWindows() bool {
	return strings.Contains(strings.ToLower(w.OSName), "windows")
}

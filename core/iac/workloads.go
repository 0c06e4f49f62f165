package iac

import (
	"multicloud-cost/core/types"
)

// WorkloadsFromResources rebuilds workloads from normalized compute and
// database resources so a scan or state file can be emitted as well as a
// sheet. Load balancer records are folded into the loadBalanced flag their
// owning row already carries.
func WorkloadsFromResources(resources []types.UnifiedResource) []types.Workload {
	var out []types.Workload
	for _, r := range resources {
		if r.Service != types.ServiceCompute && r.Service != types.ServiceDatabase {
			continue
		}
		vcpus, _ := r.DetailFloat(types.DetailVCPUs)
		memory, _ := r.DetailFloat(types.DetailMemory)
		storage, _ := r.DetailFloat(types.DetailStorage)
		fileStorage, _ := r.DetailFloat(types.DetailFileStorage)
		dataSpace, hasData := r.DetailFloat(types.DetailDataSpace)

		w := types.Workload{
			SlNo:            len(out) + 1,
			Site:            r.Location,
			Category:        r.Tags["category"],
			WorkloadType:    r.Tags["workloadType"],
			ApplicationName: r.Name,
			Softwares:       r.Tags["softwares"],
			OSName:          r.DetailString(types.DetailOS),
			CPUName:         r.DetailString(types.DetailInstanceType),
			PhysicalCores:   vcpus,
			TotalThreads:    vcpus,
			RAMGB:           memory,
			FileStorageGB:   fileStorage,
			LoadBalanced:    r.DetailBool(types.DetailLoadBalanced),
			HARequired:      r.DetailBool(types.DetailHARequired) || r.DetailBool(types.DetailMultiAZ),
		}

		switch {
		case r.Service == types.ServiceDatabase:
			if w.WorkloadType == "" || !w.IsDatabase() {
				w.WorkloadType = "db"
			}
			w.DataSpaceGB = storage
			if hasData {
				w.DataSpaceGB = dataSpace
			}
		default:
			if w.WorkloadType == "" || w.IsDatabase() {
				w.WorkloadType = "app"
			}
			w.BootSpaceGB = storage
			if hasData {
				w.DataSpaceGB = dataSpace
				w.BootSpaceGB = storage - dataSpace
			}
		}
		out = append(out, w)
	}
	return out
}

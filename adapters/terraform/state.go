// Package terraform normalizes Terraform state into UnifiedResources.
package terraform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

// State is the subset of a Terraform state file (format v4) the normalizer reads
type State struct {
	Version          int             `json:"version"`
	TerraformVersion string          `json:"terraform_version"`
	Serial           int             `json:"serial"`
	Lineage          string          `json:"lineage"`
	Resources        []StateResource `json:"resources"`
}

// StateResource is one resource block of the state
type StateResource struct {
	Module    string          `json:"module,omitempty"`
	Mode      string          `json:"mode"`
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Provider  string          `json:"provider"`
	Instances []StateInstance `json:"instances"`
}

// StateInstance is one instance of a resource; counted and for_each
// resources carry an IndexKey.
type StateInstance struct {
	IndexKey      interface{}            `json:"index_key,omitempty"`
	SchemaVersion int                    `json:"schema_version"`
	Attributes    map[string]interface{} `json:"attributes"`
}

// ModeManaged marks resources Terraform manages (as opposed to data sources)
const ModeManaged = "managed"

// ParseState decodes a state document. Numbers are kept as json.Number.
// Documents that are not JSON or lack a resources array are rejected.
func ParseState(data []byte) (*State, error) {
	var envelope struct {
		Version          int             `json:"version"`
		TerraformVersion string          `json:"terraform_version"`
		Serial           int             `json:"serial"`
		Lineage          string          `json:"lineage"`
		Resources        json.RawMessage `json:"resources"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrap(errors.TypeInput, "invalid Terraform state JSON", err)
	}

	raw := bytes.TrimSpace(envelope.Resources)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errors.Input("invalid Terraform state: missing or invalid resources array")
	}

	state := &State{
		Version:          envelope.Version,
		TerraformVersion: envelope.TerraformVersion,
		Serial:           envelope.Serial,
		Lineage:          envelope.Lineage,
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&state.Resources); err != nil {
		return nil, errors.Wrap(errors.TypeInput, "invalid Terraform state resources", err)
	}
	return state, nil
}

// Address returns the resource address of one instance, e.g.
// module.net.aws_subnet.private[1] or aws_s3_bucket.logs["eu"].
func (r StateResource) Address(inst StateInstance) string {
	addr := r.Type + "." + r.Name
	if r.Module != "" {
		addr = r.Module + "." + addr
	}
	switch k := inst.IndexKey.(type) {
	case nil:
	case string:
		addr += fmt.Sprintf("[%q]", k)
	default:
		addr += fmt.Sprintf("[%v]", k)
	}
	return addr
}

// ProviderHint derives the provider from the resource's provider address,
// e.g. provider["registry.terraform.io/hashicorp/aws"].
func (r StateResource) ProviderHint() (types.Provider, bool) {
	s := r.Provider
	if i := strings.Index(s, `["`); i >= 0 {
		s = s[i+2:]
		if j := strings.Index(s, `"]`); j >= 0 {
			s = s[:j]
		}
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	// pre-0.13 states use provider.aws
	s = strings.TrimPrefix(s, "provider.")
	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i]
	}
	p, ok := types.ParseProvider(s)
	if !ok || p == types.ProviderMultiCloud {
		return "", false
	}
	return p, true
}

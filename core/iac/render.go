// Package iac renders requirement workloads as Terraform configuration for a
// single provider.
//
// One renderer walks the workloads in order and asks the provider's dialect
// for the blocks of each. Network ids, images and secrets are declared as
// input variables so the output is self-consistent without any existing
// state.
package iac

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

// Option configures a Generate call
type Option func(*renderer)

// WithRegion sets the default of the region variable
func WithRegion(region string) Option {
	return func(r *renderer) {
		if region != "" {
			r.region = region
		}
	}
}

// Generate renders workloads as one Terraform file for provider.
// Only the four concrete providers have a dialect.
func Generate(workloads []types.Workload, provider types.Provider, opts ...Option) (string, error) {
	d, ok := dialects[provider]
	if !ok {
		return "", errors.NotSupported(fmt.Sprintf("infrastructure as code for provider %q", provider)).
			WithContext("provider", string(provider))
	}
	r := &renderer{dialect: d, region: d.DefaultRegion}
	for _, opt := range opts {
		opt(r)
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.AppendUnstructuredTokens(comment(fmt.Sprintf("%s infrastructure for %d workload(s)", d.Title, len(workloads))))
	body.AppendNewline()
	r.terraformBlock(body)
	body.AppendNewline()
	d.Provider(body.AppendNewBlock("provider", []string{d.ProviderName}).Body())
	r.variables(body)

	for i, w := range workloads {
		wr := workloadRef{Workload: w, Name: Identifier(w.ApplicationName, i), Size: r.size(w)}
		body.AppendNewline()
		body.AppendUnstructuredTokens(comment(fmt.Sprintf("%s (%s)", w.ApplicationName, w.WorkloadType)))
		if w.IsDatabase() {
			d.Database(body, wr)
		} else {
			d.Compute(body, wr)
			if w.DataSpaceGB > 0 {
				d.Volume(body, wr)
			}
			if w.LoadBalanced {
				d.LoadBalancer(body, wr)
			}
		}
		if w.FileStorageGB > 0 {
			d.Filesystem(body, wr)
		}
	}
	return string(hclwrite.Format(f.Bytes())), nil
}

type renderer struct {
	dialect *dialect
	region  string
}

// workloadRef is one workload with its resolved identifier and size
type workloadRef struct {
	types.Workload
	Name string
	Size string
}

func (r *renderer) terraformBlock(body *hclwrite.Body) {
	tf := body.AppendNewBlock("terraform", nil).Body()
	tf.SetAttributeValue("required_version", cty.StringVal(">= 1.5.0"))
	rp := tf.AppendNewBlock("required_providers", nil).Body()
	rp.SetAttributeValue(r.dialect.ProviderName, cty.ObjectVal(map[string]cty.Value{
		"source":  cty.StringVal(r.dialect.Source),
		"version": cty.StringVal(r.dialect.Version),
	}))
}

func (r *renderer) variables(body *hclwrite.Body) {
	vars := append([]variable{
		{Name: "region", Description: "Region to deploy into", Default: r.region},
		{Name: "environment", Description: "Environment tag", Default: "production"},
	}, r.dialect.Variables...)
	for _, v := range vars {
		body.AppendNewline()
		b := body.AppendNewBlock("variable", []string{v.Name}).Body()
		b.SetAttributeValue("description", cty.StringVal(v.Description))
		if v.List {
			b.SetAttributeRaw("type", hclwrite.TokensForFunctionCall("list", hclwrite.TokensForIdentifier("string")))
		} else {
			b.SetAttributeRaw("type", hclwrite.TokensForIdentifier("string"))
		}
		if v.Default != "" {
			b.SetAttributeValue("default", cty.StringVal(v.Default))
		}
		if v.Sensitive {
			b.SetAttributeValue("sensitive", cty.True)
		}
	}
}

// size resolves the instance size: cpuName map, then the smallest ladder
// entry that fits, then the largest.
func (r *renderer) size(w types.Workload) string {
	if s, ok := r.dialect.CPUNames[strings.ToLower(strings.TrimSpace(w.CPUName))]; ok {
		return s
	}
	ladder := r.dialect.Sizes
	for _, s := range ladder {
		if s.VCPUs >= w.VCPUs() && s.MemoryGB >= w.RAMGB {
			return s.Name
		}
	}
	return ladder[len(ladder)-1].Name
}

var nonIdentifier = regexp.MustCompile(`[^a-z0-9]`)

// Identifier is the resource name for the workload at index: the lowercased
// application name with anything outside [a-z0-9] replaced by "_", then
// "_<index>".
func Identifier(applicationName string, index int) string {
	id := nonIdentifier.ReplaceAllString(strings.ToLower(applicationName), "_") + "_" + strconv.Itoa(index)
	if id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	return id
}

// Block helpers shared by the dialects.

func resource(body *hclwrite.Body, typ, name string) *hclwrite.Body {
	body.AppendNewline()
	return body.AppendNewBlock("resource", []string{typ, name}).Body()
}

func nested(body *hclwrite.Body, name string) *hclwrite.Body {
	return body.AppendNewBlock(name, nil).Body()
}

// ref parses a dotted reference such as "var.subnet_id" or
// "aws_instance.web_0.id" into a traversal.
func ref(dotted string) hcl.Traversal {
	parts := strings.Split(dotted, ".")
	t := hcl.Traversal{hcl.TraverseRoot{Name: parts[0]}}
	for _, p := range parts[1:] {
		t = append(t, hcl.TraverseAttr{Name: p})
	}
	return t
}

func setRef(body *hclwrite.Body, name, dotted string) {
	body.SetAttributeTraversal(name, ref(dotted))
}

func setRefList(body *hclwrite.Body, name string, dotted ...string) {
	elems := make([]hclwrite.Tokens, len(dotted))
	for i, d := range dotted {
		elems[i] = hclwrite.TokensForTraversal(ref(d))
	}
	body.SetAttributeRaw(name, hclwrite.TokensForTuple(elems))
}

func setString(body *hclwrite.Body, name, value string) {
	body.SetAttributeValue(name, cty.StringVal(value))
}

func setInt(body *hclwrite.Body, name string, value int64) {
	body.SetAttributeValue(name, cty.NumberIntVal(value))
}

func setBool(body *hclwrite.Body, name string, value bool) {
	body.SetAttributeValue(name, cty.BoolVal(value))
}

// setTags writes a map of literal tags plus an environment entry pointing at
// var.environment
func setTags(body *hclwrite.Body, attr, envKey string, tags map[string]string, keys ...string) {
	items := make([]hclwrite.ObjectAttrTokens, 0, len(keys)+1)
	for _, k := range keys {
		items = append(items, hclwrite.ObjectAttrTokens{
			Name:  hclwrite.TokensForIdentifier(k),
			Value: hclwrite.TokensForValue(cty.StringVal(tags[k])),
		})
	}
	items = append(items, hclwrite.ObjectAttrTokens{
		Name:  hclwrite.TokensForIdentifier(envKey),
		Value: hclwrite.TokensForTraversal(ref("var.environment")),
	})
	body.SetAttributeRaw(attr, hclwrite.TokensForObject(items))
}

func comment(text string) hclwrite.Tokens {
	return hclwrite.Tokens{{Type: hclsyntax.TokenComment, Bytes: []byte("# " + strings.Join(strings.Fields(text), " ") + "\n")}}
}

// gb rounds a size up to whole gigabytes, using fallback when unset and
// never going below min
func gb(v float64, fallback, floor int64) int64 {
	n := int64(math.Ceil(v))
	if n <= 0 {
		n = fallback
	}
	if n < floor {
		n = floor
	}
	return n
}

// cloudName turns an identifier into a provider-side name ("web_app_0" ->
// "web-app-0") that starts with a letter and fits in max characters
func cloudName(name string, limit int) string {
	s := strings.Trim(strings.ReplaceAll(name, "_", "-"), "-")
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		s = "wl-" + s
	}
	if len(s) > limit {
		s = strings.TrimRight(s[:limit], "-")
	}
	return s
}

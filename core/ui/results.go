package ui

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"multicloud-cost/clouds"
	"multicloud-cost/core/determinism"
	"multicloud-cost/core/projector"
	"multicloud-cost/core/types"
)

func money(symbol string, d decimal.Decimal) string {
	return symbol + d.StringFixed(2)
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderCalculation prints a ranked provider comparison, the categories that
// carry cost, the multi-cloud allocation and the recommendations.
func RenderCalculation(w *Writer, r *types.CalculationResult) {
	sym := r.Cheapest.CurrencySymbol
	w.Header("Multi-Cloud Cost Comparison")
	w.Println("%s", w.color(Dim, fmt.Sprintf("Currency %s · pricing table %s · region %s",
		r.Metadata.Currency, r.Metadata.TableVersion, r.Metadata.Region)))
	w.Println("")

	ranking := w.NewTable("#", "Provider", "Monthly", "Carbon (kg CO2)", "Renewable").AlignRight(0, 2, 3, 4)
	for i, b := range r.Providers {
		name := b.Name
		if b.Provider == r.Cheapest.Provider {
			name += " ★"
		}
		ranking.AddRow(strconv.Itoa(i+1), name, money(sym, b.Total), b.CarbonFootprint.StringFixed(3),
			b.RenewableEnergyPercent.String()+"%")
	}
	ranking.Render()
	w.Println("")

	w.SubHeader("By category")
	headers := []string{"Category"}
	for _, b := range r.Providers {
		headers = append(headers, b.Name)
	}
	headers = append(headers, "Best")
	byCat := w.NewTable(headers...)
	for i := 1; i <= len(r.Providers); i++ {
		byCat.AlignRight(i)
	}
	categories := append(append([]types.Category{}, types.ServiceCategories...), types.CategoryLicensing)
	for _, cat := range categories {
		row := []string{string(cat)}
		nonZero := false
		for _, b := range r.Providers {
			amount := b.Amount(cat)
			nonZero = nonZero || !amount.IsZero()
			row = append(row, money(sym, amount))
		}
		if !nonZero {
			continue
		}
		byCat.AddRow(append(row, r.MultiCloudOption.Breakdown[cat])...)
	}
	totals := []string{"total"}
	for _, b := range r.Providers {
		totals = append(totals, money(sym, b.Total))
	}
	byCat.SetFooter(append(totals, money(sym, r.MultiCloudOption.Cost))...)
	byCat.Render()
	w.Println("")

	w.Println("%s %s (%s)", w.color(Bold, "Cheapest:"), w.color(Green, money(sym, r.Cheapest.Total)), r.Cheapest.Name)
	w.Println("%s %s", w.color(Bold, "Potential savings vs most expensive:"), money(sym, r.PotentialSavings))
	w.Println("%s %s", w.color(Bold, "Multi-cloud allocation:"), money(sym, r.MultiCloudOption.Cost))

	w.Header("Recommendations")
	w.Bullet(r.Recommendations.SingleCloud)
	w.Bullet(r.Recommendations.MultiCloud)
	for _, tip := range r.Recommendations.CostOptimization {
		w.Bullet(tip)
	}
}

// RenderAnalysis prints the inventory summary, the projected sizing and the
// inventory findings.
func RenderAnalysis(w *Writer, a *projector.Analysis) {
	w.Header("Inventory")
	w.Println("%d resources", a.Summary.Total)
	renderCounts(w, "Provider", a.Summary.ByProvider)
	renderCounts(w, "Service", a.Summary.ByService)

	req := a.Requirements
	w.Header("Projected Requirements")
	sizing := w.NewTable("Requirement", "Value")
	sizing.AddRow("Region", req.Compute.Region)
	sizing.AddRow("vCPUs", number(req.Compute.VCPUs))
	sizing.AddRow("RAM (GB)", number(req.Compute.RAM))
	sizing.AddRow("Operating system", req.Compute.OperatingSystem)
	sizing.AddRow("Object storage (GB)", number(req.Storage.ObjectStorage.Size))
	sizing.AddRow("Block storage (GB)", number(req.Storage.BlockStorage.Size))
	sizing.AddRow("File storage (GB)", number(req.Storage.FileStorage.Size))
	if req.Database.Relational.Storage > 0 {
		db := fmt.Sprintf("%s, %s GB", req.Database.Relational.Engine, number(req.Database.Relational.Storage))
		if req.Database.Relational.MultiAZ {
			db += ", multi-AZ"
		}
		sizing.AddRow("Relational database", db)
	}
	if req.Networking.LoadBalancer != "none" {
		sizing.AddRow("Load balancer", req.Networking.LoadBalancer)
	}
	sizing.Render()

	w.Header("Findings")
	groups := []struct {
		title string
		items []string
	}{
		{"Optimization", a.Recommendations.Optimization},
		{"Right-sizing", a.Recommendations.RightSizing},
		{"Cost savings", a.Recommendations.CostSavings},
	}
	for _, g := range groups {
		if len(g.items) == 0 {
			continue
		}
		w.SubHeader(g.title)
		for _, item := range g.items {
			w.Bullet(item)
		}
	}
}

// RenderScan prints per-provider resource counts and any provider failures
func RenderScan(w *Writer, scan *clouds.ScanResult) {
	w.Header("Discovery")
	t := w.NewTable("Provider", "Resources", "Status").AlignRight(1)
	for _, p := range determinism.SortedKeys(scan.ByProvider) {
		status := w.color(Green, "ok")
		if scan.Failed(p) {
			status = w.color(Red, "failed")
		}
		t.AddRow(string(p), strconv.Itoa(len(scan.ByProvider[p])), status)
	}
	t.Render()
	w.Println("")
	for _, f := range scan.Failures {
		w.Warning("%s: %s", f.Provider, f.Reason)
	}
	w.Info("%d resources in %s", scan.Summary.Total, formatDuration(scan.Duration))
}

func renderCounts(w *Writer, label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	t := w.NewTable(label, "Count").AlignRight(1)
	for _, k := range determinism.SortedKeys(counts) {
		t.AddRow(k, strconv.Itoa(counts[k]))
	}
	w.Println("")
	t.Render()
}

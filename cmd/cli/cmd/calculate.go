package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"multicloud-cost/adapters/storage"
	"multicloud-cost/core/pricing"
	"multicloud-cost/core/projector"
	"multicloud-cost/core/types"
	"multicloud-cost/core/ui"
	"multicloud-cost/internal/config"
	"multicloud-cost/internal/errors"
	"multicloud-cost/internal/logging"
	"multicloud-cost/internal/metrics"
)

var (
	currency    string
	saveLabel   string
	showMetrics bool
)

// calculateCmd prices a requirements document on every provider
var calculateCmd = &cobra.Command{
	Use:   "calculate <requirements.json>",
	Short: "Price infrastructure requirements on every provider",
	Long: `Price an infrastructure requirements document on AWS, Azure, GCP and Oracle
Cloud, rank the providers and build the cheapest multi-cloud allocation.

Sections missing from the document keep their defaults.

Examples:
  multicloud-cost calculate requirements.json
  multicloud-cost calculate requirements.json --currency INR --format json
  multicloud-cost calculate requirements.json --save "q3 baseline"`,
	Args: cobra.ExactArgs(1),
	RunE: runCalculate,
}

// analyzeCmd chains normalize, project and calculate
var analyzeCmd = &cobra.Command{
	Use:   "analyze <terraform|spreadsheet|manual> <file>",
	Short: "Normalize an input, project it and price the result",
	Long: `Normalize an input, project the resources onto requirements and price them
on every provider in one step.

Examples:
  multicloud-cost analyze terraform terraform.tfstate
  multicloud-cost analyze spreadsheet inventory.xlsx --currency EUR --save migration`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(analyzeCmd)

	for _, c := range []*cobra.Command{calculateCmd, analyzeCmd} {
		c.Flags().StringVar(&currency, "currency", "", "report currency (USD, INR, EUR, KWD)")
		c.Flags().StringVar(&saveLabel, "save", "", "store the result as a snapshot with this label")
		c.Flags().BoolVar(&showMetrics, "metrics", false, "print run metrics to stderr")
	}
}

func runCalculate(cmd *cobra.Command, args []string) error {
	data, err := readFile(args[0])
	if err != nil {
		return err
	}
	req, err := types.ParseRequirements(data)
	if err != nil {
		return err
	}
	if err := applyCurrency(&req, documentHasCurrency(data)); err != nil {
		return err
	}

	rec := newRecorder()
	result, err := calculate(cmd, req, rec)
	if err != nil {
		return err
	}
	return finish(cmd, result, rec)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rec := newRecorder()
	resources, err := loadResources(cmd.Context(), args[0], args[1], rec)
	if err != nil {
		return err
	}
	analysis, err := projector.Analyze(resources)
	if err != nil {
		return err
	}
	req := analysis.Requirements
	if err := applyCurrency(&req, false); err != nil {
		return err
	}

	result, err := calculate(cmd, req, rec)
	if err != nil {
		return err
	}
	if !jsonOutput() {
		ui.RenderAnalysis(newWriter(cmd), analysis)
	}
	return finish(cmd, result, rec)
}

func newRecorder() *metrics.Recorder {
	if !showMetrics {
		return nil
	}
	return metrics.New()
}

// newEngine builds an engine over the configured table, or the embedded one
func newEngine(rec *metrics.Recorder) (*pricing.Engine, error) {
	opts := []pricing.Option{
		pricing.WithMetrics(rec),
		pricing.WithLogger(logging.Named("pricing")),
	}
	if path := config.Get().Pricing.TablePath; path != "" {
		table, err := pricing.LoadTableFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pricing.WithTable(table))
	}
	return pricing.NewEngine(opts...)
}

func calculate(cmd *cobra.Command, req types.InfrastructureRequirements, rec *metrics.Recorder) (*types.CalculationResult, error) {
	engine, err := newEngine(rec)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := engine.Calculate(cmd.Context(), req)
	if err != nil {
		return nil, err
	}
	logging.Debug("calculation complete",
		zap.String("cheapest", string(result.Cheapest.Provider)),
		zap.String("currency", string(req.Currency)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// documentHasCurrency reports whether the raw document sets currency itself
func documentHasCurrency(data []byte) bool {
	var probe struct {
		Currency *string `json:"currency"`
	}
	return json.Unmarshal(data, &probe) == nil && probe.Currency != nil
}

// applyCurrency resolves the report currency: the flag wins, then the
// document, then pricing.default_currency.
func applyCurrency(req *types.InfrastructureRequirements, fromDocument bool) error {
	var c types.Currency
	switch {
	case currency != "":
		c = types.Currency(strings.ToUpper(currency))
	case fromDocument:
		return nil
	default:
		c = config.Get().Pricing.DefaultCurrency
		if c == "" {
			return nil
		}
	}
	if !c.IsValid() {
		return errors.Inputf("unsupported currency %q", c)
	}
	req.Currency = c
	return nil
}

func finish(cmd *cobra.Command, result *types.CalculationResult, rec *metrics.Recorder) error {
	if jsonOutput() {
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		ui.RenderCalculation(newWriter(cmd), result)
	}

	if cmd.Flags().Changed("save") {
		snap, err := saveSnapshot(cmd, result, strings.TrimSpace(saveLabel))
		if err != nil {
			return err
		}
		if !jsonOutput() {
			newWriter(cmd).Success("saved snapshot %s", snap.ID)
		}
	}

	if rec != nil {
		return rec.WriteText(cmd.ErrOrStderr())
	}
	return nil
}

func openStore() (storage.Store, error) {
	cfg := config.Get().Store
	return storage.StoreFactory(storage.Backend(cfg.Backend), cfg.Directory)
}

func saveSnapshot(cmd *cobra.Command, result *types.CalculationResult, label string) (*storage.Snapshot, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	snap := storage.NewSnapshot(result, label)
	if err := store.Save(cmd.Context(), snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	logging.Info("snapshot saved", zap.String("id", snap.ID), zap.String("label", label))
	return snap, nil
}

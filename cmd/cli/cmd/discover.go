package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"multicloud-cost/clouds"
	"multicloud-cost/clouds/aws"
	"multicloud-cost/clouds/azure"
	"multicloud-cost/clouds/gcp"
	"multicloud-cost/clouds/oracle"
	"multicloud-cost/core/projector"
	"multicloud-cost/core/types"
	"multicloud-cost/core/ui"
	"multicloud-cost/internal/config"
	"multicloud-cost/internal/logging"
	"multicloud-cost/internal/metrics"
)

var (
	discoverProviders []string
	discoverAnalyze   bool
)

// discoverCmd scans live cloud accounts
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover live resources in cloud accounts",
	Long: `Scan AWS, Azure, GCP and Oracle Cloud accounts concurrently and print the
unified resources. Credentials come from the discovery section of the config
file or MCCOST_DISCOVERY_* environment variables. A provider that fails is
reported and contributes no resources.

Examples:
  multicloud-cost discover
  multicloud-cost discover --providers aws,gcp --format json
  multicloud-cost discover --providers azure --analyze`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringSliceVarP(&discoverProviders, "providers", "p", nil, "providers to scan (aws, azure, gcp, oracle); defaults to discovery.providers")
	discoverCmd.Flags().BoolVar(&discoverAnalyze, "analyze", false, "also project the discovered resources")
	discoverCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print run metrics to stderr")
}

// newDispatcher registers every provider's discoverer on a fresh registry
func newDispatcher(cfg *config.Config, rec *metrics.Recorder) (*clouds.Dispatcher, error) {
	reg := clouds.NewRegistry()
	for _, register := range []func(*clouds.Registry) error{aws.Register, azure.Register, gcp.Register, oracle.Register} {
		if err := register(reg); err != nil {
			return nil, err
		}
	}
	return clouds.NewDispatcher(
		clouds.WithRegistry(reg),
		clouds.WithTimeout(cfg.Discovery.Timeout),
		clouds.WithMetrics(rec),
		clouds.WithLogger(logging.Named("discovery")),
	), nil
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	rec := newRecorder()
	dispatcher, err := newDispatcher(cfg, rec)
	if err != nil {
		return err
	}

	names := discoverProviders
	if len(names) == 0 {
		names = cfg.Discovery.Providers
	}
	providers, err := dispatcher.ResolveProviders(normalizeNames(names))
	if err != nil {
		return err
	}

	w := newWriter(cmd)
	var scan *clouds.ScanResult
	run := func() (err error) {
		scan, err = dispatcher.Scan(cmd.Context(), cfg.Discovery.Credentials, providers)
		return err
	}
	if jsonOutput() {
		err = run()
	} else {
		err = w.Spin("Scanning "+providerList(providers), run)
	}
	if err != nil {
		return err
	}

	if jsonOutput() {
		if err := writeJSON(cmd.OutOrStdout(), scan); err != nil {
			return err
		}
	} else {
		ui.RenderScan(w, scan)
		if discoverAnalyze && len(scan.Resources) > 0 {
			analysis, err := projector.Analyze(scan.Resources)
			if err != nil {
				return err
			}
			ui.RenderAnalysis(w, analysis)
		}
	}

	if rec != nil {
		return rec.WriteText(cmd.ErrOrStderr())
	}
	return nil
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, strings.ToLower(n))
		}
	}
	return out
}

func providerList(providers []types.Provider) string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

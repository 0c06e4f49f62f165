package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"multicloud-cost/adapters/manual"
	"multicloud-cost/adapters/spreadsheet"
	"multicloud-cost/adapters/terraform"
	"multicloud-cost/core/determinism"
	"multicloud-cost/core/projector"
	"multicloud-cost/core/types"
	"multicloud-cost/core/ui"
	"multicloud-cost/internal/errors"
	"multicloud-cost/internal/logging"
	"multicloud-cost/internal/metrics"
)

// Input sources accepted by normalize, analyze and iac
const (
	SourceTerraform   = "terraform"
	SourceSpreadsheet = "spreadsheet"
	SourceManual      = "manual"
)

type normalizer interface {
	Normalize(ctx context.Context, input []byte) ([]types.UnifiedResource, error)
}

func newNormalizer(source string, logger *zap.Logger) (normalizer, error) {
	ids := determinism.UUIDGenerator{}
	switch source {
	case SourceTerraform:
		return terraform.NewNormalizer(nil, logger), nil
	case SourceSpreadsheet:
		return spreadsheet.NewNormalizer(ids, logger), nil
	case SourceManual:
		return manual.NewNormalizer(ids, logger), nil
	default:
		return nil, errors.NotSupported(fmt.Sprintf("input source %q (want %s, %s or %s)",
			source, SourceTerraform, SourceSpreadsheet, SourceManual))
	}
}

var (
	pullState bool
	workspace string
)

// normalizeCmd prints the unified resources of one input
var normalizeCmd = &cobra.Command{
	Use:   "normalize <terraform|spreadsheet|manual> <file>",
	Short: "Convert an input into unified resources",
	Long: `Normalize a Terraform state file, an inventory spreadsheet or a manual
resource list into the unified resource model and print it as JSON.

With --pull the terraform source takes a working directory and reads its
state through "terraform state pull".

Examples:
  multicloud-cost normalize terraform terraform.tfstate
  multicloud-cost normalize terraform ./infra --pull --workspace prod
  multicloud-cost normalize spreadsheet inventory.xlsx`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resources, err := loadResources(cmd.Context(), args[0], args[1], nil)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), resources)
	},
}

// projectCmd turns a unified resource document into requirements
var projectCmd = &cobra.Command{
	Use:   "project <resources.json>",
	Short: "Project unified resources onto infrastructure requirements",
	Long: `Read unified resources (the output of normalize or discover) and print the
projected infrastructure requirements together with inventory findings.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readFile(args[0])
		if err != nil {
			return err
		}
		resources, err := decodeResources(data)
		if err != nil {
			return err
		}
		analysis, err := projector.Analyze(resources)
		if err != nil {
			return err
		}
		if jsonOutput() {
			return writeJSON(cmd.OutOrStdout(), analysis)
		}
		ui.RenderAnalysis(newWriter(cmd), analysis)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(projectCmd)

	for _, c := range []*cobra.Command{normalizeCmd, analyzeCmd, iacCmd} {
		c.Flags().BoolVar(&pullState, "pull", false, "treat the terraform input as a working directory and pull its state")
		c.Flags().StringVar(&workspace, "workspace", "", "terraform workspace to select before pulling")
	}
}

// loadResources reads and normalizes one input, recording the count on rec
func loadResources(ctx context.Context, source, path string, rec *metrics.Recorder) ([]types.UnifiedResource, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	source = strings.ToLower(source)
	n, err := newNormalizer(source, logging.Logger)
	if err != nil {
		return nil, err
	}

	data, err := readSource(ctx, source, path)
	if err != nil {
		return nil, err
	}

	resources, err := n.Normalize(ctx, data)
	if err != nil {
		return nil, err
	}
	rec.AddNormalized(source, len(resources))
	logging.Info("normalized input",
		zap.String("source", source),
		zap.String("path", path),
		zap.Int("resources", len(resources)),
	)
	return resources, nil
}

func readSource(ctx context.Context, source, path string) ([]byte, error) {
	if source != SourceTerraform || !pullState {
		return readFile(path)
	}
	puller, err := terraform.NewPuller(path,
		terraform.WithWorkspace(workspace),
		terraform.WithPullLogger(logging.Named("terraform")),
	)
	if err != nil {
		return nil, err
	}
	return puller.Pull(ctx)
}

func decodeResources(data []byte) ([]types.UnifiedResource, error) {
	var resources []types.UnifiedResource
	if err := json.Unmarshal(data, &resources); err != nil {
		return nil, errors.Wrap(errors.TypeInput, "malformed resource document", err)
	}
	return resources, nil
}

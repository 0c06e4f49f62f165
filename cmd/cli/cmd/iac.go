package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"multicloud-cost/adapters/spreadsheet"
	"multicloud-cost/core/iac"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/config"
	"multicloud-cost/internal/errors"
	"multicloud-cost/internal/logging"
)

var (
	iacProvider string
	iacOut      string
)

// iacCmd emits Terraform for the workloads of an input
var iacCmd = &cobra.Command{
	Use:   "iac <terraform|spreadsheet|manual> <file>",
	Short: "Generate Terraform for the workloads of an input",
	Long: `Generate a Terraform configuration that recreates the compute and database
workloads of an input on one provider. Network identifiers, images and
secrets are emitted as variables.

Examples:
  multicloud-cost iac spreadsheet inventory.xlsx --provider aws
  multicloud-cost iac terraform terraform.tfstate --provider oracle --out main.tf`,
	Args: cobra.ExactArgs(2),
	RunE: runIaC,
}

func init() {
	rootCmd.AddCommand(iacCmd)

	iacCmd.Flags().StringVarP(&iacProvider, "provider", "p", "aws", "target provider (aws, azure, gcp, oracle)")
	iacCmd.Flags().StringVarP(&iacOut, "out", "o", "", "write the configuration to this file instead of stdout")
}

func runIaC(cmd *cobra.Command, args []string) error {
	provider, ok := types.ParseProvider(iacProvider)
	if !ok || !iac.Supported(provider) {
		return errors.NotSupported(fmt.Sprintf("infrastructure as code for provider %q", iacProvider))
	}

	workloads, err := loadWorkloads(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	if len(workloads) == 0 {
		return errors.Input("input has no compute or database workloads")
	}

	hcl, err := iac.Generate(workloads, provider, iac.WithRegion(iacRegion(provider)))
	if err != nil {
		return err
	}

	if iacOut == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), hcl)
		return err
	}
	if err := os.WriteFile(iacOut, []byte(hcl), 0o644); err != nil {
		return errors.Parsing("write configuration", err).WithContext("path", iacOut)
	}
	logging.Info("terraform written", zap.String("path", iacOut), zap.Int("workloads", len(workloads)))
	if !jsonOutput() {
		newWriter(cmd).Success("wrote %d workloads to %s", len(workloads), iacOut)
	}
	return nil
}

// loadWorkloads keeps sheet rows as they are; other sources go through the
// unified model first.
func loadWorkloads(cmd *cobra.Command, source, path string) ([]types.Workload, error) {
	if strings.EqualFold(source, SourceSpreadsheet) {
		data, err := readFile(path)
		if err != nil {
			return nil, err
		}
		return spreadsheet.ReadWorkloads(bytes.NewReader(data))
	}
	resources, err := loadResources(cmd.Context(), source, path, nil)
	if err != nil {
		return nil, err
	}
	return iac.WorkloadsFromResources(resources), nil
}

func iacRegion(p types.Provider) string {
	cfg := config.Get().IaC
	switch p {
	case types.ProviderAWS:
		return cfg.AWSRegion
	case types.ProviderAzure:
		return cfg.AzureLocation
	case types.ProviderGCP:
		return cfg.GCPRegion
	case types.ProviderOracle:
		return cfg.OracleRegion
	}
	return ""
}

// Package cmd provides the CLI commands for multicloud-cost.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"multicloud-cost/core/ui"
	"multicloud-cost/internal/config"
	"multicloud-cost/internal/errors"
	"multicloud-cost/internal/logging"
)

// Version is stamped at build time with -ldflags
var Version = "0.1.0"

var (
	cfgFile      string
	verbose      bool
	noColor      bool
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "multicloud-cost",
	Short: "Compare infrastructure costs across AWS, Azure, GCP and Oracle Cloud",
	Long: `multicloud-cost normalizes an existing estate into one resource model,
projects it onto sizing requirements and prices those requirements on every
provider, including the cheapest per-category multi-cloud mix.

Examples:
  multicloud-cost calculate requirements.json
  multicloud-cost analyze terraform terraform.tfstate --currency EUR
  multicloud-cost analyze spreadsheet inventory.xlsx --format json
  multicloud-cost discover --providers aws,gcp
  multicloud-cost iac spreadsheet inventory.xlsx --provider azure`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json); defaults to output.format")

	rootCmd.AddCommand(versionCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if noColor {
		cfg.Output.NoColor = true
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	switch cfg.Output.Format {
	case "cli", "json":
	default:
		return errors.Inputf("unknown output format %q (want cli or json)", cfg.Output.Format)
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error initializing logging: %v\n", err)
	}
	logging.Debug("configuration loaded",
		zap.String("path", cfgFile),
		zap.String("pricing_table", cfg.Pricing.TablePath),
		zap.String("store", cfg.Store.Backend),
		logging.Secret("aws_secret_access_key", cfg.Discovery.AWS.SecretAccessKey),
		logging.Secret("azure_client_secret", cfg.Discovery.Azure.ClientSecret),
		logging.Secret("oracle_key_passphrase", cfg.Discovery.Oracle.PrivateKeyPassphrase),
	)
	return nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "multicloud-cost version %s\n", Version)
	},
}

func jsonOutput() bool {
	return config.Get().Output.Format == "json"
}

func newWriter(cmd *cobra.Command) *ui.Writer {
	w := ui.NewWriter(cmd.OutOrStdout(), config.Get().Output.NoColor)
	if verbose {
		w.SetVerbosity(2)
	}
	return w
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Internal("encode output", err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Inputf("file does not exist: %s", path)
		}
		return nil, errors.Parsing("read input", err).WithContext("path", path)
	}
	return data, nil
}

// resetFlags restores every flag of c and its children to its default. Flag
// variables are package globals, so repeated in-process runs need this.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

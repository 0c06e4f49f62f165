package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"multicloud-cost/core/pricing"
	"multicloud-cost/core/types"
	"multicloud-cost/internal/errors"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Pricing table management",
	Long: `The engine prices from one rate table. The built-in table can be replaced
by pointing pricing.table_path at an edited copy; every key the engine reads
is checked when a table is loaded.`,
}

var pricingValidateCmd = &cobra.Command{
	Use:   "validate [table.json]",
	Short: "Check a pricing table for missing or malformed rates",
	Long: `Load a pricing table and report every missing or non-numeric rate at once.
Without an argument the built-in table is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			table *pricing.Table
			err   error
		)
		if len(args) == 1 {
			table, err = pricing.LoadTableFile(args[0])
		} else {
			table, err = pricing.DefaultTable()
		}
		if err != nil {
			return err
		}
		newWriter(cmd).Success("pricing table %s is valid", table.Version())
		return nil
	},
}

var pricingExportCmd = &cobra.Command{
	Use:   "export [out.json]",
	Short: "Write the built-in pricing table",
	Long: `Write the built-in pricing table so it can be edited and used through
pricing.table_path. Without an argument the table is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data := pricing.Embedded()
		if len(args) == 0 {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return errors.Parsing("write pricing table", err).WithContext("path", args[0])
		}
		newWriter(cmd).Success("pricing table written to %s", args[0])
		return nil
	},
}

var pricingProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the providers in the active pricing table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(nil)
		if err != nil {
			return err
		}
		table := engine.Table()
		w := newWriter(cmd)
		t := w.NewTable("Provider", "Name", "kg CO2/kWh", "Renewable").AlignRight(2, 3)
		for _, p := range types.PricedProviders {
			info, err := table.Provider(p)
			if err != nil {
				return err
			}
			t.AddRow(string(p), info.Name, info.CO2PerKWh.String(), info.RenewablePercent.String()+"%")
		}
		w.Println("Pricing table %s", table.Version())
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pricingCmd)
	pricingCmd.AddCommand(pricingValidateCmd, pricingExportCmd, pricingProvidersCmd)
}

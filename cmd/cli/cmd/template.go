package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"multicloud-cost/adapters/spreadsheet"
	"multicloud-cost/internal/errors"
)

// templateCmd writes an empty inventory workbook
var templateCmd = &cobra.Command{
	Use:   "template <out.xlsx>",
	Short: "Write the inventory spreadsheet template",
	Long: `Write an inventory workbook with the expected column headers and one
example row. Fill it in and pass it to normalize, analyze or iac.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(args[0])
		if err != nil {
			return errors.Parsing("create template", err).WithContext("path", args[0])
		}
		defer f.Close()

		if err := spreadsheet.WriteTemplate(f); err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return errors.Parsing("write template", err).WithContext("path", args[0])
		}
		newWriter(cmd).Success("template written to %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
}

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"multicloud-cost/adapters/storage"
	"multicloud-cost/core/types"
	"multicloud-cost/core/ui"
)

var (
	snapLabel    string
	snapCurrency string
	snapLimit    int
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect saved calculation snapshots",
	Long: `Snapshots are calculation results saved with --save. They are kept in the
store configured under store.backend and store.directory.`,
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		snaps, err := store.List(cmd.Context(), &storage.ListFilter{
			Label:    snapLabel,
			Currency: types.Currency(strings.ToUpper(snapCurrency)),
			Limit:    snapLimit,
		})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return writeJSON(cmd.OutOrStdout(), snaps)
		}

		w := newWriter(cmd)
		if len(snaps) == 0 {
			w.Info("no snapshots")
			return nil
		}
		t := w.NewTable("ID", "Created", "Label", "Cheapest", "Total", "Multi-cloud").AlignRight(4, 5)
		for _, s := range snaps {
			t.AddRow(s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Label, string(s.Cheapest),
				s.CheapestTotal.StringFixed(2)+" "+string(s.Currency), s.MultiCloudCost.StringFixed(2))
		}
		t.Render()
		return nil
	},
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput() {
			return writeJSON(cmd.OutOrStdout(), snap)
		}
		w := newWriter(cmd)
		w.Println("Snapshot %s %s", snap.ID, snap.Label)
		w.Println("Saved %s", snap.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		if snap.Result != nil {
			ui.RenderCalculation(w, snap.Result)
		}
		return nil
	},
}

var snapshotsCompareCmd = &cobra.Command{
	Use:   "compare <old-id> <new-id>",
	Short: "Compare the cheapest totals of two snapshots",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		cmp, err := store.Compare(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if jsonOutput() {
			return writeJSON(cmd.OutOrStdout(), cmp)
		}
		w := newWriter(cmd)
		t := w.NewTable("", "Snapshot", "Cheapest", "Total").AlignRight(3)
		t.AddRow("old", cmp.OldID, string(cmp.OldCheapest), cmp.OldCost.StringFixed(2))
		t.AddRow("new", cmp.NewID, string(cmp.NewCheapest), cmp.NewCost.StringFixed(2))
		t.Render()
		w.Println("")
		w.Println("Change: %s (%s%%)", w.Delta(cmp.Delta, string(cmp.Currency)), cmp.DeltaPercent.StringFixed(2))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
	snapshotsCmd.AddCommand(snapshotsListCmd, snapshotsShowCmd, snapshotsCompareCmd)

	snapshotsListCmd.Flags().StringVar(&snapLabel, "label", "", "only snapshots with this label")
	snapshotsListCmd.Flags().StringVar(&snapCurrency, "currency", "", "only snapshots in this currency")
	snapshotsListCmd.Flags().IntVar(&snapLimit, "limit", 20, "maximum number of snapshots")
}

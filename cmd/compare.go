package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clubpulse/pacing-cli/internal/compare"
	"github.com/clubpulse/pacing-cli/internal/model"
)

var (
	compareBrand   string
	compareEdition string
	compareJSON    bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare an edition against its predecessors",
	Long:  "Aligns the target edition's registrations against every prior edition of the same brand at the same days-before-event offset.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := loadBrandRecords(ctx, st, compareBrand)
		if err != nil {
			return err
		}

		res := compare.Compare(records, compareBrand, compareEdition, nowUTC())
		if res == nil {
			fmt.Fprintln(os.Stderr, "Not enough data: the edition has no records or no resolvable event date.")
			return nil
		}

		if compareJSON {
			return writeJSON(os.Stdout, res)
		}
		printComparison(res)
		return nil
	},
}

func printComparison(res *model.ComparisonResult) {
	fmt.Printf("%s - %s (%d days before event)\n",
		res.Target, res.EventDate.Format("2006-01-02"), res.CurrentDaysBefore)
	fmt.Printf("current registrations: %d (attended so far: %d)\n\n",
		res.CurrentRegistrations, res.CurrentAttended)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EDITION\tFINAL\tAT SAME POINT\tDELTA\tDELTA %\tPROJECTED")
	for _, d := range res.Deltas {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\n",
			d.Edition, d.TotalFinal, d.AtSamePoint,
			fmtIntPtr(d.Delta), fmtPctPtr(d.DeltaPercent), fmtIntPtr(d.ProjectedFinal))
	}
	w.Flush()

	fmt.Printf("\navg at same point: %.1f  avg projected: %.1f  avg final: %.1f  progress: %d%%\n",
		res.AvgAtSamePoint, res.AvgProjectedFinal, res.AvgFinal, res.ProgressPercent)
}

func fmtIntPtr(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func fmtPctPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func init() {
	compareCmd.Flags().StringVar(&compareBrand, "brand", "", "target brand (required)")
	compareCmd.Flags().StringVar(&compareEdition, "edition", "", "target edition (required)")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "emit JSON")
	_ = compareCmd.MarkFlagRequired("brand")
	_ = compareCmd.MarkFlagRequired("edition")
	rootCmd.AddCommand(compareCmd)
}

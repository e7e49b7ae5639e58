package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clubpulse/pacing-cli/internal/compare"
	"github.com/clubpulse/pacing-cli/internal/model"
	"github.com/clubpulse/pacing-cli/internal/store"
)

var (
	crossLeft  string
	crossRight string
	crossJSON  bool
)

var crossbrandCmd = &cobra.Command{
	Use:   "crossbrand",
	Short: "Compare two brands edition by edition",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := st.ListRecords(ctx, store.RecordFilter{})
		if err != nil {
			return err
		}

		res := compare.CrossBrand(records, crossLeft, crossRight)
		if res == nil {
			fmt.Fprintln(os.Stderr, "No records for either brand.")
			return nil
		}

		if crossJSON {
			return writeJSON(os.Stdout, res)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "BRAND\tEDITIONS\tTOTAL REGS\tAVG/EDITION\tCONVERSION %")
		for _, a := range []model.BrandAggregate{res.Left, res.Right} {
			fmt.Fprintf(w, "%s\t%d\t%d\t%.1f\t%.1f\n",
				a.Brand, a.Editions, a.TotalRegs, a.AvgPerEdition, a.AvgConversion)
		}
		return w.Flush()
	},
}

func init() {
	crossbrandCmd.Flags().StringVar(&crossLeft, "left", "", "first brand (required)")
	crossbrandCmd.Flags().StringVar(&crossRight, "right", "", "second brand (required)")
	crossbrandCmd.Flags().BoolVar(&crossJSON, "json", false, "emit JSON")
	_ = crossbrandCmd.MarkFlagRequired("left")
	_ = crossbrandCmd.MarkFlagRequired("right")
	rootCmd.AddCommand(crossbrandCmd)
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clubpulse/pacing-cli/internal/segment"
)

var (
	segmentsBrand   string
	segmentsEdition string
	segmentsJSON    bool
)

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "Build registered and retarget lists for an edition",
	Long:  "Partitions the brand's historical attendees into users already registered for the target edition and retarget candidates from earlier editions, contactable first.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := loadBrandRecords(ctx, st, segmentsBrand)
		if err != nil {
			return err
		}

		lists := segment.EditionUserLists(records, segmentsBrand, segmentsEdition)
		if segmentsJSON {
			return writeJSON(os.Stdout, lists)
		}

		fmt.Printf("%s: %d registered, %d retarget candidates\n\n",
			lists.Target, len(lists.Registered), len(lists.Retarget))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPHONE\tEMAIL\tPAST EDITIONS\tLAST SEEN")
		for _, u := range lists.Retarget {
			last := "-"
			if u.LastEventDate != nil {
				last = u.LastEventDate.Format("2006-01-02")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				u.FullName, u.Phone, u.Email, len(u.PastEditions), last)
		}
		return w.Flush()
	},
}

func init() {
	segmentsCmd.Flags().StringVar(&segmentsBrand, "brand", "", "target brand (required)")
	segmentsCmd.Flags().StringVar(&segmentsEdition, "edition", "", "target edition (required)")
	segmentsCmd.Flags().BoolVar(&segmentsJSON, "json", false, "emit JSON")
	_ = segmentsCmd.MarkFlagRequired("brand")
	_ = segmentsCmd.MarkFlagRequired("edition")
	rootCmd.AddCommand(segmentsCmd)
}

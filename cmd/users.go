package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clubpulse/pacing-cli/internal/model"
	"github.com/clubpulse/pacing-cli/internal/segment"
	"github.com/clubpulse/pacing-cli/internal/store"
)

var (
	usersSegment   string
	usersBirthdays int
	usersJSON      bool
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Classify attendees into loyalty segments",
	Long:  "Aggregates every attendee across all records and assigns vip/fedeli/occasionali/ghost segments. Optionally filters to upcoming birthdays for outreach.",
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

		users := segment.ClassifyUsers(records)
		if usersSegment != "" {
			var filtered []model.UserStats
			for _, u := range users {
				if u.Segment == model.Segment(usersSegment) {
					filtered = append(filtered, u)
				}
			}
			users = filtered
		}
		if usersBirthdays > 0 {
			users = segment.UpcomingBirthdays(users, nowUTC(), usersBirthdays)
		}

		if usersJSON {
			return writeJSON(os.Stdout, users)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSEGMENT\tREGS\tATTENDED\tEVENTS\tCONVERSION %")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.0f\n",
				u.FullName, u.Segment, u.TotalRegs, u.TotalParticipated, u.EventCount, u.Conversion)
		}
		return w.Flush()
	},
}

func init() {
	usersCmd.Flags().StringVar(&usersSegment, "segment", "", "filter by segment (vip, fedeli, occasionali, ghost)")
	usersCmd.Flags().IntVar(&usersBirthdays, "birthdays", 0, "only users with a birthday in the next N days")
	usersCmd.Flags().BoolVar(&usersJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(usersCmd)
}

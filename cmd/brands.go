package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var brandsCheck bool

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List stored brands and editions",
	Long:  "Shows the brand/edition inventory with record counts. --check reports registry patterns shadowed by earlier brands, which would silently win under first-match resolution.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if brandsCheck {
			reg, _, err := loadRegistry()
			if err != nil {
				return err
			}
			shadowed := reg.Shadowed()
			if len(shadowed) == 0 {
				fmt.Println("No shadowed patterns.")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BRAND\tEDITION\tPATTERN\tSHADOWED BY")
			for _, s := range shadowed {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Brand, s.Edition, s.Pattern, s.ShadowedBy)
			}
			return w.Flush()
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		editions, err := st.ListEditions(ctx)
		if err != nil {
			return err
		}
		if len(editions) == 0 {
			fmt.Fprintln(os.Stderr, "No records stored yet; run ingest first.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "BRAND\tEDITION\tRECORDS\tATTENDED")
		for _, e := range editions {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", e.Brand, e.Edition, e.Records, e.Attended)
		}
		return w.Flush()
	},
}

func init() {
	brandsCmd.Flags().BoolVar(&brandsCheck, "check", false, "report shadowed registry patterns")
	rootCmd.AddCommand(brandsCmd)
}

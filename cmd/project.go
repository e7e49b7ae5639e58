package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clubpulse/pacing-cli/internal/projection"
)

var (
	projectBrand   string
	projectEdition string
	projectJSON    bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project an edition's final registration count",
	Long:  "Runs the linear-regression and weighted-ensemble models over the brand's prior editions. Models return nothing when history is insufficient.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := loadBrandRecords(ctx, st, projectBrand)
		if err != nil {
			return err
		}

		proj := projection.Project(records, projectBrand, projectEdition, nowUTC())
		if proj == nil {
			fmt.Fprintln(os.Stderr, "Not enough data: the edition has no records or no resolvable event date.")
			return nil
		}

		if projectJSON {
			return writeJSON(os.Stdout, proj)
		}
		if proj.Linear != nil {
			fmt.Printf("linear regression: %.0f\n", *proj.Linear)
		} else {
			fmt.Println("linear regression: insufficient history")
		}
		if proj.Ensemble != nil {
			fmt.Printf("weighted ensemble: %.0f\n", *proj.Ensemble)
		} else {
			fmt.Println("weighted ensemble: insufficient history")
		}
		return nil
	},
}

func init() {
	projectCmd.Flags().StringVar(&projectBrand, "brand", "", "target brand (required)")
	projectCmd.Flags().StringVar(&projectEdition, "edition", "", "target edition (required)")
	projectCmd.Flags().BoolVar(&projectJSON, "json", false, "emit JSON")
	_ = projectCmd.MarkFlagRequired("brand")
	_ = projectCmd.MarkFlagRequired("edition")
	rootCmd.AddCommand(projectCmd)
}

package main

import (
	"fmt"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/clubpulse/pacing-cli/internal/fetcher"
	"github.com/clubpulse/pacing-cli/internal/model"
	"github.com/clubpulse/pacing-cli/internal/normalize"
)

var ingestConcurrency int

var ingestCmd = &cobra.Command{
	Use:   "ingest <file...>",
	Short: "Ingest export files into the record store",
	Long:  "Parses CSV/TSV/XLSX ticketing exports, normalizes rows into attendance records, and stores them. Malformed rows are counted and skipped, never fatal.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		reg, ov, err := loadRegistry()
		if err != nil {
			return err
		}
		norm := normalize.New(reg, ov)
		norm.Season.Cutoff = cfg.Season.Cutoff()

		type result struct {
			source  string
			records []model.AttendanceRecord
			summary model.IngestSummary
		}
		var mu sync.Mutex
		var results []result

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(ingestConcurrency)
		for _, path := range args {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				exp, err := fetcher.ReadExport(path)
				if err != nil {
					return eris.Wrapf(err, "read %s", path)
				}
				mapping, err := normalize.MapHeader(exp.Header)
				if err != nil {
					return eris.Wrapf(err, "map header of %s", path)
				}
				records, summary := norm.Rows(mapping, exp.Rows)

				mu.Lock()
				results = append(results, result{source: path, records: records, summary: summary})
				mu.Unlock()

				zap.L().Info("ingest: file normalized",
					zap.String("file", path),
					zap.Int("rows", summary.RowsRead),
					zap.Int("parsed", summary.Parsed),
					zap.Int("dropped_dates", summary.DroppedDates),
					zap.Int("excluded", summary.Excluded),
					zap.Int("senior", summary.Senior),
					zap.Int("clamped", summary.Clamped),
				)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "ingest")
		}

		var total model.IngestSummary
		for _, r := range results {
			batch := model.IngestBatch{
				ID:        uuid.NewString(),
				Source:    r.source,
				Records:   len(r.records),
				CreatedAt: time.Now().UTC(),
			}
			if err := st.InsertBatch(ctx, batch, r.records); err != nil {
				return eris.Wrapf(err, "store batch for %s", r.source)
			}
			total.RowsRead += r.summary.RowsRead
			total.Parsed += r.summary.Parsed
			total.DroppedDates += r.summary.DroppedDates
			total.Excluded += r.summary.Excluded
			total.Senior += r.summary.Senior
			total.Clamped += r.summary.Clamped
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROWS\tPARSED\tBAD DATES\tEXCLUDED\tSENIOR\tCLAMPED")
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\n",
			total.RowsRead, total.Parsed, total.DroppedDates, total.Excluded, total.Senior, total.Clamped)
		return w.Flush()
	},
}

func init() {
	ingestCmd.Flags().IntVar(&ingestConcurrency, "concurrency", 4, "files parsed in parallel")
	rootCmd.AddCommand(ingestCmd)
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clubpulse/pacing-cli/internal/fetcher"
)

var (
	fetchAll bool
	fetchOut string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [name...]",
	Short: "Download export files from the ticketing platform's FTP drop",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.FTP.Host == "" {
			return eris.New("ftp host is required (PACING_FTP_HOST)")
		}

		f := fetcher.NewFTPFetcher(fetcher.FTPOptions{
			Host:     cfg.FTP.Host,
			User:     cfg.FTP.User,
			Password: cfg.FTP.Password,
			Dir:      cfg.FTP.Dir,
		})

		names := args
		if fetchAll {
			var err error
			names, err = f.ListExports(ctx)
			if err != nil {
				return eris.Wrap(err, "list exports")
			}
		}
		if len(names) == 0 {
			return eris.New("nothing to fetch: pass file names or --all")
		}

		for _, name := range names {
			local := filepath.Join(fetchOut, filepath.Base(name))
			n, err := f.DownloadToFile(ctx, name, local)
			if err != nil {
				return eris.Wrapf(err, "download %s", name)
			}
			zap.L().Info("fetch: downloaded export",
				zap.String("name", name),
				zap.String("local", local),
				zap.Int64("bytes", n),
			)
			fmt.Println(local)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchAll, "all", false, "download every export in the drop directory")
	fetchCmd.Flags().StringVar(&fetchOut, "out", ".", "local output directory")
	rootCmd.AddCommand(fetchCmd)
}

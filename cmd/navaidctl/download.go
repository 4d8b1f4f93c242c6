package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/navaid-service/internal/adapter/faa"
	"github.com/couchcryptid/navaid-service/internal/observability"
)

func newDownloadCmd(opts *options) *cobra.Command {
	var pageURL string
	cmd := &cobra.Command{
		Use:   "download [data_dir]",
		Short: "Download the current NASR subscription and extract APT, NAV and FIX",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pageURL == "" {
				pageURL = opts.cfg.NASRPageURL
			}
			logger := observability.NewTextLogger(cmd.ErrOrStderr(), opts.logLevel)
			client := faa.NewClient(pageURL, opts.cfg.DownloadTimeout, logger)
			return runDownload(cmd.Context(), cmd, client, opts.dataDir(args))
		},
	}
	cmd.Flags().StringVar(&pageURL, "page-url", "", "Subscription page to scrape (default NASR_PAGE_URL)")
	return cmd
}

func runDownload(ctx context.Context, cmd *cobra.Command, client *faa.Client, dir string) error {
	res, err := client.Download(ctx, dir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Downloaded %s\n", res.ArchiveURL)
	for _, f := range res.Files {
		fmt.Fprintf(out, "  %-8s %8d records  %s\n", f.Name, f.Records, f.Path)
	}
	return nil
}

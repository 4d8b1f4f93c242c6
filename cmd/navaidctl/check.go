package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/navaid-service/internal/adapter/datadir"
	"github.com/couchcryptid/navaid-service/internal/observability"
	"github.com/couchcryptid/navaid-service/internal/registry"
)

func newCheckCmd(opts *options) *cobra.Command {
	var samples int
	cmd := &cobra.Command{
		Use:   "check [data_dir]",
		Short: "Load the data directory and report loaded and skipped records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.NewTextLogger(cmd.ErrOrStderr(), opts.logLevel)
			loader := datadir.NewLoader(opts.dataDir(args), registry.NewStore(), observability.NewMetricsWith(prometheus.NewRegistry()), logger)
			stats, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), loader.Dir(), stats, samples)
			if stats.Airports.Loaded+stats.Navaids.Loaded+stats.Fixes.Loaded == 0 {
				return errors.Newf("no records loaded from %s", loader.Dir())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&samples, "samples", 5, "Skipped lines to print per file")
	return cmd
}

func printStats(w io.Writer, dir string, s registry.Stats, samples int) {
	fmt.Fprintf(w, "=== NASR data check: %s ===\n\n", dir)
	rows := []struct {
		name string
		ks   registry.KindStats
	}{
		{"airports", s.Airports},
		{"navaids", s.Navaids},
		{"waypoints", s.Fixes},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-10s %8d loaded %6d skipped\n", r.name, r.ks.Loaded, r.ks.Skipped)
	}
	fmt.Fprintf(w, "  %-10s %8d\n", "icao", s.ICAOAliases)

	for _, r := range rows {
		if r.ks.Skipped == 0 || samples <= 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- skipped %s ---\n", r.name)
		for i, sl := range r.ks.Samples {
			if i == samples {
				fmt.Fprintf(w, "  ... and %d more\n", r.ks.Skipped-samples)
				break
			}
			fmt.Fprintf(w, "  line %d: %s\n", sl.Line, sl.Reason)
		}
	}
}

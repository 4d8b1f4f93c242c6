// Command navaidctl manages the NASR data directory and resolves identifiers
// offline against it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/navaid-service/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// options carries the persistent flags shared by every subcommand.
type options struct {
	logLevel string
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "navaidctl",
		Short: "Download and inspect FAA NASR navigation data",
		Long: `navaidctl works with the data directory the navaid service reads.

Examples:
  navaidctl download ./data           # fetch the current 28-day subscription
  navaidctl check ./data              # load the files and report skipped lines
  navaidctl resolve SEA270005         # resolve packed notation
  navaidctl resolve BANGR 180 12 --kind waypoint`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.Wrap(err, "load config")
			}
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	root.AddCommand(newDownloadCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newResolveCmd(opts))
	return root
}

// dataDir returns the directory argument, falling back to DATA_DIR.
func (o *options) dataDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return o.cfg.DataDir
}

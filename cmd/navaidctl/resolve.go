package main

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/navaid-service/internal/adapter/datadir"
	"github.com/couchcryptid/navaid-service/internal/domain"
	"github.com/couchcryptid/navaid-service/internal/observability"
	"github.com/couchcryptid/navaid-service/internal/registry"
	"github.com/couchcryptid/navaid-service/internal/resolve"
	"github.com/couchcryptid/navaid-service/internal/wire"
)

func newResolveCmd(opts *options) *cobra.Command {
	var kindName, dir string
	cmd := &cobra.Command{
		Use:   "resolve <code> [radial distance]",
		Short: "Resolve an identifier, packed notation or radial/distance offline",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return errors.Newf("want <code> or <code> <radial> <distance>, got %d args", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := domain.ParseKind(kindName)
			if !ok {
				return errors.Newf("unknown kind %q", kindName)
			}
			if dir == "" {
				dir = opts.cfg.DataDir
			}

			store := registry.NewStore()
			logger := observability.NewTextLogger(cmd.ErrOrStderr(), opts.logLevel)
			if _, err := datadir.NewLoader(dir, store, observability.NewMetricsWith(prometheus.NewRegistry()), logger).Load(cmd.Context()); err != nil {
				return err
			}

			body, err := resolveArgs(resolve.New(store), kind, args)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(body)
		},
	}
	cmd.Flags().StringVar(&kindName, "kind", "any", "Index to search: airport, navaid, waypoint or any")
	cmd.Flags().StringVar(&dir, "data-dir", "", "Data directory (default DATA_DIR)")
	return cmd
}

func resolveArgs(r *resolve.Resolver, kind domain.Kind, args []string) (any, error) {
	if len(args) == 1 {
		res, err := r.Resolve(kind, args[0])
		if err != nil {
			return nil, err
		}
		return wire.FromResult(res), nil
	}

	radial, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return nil, errors.Newf("radial must be a number: %q", args[1])
	}
	distance, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return nil, errors.Newf("distance must be a number: %q", args[2])
	}
	p, err := r.Project(kind, args[0], radial, distance)
	if err != nil {
		return nil, err
	}
	return wire.FromProjection(p), nil
}

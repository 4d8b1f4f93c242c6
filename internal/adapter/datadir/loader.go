// Package datadir loads the NASR subscription files from a directory into the
// registry store and reloads them when they change.
package datadir

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/couchcryptid/navaid-service/internal/nasr"
	"github.com/couchcryptid/navaid-service/internal/observability"
	"github.com/couchcryptid/navaid-service/internal/registry"
)

// skipSamplesLogged bounds the skipped lines echoed to the log per kind.
const skipSamplesLogged = 5

// Loader builds registry generations from the files in a directory and
// installs them in a Store.
type Loader struct {
	dir     string
	store   *registry.Store
	metrics *observability.Metrics
	logger  *slog.Logger

	mu sync.Mutex // one build at a time
}

// NewLoader creates a Loader for dir.
func NewLoader(dir string, store *registry.Store, metrics *observability.Metrics, logger *slog.Logger) *Loader {
	return &Loader{dir: dir, store: store, metrics: metrics, logger: logger}
}

// Dir returns the directory the loader reads.
func (l *Loader) Dir() string { return l.dir }

// Load reads APT.txt, NAV.txt and FIX.txt, builds a registry and swaps it in.
// A missing file leaves its index empty. On any other error the previous
// generation stays active.
func (l *Loader) Load(ctx context.Context) (registry.Stats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return registry.Stats{}, err
	}

	stats, err := l.build()
	if err != nil {
		l.metrics.RecordLoadFailure()
		l.logger.Error("registry load failed, keeping previous generation",
			"dir", l.dir, "error", err)
		return registry.Stats{}, err
	}

	l.metrics.RecordLoad(stats)
	l.logger.Info("registry loaded",
		"dir", l.dir,
		"generation", stats.Generation,
		"airports", stats.Airports.Loaded,
		"icao_aliases", stats.ICAOAliases,
		"navaids", stats.Navaids.Loaded,
		"fixes", stats.Fixes.Loaded,
		"skipped", stats.TotalSkipped(),
	)
	l.logSkipped("airport", stats.Airports)
	l.logSkipped("navaid", stats.Navaids)
	l.logSkipped("waypoint", stats.Fixes)
	return stats, nil
}

func (l *Loader) build() (registry.Stats, error) {
	var src registry.Sources
	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			c.Close() //nolint:errcheck // read-only files
		}
	}()

	for _, target := range []struct {
		layout nasr.Layout
		reader *io.Reader
	}{
		{nasr.AirportLayout, &src.Airports},
		{nasr.NavaidLayout, &src.Navaids},
		{nasr.FixLayout, &src.Fixes},
	} {
		f, err := l.open(target.layout.File)
		if err != nil {
			return registry.Stats{}, err
		}
		if f == nil {
			continue
		}
		closers = append(closers, f)
		*target.reader = f
	}

	reg, err := registry.Build(src)
	if err != nil {
		return registry.Stats{}, err
	}
	l.store.Replace(reg)
	return reg.Stats(), nil
}

// open returns nil, nil for a missing file.
func (l *Loader) open(name string) (*os.File, error) {
	path := filepath.Join(l.dir, name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("data file not found, index will be empty; run navaidctl download", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

func (l *Loader) logSkipped(kind string, ks registry.KindStats) {
	if ks.Skipped == 0 {
		return
	}
	for i, s := range ks.Samples {
		if i == skipSamplesLogged {
			break
		}
		l.logger.Warn("skipped record", "kind", kind, "line", s.Line, "reason", s.Reason)
	}
}

// CheckReadiness reports ready once a non-empty registry is installed.
func (l *Loader) CheckReadiness(_ context.Context) error {
	if l.store.Current().IsEmpty() {
		return errors.New("registry has no entries loaded")
	}
	return nil
}

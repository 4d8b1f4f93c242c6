// Package registry holds the identifier indices built from one load of the
// NASR files. A Registry never changes after Build returns; reloads build a
// new one and swap it in through Store.
package registry

import (
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/couchcryptid/navaid-service/internal/domain"
	"github.com/couchcryptid/navaid-service/internal/nasr"
)

// maxSkipSamples caps the skipped lines retained per kind for diagnostics.
const maxSkipSamples = 50

// Sources are the raw file contents for one load. A nil reader stands for a
// missing file and leaves that index empty.
type Sources struct {
	Airports io.Reader
	Navaids  io.Reader
	Fixes    io.Reader
}

// SkippedLine records why a source line was dropped.
type SkippedLine struct {
	Line   int
	Reason string
}

// KindStats counts the outcome of loading one file.
type KindStats struct {
	Loaded  int // distinct identifiers indexed
	Skipped int
	Samples []SkippedLine // first skipped lines, at most maxSkipSamples
}

// Stats describes one registry generation.
type Stats struct {
	Generation  string
	LoadedAt    time.Time
	Airports    KindStats
	ICAOAliases int
	Navaids     KindStats
	Fixes       KindStats
}

// TotalSkipped is the number of dropped lines across all files.
func (s Stats) TotalSkipped() int {
	return s.Airports.Skipped + s.Navaids.Skipped + s.Fixes.Skipped
}

// Registry indexes airports, navaids and fixes by identifier. Airports are
// also indexed by ICAO code; both keys point at the same entry.
type Registry struct {
	airports       map[string]*domain.Airport
	airportsByICAO map[string]*domain.Airport
	navaids        map[string]*domain.Navaid
	fixes          map[string]*domain.Fix
	stats          Stats
}

// Empty returns a registry with no entries.
func Empty() *Registry {
	return &Registry{
		airports:       map[string]*domain.Airport{},
		airportsByICAO: map[string]*domain.Airport{},
		navaids:        map[string]*domain.Navaid{},
		fixes:          map[string]*domain.Fix{},
	}
}

// Build parses every source and indexes the valid records. Lines that fail to
// parse are counted and skipped; only read errors abort the build. Within a
// kind a repeated identifier replaces the earlier record.
func Build(src Sources) (*Registry, error) {
	r := Empty()

	var err error
	r.stats.Airports, err = load(src.Airports, nasr.AirportLayout, func(rec nasr.Record) error {
		apt, err := nasr.ToAirport(rec)
		if err != nil {
			return err
		}
		if prev, ok := r.airports[apt.Identifier]; ok && prev.ICAO != "" && r.airportsByICAO[prev.ICAO] == prev {
			delete(r.airportsByICAO, prev.ICAO)
		}
		r.airports[apt.Identifier] = &apt
		if apt.ICAO != "" {
			r.airportsByICAO[apt.ICAO] = &apt
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "load airports")
	}

	r.stats.Navaids, err = load(src.Navaids, nasr.NavaidLayout, func(rec nasr.Record) error {
		n, err := nasr.ToNavaid(rec)
		if err != nil {
			return err
		}
		r.navaids[n.Identifier] = &n
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "load navaids")
	}

	r.stats.Fixes, err = load(src.Fixes, nasr.FixLayout, func(rec nasr.Record) error {
		f, err := nasr.ToFix(rec)
		if err != nil {
			return err
		}
		r.fixes[f.Identifier] = &f
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "load fixes")
	}

	r.stats.Airports.Loaded = len(r.airports)
	r.stats.ICAOAliases = len(r.airportsByICAO)
	r.stats.Navaids.Loaded = len(r.navaids)
	r.stats.Fixes.Loaded = len(r.fixes)
	r.stats.Generation = uuid.NewString()
	r.stats.LoadedAt = domain.Now()

	return r, nil
}

// load feeds each matching line of src through parse and add.
func load(src io.Reader, layout nasr.Layout, add func(nasr.Record) error) (KindStats, error) {
	var ks KindStats
	err := nasr.ForEach(src, layout, func(lineNo int, line string) {
		rec, err := nasr.Parse(line, layout)
		if err == nil {
			err = add(rec)
		}
		if err != nil {
			ks.Skipped++
			if len(ks.Samples) < maxSkipSamples {
				ks.Samples = append(ks.Samples, SkippedLine{Line: lineNo, Reason: err.Error()})
			}
		}
	})
	return ks, err
}

// Stats reports what this generation loaded.
func (r *Registry) Stats() Stats { return r.stats }

// IsEmpty reports whether no index holds any entry.
func (r *Registry) IsEmpty() bool {
	return len(r.airports) == 0 && len(r.navaids) == 0 && len(r.fixes) == 0
}

// LookupAirport finds an airport by FAA identifier, then by ICAO code.
func (r *Registry) LookupAirport(code string) (domain.Airport, bool) {
	code = domain.NormalizeIdent(code)
	if a, ok := r.airports[code]; ok {
		return *a, true
	}
	if a, ok := r.airportsByICAO[code]; ok {
		return *a, true
	}
	return domain.Airport{}, false
}

// LookupNavaid finds a navaid by identifier.
func (r *Registry) LookupNavaid(code string) (domain.Navaid, bool) {
	if n, ok := r.navaids[domain.NormalizeIdent(code)]; ok {
		return *n, true
	}
	return domain.Navaid{}, false
}

// LookupFix finds a fix by identifier.
func (r *Registry) LookupFix(code string) (domain.Fix, bool) {
	if f, ok := r.fixes[domain.NormalizeIdent(code)]; ok {
		return *f, true
	}
	return domain.Fix{}, false
}

// LookupAny searches airports, then navaids, then fixes, and returns the
// first match. Airports therefore shadow navaids and fixes with the same
// identifier.
func (r *Registry) LookupAny(code string) (domain.Point, bool) {
	if a, ok := r.LookupAirport(code); ok {
		return a, true
	}
	if n, ok := r.LookupNavaid(code); ok {
		return n, true
	}
	if f, ok := r.LookupFix(code); ok {
		return f, true
	}
	return nil, false
}

// Lookup dispatches to the index for kind; KindAny behaves as LookupAny.
func (r *Registry) Lookup(kind domain.Kind, code string) (domain.Point, bool) {
	switch kind {
	case domain.KindAirport:
		if a, ok := r.LookupAirport(code); ok {
			return a, true
		}
	case domain.KindNavaid:
		if n, ok := r.LookupNavaid(code); ok {
			return n, true
		}
	case domain.KindFix:
		if f, ok := r.LookupFix(code); ok {
			return f, true
		}
	default:
		return r.LookupAny(code)
	}
	return nil, false
}

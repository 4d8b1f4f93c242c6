// Package resolve answers lookup and projection requests against the current
// registry generation.
package resolve

import (
	"math"

	"github.com/couchcryptid/navaid-service/internal/domain"
	"github.com/couchcryptid/navaid-service/internal/registry"
)

// Source supplies the registry generation for a request.
type Source interface {
	Current() *registry.Registry
}

// Projection is a point offset from a reference by radial and distance.
type Projection struct {
	Reference  string
	Kind       domain.Kind // kind of the reference point
	Radial     float64
	DistanceNM float64
	Location   domain.GeoPoint
}

// Result is the answer to a single-token request: exactly one of Point and
// Projection is set.
type Result struct {
	Point      domain.Point
	Projection *Projection
}

// Resolver composes registry lookups, notation decoding and projection.
type Resolver struct {
	source Source
}

// New creates a Resolver reading from source.
func New(source Source) *Resolver {
	return &Resolver{source: source}
}

// Lookup resolves code in the index for kind. KindAny searches airports,
// navaids and fixes in that order.
func (r *Resolver) Lookup(kind domain.Kind, code string) (domain.Point, error) {
	return lookup(r.source.Current(), kind, code)
}

// Project resolves code and returns the point radial degrees and distanceNM
// nautical miles from it. Radial must lie in [0,360] and distance be
// non-negative.
func (r *Resolver) Project(kind domain.Kind, code string, radial, distanceNM float64) (Projection, error) {
	if err := validate(radial, distanceNM); err != nil {
		return Projection{}, err
	}
	ref, err := lookup(r.source.Current(), kind, code)
	if err != nil {
		return Projection{}, err
	}

	dest := domain.Project(ref.Location(), radial, distanceNM)
	return Projection{
		Reference:  ref.Ident(),
		Kind:       ref.Kind(),
		Radial:     radial,
		DistanceNM: distanceNM,
		Location: domain.GeoPoint{
			Latitude:  round6(dest.Latitude),
			Longitude: round6(dest.Longitude),
		},
	}, nil
}

// ProjectNotation decodes a packed "{ID}{RADIAL}{DISTANCE}" token and projects it.
func (r *Resolver) ProjectNotation(kind domain.Kind, token string) (Projection, error) {
	n, err := domain.DecodeNotation(token)
	if err != nil {
		return Projection{}, err
	}
	return r.Project(kind, n.ID, float64(n.Radial), float64(n.Distance))
}

// Resolve treats tokens ending in six digits as packed notation and anything
// else as an identifier.
func (r *Resolver) Resolve(kind domain.Kind, token string) (Result, error) {
	if domain.LooksLikeNotation(token) {
		p, err := r.ProjectNotation(kind, token)
		if err != nil {
			return Result{}, err
		}
		return Result{Projection: &p}, nil
	}
	p, err := r.Lookup(kind, token)
	if err != nil {
		return Result{}, err
	}
	return Result{Point: p}, nil
}

func lookup(reg *registry.Registry, kind domain.Kind, code string) (domain.Point, error) {
	p, ok := reg.Lookup(kind, code)
	if !ok {
		return nil, &domain.NotFoundError{Kind: kind, Code: domain.NormalizeIdent(code)}
	}
	return p, nil
}

func validate(radial, distanceNM float64) error {
	if math.IsNaN(radial) || radial < 0 || radial > 360 {
		return &domain.ValidationError{Field: "radial", Value: radial, Reason: "must be between 0 and 360"}
	}
	if math.IsNaN(distanceNM) || math.IsInf(distanceNM, 0) || distanceNM < 0 {
		return &domain.ValidationError{Field: "distance", Value: distanceNM, Reason: "must be a non-negative number"}
	}
	return nil
}

// round6 keeps six decimal places, about 0.1 m.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

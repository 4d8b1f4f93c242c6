// Package wire defines the JSON bodies returned by the HTTP API and published
// on the result topic.
package wire

import (
	"time"

	"github.com/couchcryptid/navaid-service/internal/domain"
	"github.com/couchcryptid/navaid-service/internal/registry"
	"github.com/couchcryptid/navaid-service/internal/resolve"
)

// FixType is the fixed "type" value of a fix body.
const FixType = "FIX"

type Airport struct {
	Identifier string  `json:"identifier"`
	ICAO       string  `json:"icao"`
	Name       string  `json:"name"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	Type       string  `json:"type"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type Navaid struct {
	Identifier string  `json:"identifier"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type Fix struct {
	Identifier string  `json:"identifier"`
	Type       string  `json:"type"`
	State      string  `json:"state"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Projection is a radial/distance answer. Type is the kind of the reference
// point ("airport", "navaid" or "waypoint").
type Projection struct {
	Reference  string  `json:"reference"`
	Type       string  `json:"type"`
	Radial     float64 `json:"radial"`
	DistanceNM float64 `json:"distance_nm"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Error is the body of every non-2xx API response.
type Error struct {
	Detail string `json:"detail"`
}

// Health reports the loaded registry. The *_count fields keep the names
// existing clients poll.
type Health struct {
	Status       string    `json:"status"`
	NavaidCount  int       `json:"navaid_count"`
	FixCount     int       `json:"fix_count"`
	AirportCount int       `json:"airport_count"`
	Skipped      Skipped   `json:"skipped"`
	Generation   string    `json:"generation,omitempty"`
	LoadedAt     time.Time `json:"loaded_at,omitzero"`
}

type Skipped struct {
	Airports int `json:"airports"`
	Navaids  int `json:"navaids"`
	Fixes    int `json:"fixes"`
}

// FromPoint converts a resolved point to its body.
func FromPoint(p domain.Point) any {
	switch v := p.(type) {
	case domain.Airport:
		return Airport{
			Identifier: v.Identifier,
			ICAO:       v.ICAO,
			Name:       v.Name,
			City:       v.City,
			State:      v.State,
			Type:       v.FacilityType,
			Latitude:   v.Position.Latitude,
			Longitude:  v.Position.Longitude,
		}
	case domain.Navaid:
		return Navaid{
			Identifier: v.Identifier,
			Name:       v.Name,
			Type:       string(v.Type),
			Latitude:   v.Position.Latitude,
			Longitude:  v.Position.Longitude,
		}
	case domain.Fix:
		return Fix{
			Identifier: v.Identifier,
			Type:       FixType,
			State:      v.State,
			Latitude:   v.Position.Latitude,
			Longitude:  v.Position.Longitude,
		}
	}
	return nil
}

// FromProjection converts a projection to its body.
func FromProjection(p resolve.Projection) Projection {
	return Projection{
		Reference:  p.Reference,
		Type:       p.Kind.String(),
		Radial:     p.Radial,
		DistanceNM: p.DistanceNM,
		Latitude:   p.Location.Latitude,
		Longitude:  p.Location.Longitude,
	}
}

// FromResult picks the point or projection body, whichever is set.
func FromResult(r resolve.Result) any {
	if r.Projection != nil {
		return FromProjection(*r.Projection)
	}
	return FromPoint(r.Point)
}

// FromStats builds the health body for a registry generation.
func FromStats(s registry.Stats) Health {
	return Health{
		Status:       "ok",
		NavaidCount:  s.Navaids.Loaded,
		FixCount:     s.Fixes.Loaded,
		AirportCount: s.Airports.Loaded,
		Skipped: Skipped{
			Airports: s.Airports.Skipped,
			Navaids:  s.Navaids.Skipped,
			Fixes:    s.Fixes.Skipped,
		},
		Generation: s.Generation,
		LoadedAt:   s.LoadedAt,
	}
}

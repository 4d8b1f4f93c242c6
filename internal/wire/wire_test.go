package wire_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/navaid-service/internal/domain"
	"github.com/couchcryptid/navaid-service/internal/registry"
	"github.com/couchcryptid/navaid-service/internal/resolve"
	"github.com/couchcryptid/navaid-service/internal/wire"
)

func marshal(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestFromPoint_Airport(t *testing.T) {
	apt := domain.Airport{
		Identifier:   "SEA",
		ICAO:         "KSEA",
		Name:         "SEATTLE-TACOMA INTL",
		City:         "SEATTLE",
		State:        "WA",
		FacilityType: "AIRPORT",
		Position:     domain.GeoPoint{Latitude: 47.449, Longitude: -122.3085},
	}

	assert.JSONEq(t, `{
		"identifier": "SEA",
		"icao": "KSEA",
		"name": "SEATTLE-TACOMA INTL",
		"city": "SEATTLE",
		"state": "WA",
		"type": "AIRPORT",
		"latitude": 47.449,
		"longitude": -122.3085
	}`, marshal(t, wire.FromPoint(apt)))
}

func TestFromPoint_Navaid(t *testing.T) {
	n := domain.Navaid{
		Identifier: "SEA",
		Name:       "SEATTLE",
		Type:       domain.NavaidVORTAC,
		City:       "SEATTLE",
		State:      "WA",
		Position:   domain.GeoPoint{Latitude: 47.435278, Longitude: -122.309722},
	}

	assert.JSONEq(t, `{
		"identifier": "SEA",
		"name": "SEATTLE",
		"type": "VORTAC",
		"latitude": 47.435278,
		"longitude": -122.309722
	}`, marshal(t, wire.FromPoint(n)))
}

func TestFromPoint_Fix(t *testing.T) {
	f := domain.Fix{
		Identifier: "BANGR",
		State:      "WASHINGTON",
		ICAORegion: "K1",
		Position:   domain.GeoPoint{Latitude: 47.4625, Longitude: -122.928611},
	}

	assert.JSONEq(t, `{
		"identifier": "BANGR",
		"type": "FIX",
		"state": "WASHINGTON",
		"latitude": 47.4625,
		"longitude": -122.928611
	}`, marshal(t, wire.FromPoint(f)))
}

func TestFromResult_Projection(t *testing.T) {
	r := resolve.Result{Projection: &resolve.Projection{
		Reference:  "SEA",
		Kind:       domain.KindFix,
		Radial:     270,
		DistanceNM: 5,
		Location:   domain.GeoPoint{Latitude: 47.435212, Longitude: -122.432836},
	}}

	assert.JSONEq(t, `{
		"reference": "SEA",
		"type": "waypoint",
		"radial": 270,
		"distance_nm": 5,
		"latitude": 47.435212,
		"longitude": -122.432836
	}`, marshal(t, wire.FromResult(r)))
}

func TestFromResult_Point(t *testing.T) {
	r := resolve.Result{Point: domain.Fix{Identifier: "WAVEY"}}
	body, ok := wire.FromResult(r).(wire.Fix)
	require.True(t, ok)
	assert.Equal(t, "WAVEY", body.Identifier)
}

func TestFromStats(t *testing.T) {
	loaded := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	h := wire.FromStats(registry.Stats{
		Generation: "gen-1",
		LoadedAt:   loaded,
		Airports:   registry.KindStats{Loaded: 3, Skipped: 1},
		Navaids:    registry.KindStats{Loaded: 2},
		Fixes:      registry.KindStats{Loaded: 7, Skipped: 4},
	})

	assert.JSONEq(t, `{
		"status": "ok",
		"navaid_count": 2,
		"fix_count": 7,
		"airport_count": 3,
		"skipped": {"airports": 1, "navaids": 0, "fixes": 4},
		"generation": "gen-1",
		"loaded_at": "2026-10-01T09:00:00Z"
	}`, marshal(t, h))
}

func TestFromStats_EmptyRegistryOmitsGeneration(t *testing.T) {
	out := marshal(t, wire.FromStats(registry.Empty().Stats()))
	assert.NotContains(t, out, "generation")
	assert.NotContains(t, out, "loaded_at")
}

package resolve_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/navaid-service/internal/domain"
	"github.com/couchcryptid/navaid-service/internal/nasr/nasrtest"
	"github.com/couchcryptid/navaid-service/internal/registry"
	"github.com/couchcryptid/navaid-service/internal/resolve"
)

func newResolver(t *testing.T) *resolve.Resolver {
	t.Helper()
	apt, nav, fix := nasrtest.SampleFiles()
	r, err := registry.Build(registry.Sources{
		Airports: strings.NewReader(apt),
		Navaids:  strings.NewReader(nav),
		Fixes:    strings.NewReader(fix),
	})
	require.NoError(t, err)

	store := registry.NewStore()
	store.Replace(r)
	return resolve.New(store)
}

func TestLookup(t *testing.T) {
	res := newResolver(t)

	p, err := res.Lookup(domain.KindNavaid, "sea")
	require.NoError(t, err)
	assert.Equal(t, domain.KindNavaid, p.Kind())
	assert.Equal(t, "SEA", p.Ident())

	p, err = res.Lookup(domain.KindAny, "KPDX")
	require.NoError(t, err)
	assert.Equal(t, domain.KindAirport, p.Kind())
	assert.Equal(t, "PDX", p.Ident())
}

func TestLookup_NotFound(t *testing.T) {
	res := newResolver(t)

	tests := []struct {
		kind domain.Kind
		want string
	}{
		{domain.KindAirport, "Airport 'XXX' not found"},
		{domain.KindNavaid, "NAVAID 'XXX' not found"},
		{domain.KindFix, "Waypoint 'XXX' not found"},
		{domain.KindAny, "'XXX' not found"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			_, err := res.Lookup(tt.kind, " xxx ")
			var nf *domain.NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, tt.kind, nf.Kind)
			assert.Equal(t, "XXX", nf.Code)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestProject_WestOfSeattle(t *testing.T) {
	res := newResolver(t)

	p, err := res.Project(domain.KindNavaid, "SEA", 270, 5)
	require.NoError(t, err)
	assert.Equal(t, "SEA", p.Reference)
	assert.Equal(t, domain.KindNavaid, p.Kind)
	assert.InDelta(t, 270.0, p.Radial, 0)
	assert.InDelta(t, 5.0, p.DistanceNM, 0)
	assert.Equal(t, 47.435212, p.Location.Latitude)
	assert.Equal(t, -122.432836, p.Location.Longitude)
}

func TestProject_ZeroDistanceIsReference(t *testing.T) {
	res := newResolver(t)

	ref, err := res.Lookup(domain.KindFix, "BANGR")
	require.NoError(t, err)
	p, err := res.Project(domain.KindFix, "BANGR", 123, 0)
	require.NoError(t, err)
	assert.InDelta(t, ref.Location().Latitude, p.Location.Latitude, 1e-6)
	assert.InDelta(t, ref.Location().Longitude, p.Location.Longitude, 1e-6)
}

func TestProject_Radial360MatchesZero(t *testing.T) {
	res := newResolver(t)

	north, err := res.Project(domain.KindNavaid, "SEA", 0, 10)
	require.NoError(t, err)
	full, err := res.Project(domain.KindNavaid, "SEA", 360, 10)
	require.NoError(t, err)

	assert.Equal(t, north.Location, full.Location)
	assert.Equal(t, 47.601832, full.Location.Latitude)
	assert.InDelta(t, 360.0, full.Radial, 0, "reported radial is the requested one")
}

func TestProject_AnyKindUsesAirportFirst(t *testing.T) {
	res := newResolver(t)

	p, err := res.Project(domain.KindAny, "SEA", 90, 20)
	require.NoError(t, err)
	assert.Equal(t, domain.KindAirport, p.Kind)
	assert.Equal(t, 47.447945, p.Location.Latitude)
	assert.Equal(t, -121.815922, p.Location.Longitude)
}

func TestProject_Validation(t *testing.T) {
	res := newResolver(t)

	tests := []struct {
		name     string
		radial   float64
		distance float64
		field    string
	}{
		{"radial over 360", 400, 10, "radial"},
		{"negative radial", -1, 10, "radial"},
		{"NaN radial", math.NaN(), 10, "radial"},
		{"negative distance", 90, -1, "distance"},
		{"infinite distance", 90, math.Inf(1), "distance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := res.Project(domain.KindNavaid, "SEA", tt.radial, tt.distance)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestProject_ValidatesBeforeLookup(t *testing.T) {
	res := newResolver(t)

	_, err := res.Project(domain.KindNavaid, "NOPE", 400, 10)
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = res.Project(domain.KindNavaid, "NOPE", 90, 10)
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestProjectNotation(t *testing.T) {
	res := newResolver(t)

	p, err := res.ProjectNotation(domain.KindNavaid, "SEA270005")
	require.NoError(t, err)
	direct, err := res.Project(domain.KindNavaid, "SEA", 270, 5)
	require.NoError(t, err)
	assert.Equal(t, direct, p)
}

func TestProjectNotation_Errors(t *testing.T) {
	res := newResolver(t)

	_, err := res.ProjectNotation(domain.KindNavaid, "SEA999005")
	var fe *domain.FormatError
	assert.ErrorAs(t, err, &fe)

	_, err = res.ProjectNotation(domain.KindNavaid, "ZZZ090010")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ZZZ", nf.Code)
}

func TestResolve(t *testing.T) {
	res := newResolver(t)

	r, err := res.Resolve(domain.KindFix, "bangr")
	require.NoError(t, err)
	require.NotNil(t, r.Point)
	assert.Nil(t, r.Projection)
	assert.Equal(t, "BANGR", r.Point.Ident())

	r, err = res.Resolve(domain.KindFix, "BANGR180012")
	require.NoError(t, err)
	assert.Nil(t, r.Point)
	require.NotNil(t, r.Projection)
	assert.Equal(t, "BANGR", r.Projection.Reference)
	assert.Equal(t, 47.262635, r.Projection.Location.Latitude)
	assert.Equal(t, -122.928611, r.Projection.Location.Longitude)
}

func TestResolve_EmptyRegistry(t *testing.T) {
	res := resolve.New(registry.NewStore())

	_, err := res.Resolve(domain.KindAny, "SEA")
	var nf *domain.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

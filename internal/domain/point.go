package domain

import (
	"math"
	"strings"
)

// GeoPoint is a latitude/longitude pair in decimal degrees.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// NewGeoPoint validates the coordinate ranges and returns the point.
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return GeoPoint{}, &RangeError{Quantity: "latitude", Value: lat, Min: -90, Max: 90}
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return GeoPoint{}, &RangeError{Quantity: "longitude", Value: lon, Min: -180, Max: 180}
	}
	return GeoPoint{Latitude: lat, Longitude: lon}, nil
}

// Kind discriminates the entity types held by the registry.
type Kind int

const (
	KindAny Kind = iota
	KindAirport
	KindNavaid
	KindFix
)

// String returns the wire label for the kind. Fixes are labelled "waypoint",
// matching the public routes.
func (k Kind) String() string {
	switch k {
	case KindAirport:
		return "airport"
	case KindNavaid:
		return "navaid"
	case KindFix:
		return "waypoint"
	default:
		return "any"
	}
}

// ParseKind accepts singular and plural route names ("navaids", "waypoint",
// "points", ...). Unknown names report false.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "point", "points":
		return KindAny, true
	case "airport", "airports":
		return KindAirport, true
	case "navaid", "navaids":
		return KindNavaid, true
	case "fix", "fixes", "waypoint", "waypoints":
		return KindFix, true
	}
	return KindAny, false
}

// Point is the closed set of resolvable entities: Airport, Navaid and Fix.
type Point interface {
	Kind() Kind
	Ident() string
	Location() GeoPoint
	point()
}

// Airport is a landing facility from the APT base record.
type Airport struct {
	Identifier   string
	ICAO         string
	Name         string
	City         string
	State        string
	FacilityType string
	SiteNumber   string
	Position     GeoPoint
}

func (Airport) Kind() Kind { return KindAirport }
func (a Airport) Ident() string { return a.Identifier }
func (a Airport) Location() GeoPoint { return a.Position }
func (Airport) point() {}

// Navaid is a radio navigation aid from the NAV1 record.
type Navaid struct {
	Identifier string
	Name       string
	Type       NavaidType
	City       string
	State      string
	Position   GeoPoint
}

func (Navaid) Kind() Kind { return KindNavaid }
func (n Navaid) Ident() string { return n.Identifier }
func (n Navaid) Location() GeoPoint { return n.Position }
func (Navaid) point() {}

// Fix is a named point from the FIX1 record.
type Fix struct {
	Identifier string
	State      string
	ICAORegion string
	Category   string
	Position   GeoPoint
}

func (Fix) Kind() Kind { return KindFix }
func (f Fix) Ident() string { return f.Identifier }
func (f Fix) Location() GeoPoint { return f.Position }
func (Fix) point() {}

// NormalizeIdent trims and upper-cases an identifier or request code.
func NormalizeIdent(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Package nasrtest builds fixed-width NASR lines for tests.
package nasrtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/couchcryptid/navaid-service/internal/nasr"
)

// Line renders a full-width record for layout with the given field values.
// Values longer than their field are truncated. Unknown field names panic.
func Line(layout nasr.Layout, values map[string]string) string {
	buf := bytes.Repeat([]byte{' '}, layout.MaxOffset())
	copy(buf, layout.Prefix)
	for name, v := range values {
		f, ok := layout.Field(name)
		if !ok {
			panic(fmt.Sprintf("nasrtest: layout %s has no field %q", layout.Name, name))
		}
		copy(buf[f.Offset:f.Offset+f.Length], v)
	}
	return string(buf)
}

// Airport renders an APT base record.
func Airport(id, icao, name, city, state, lat, lon string) string {
	return Line(nasr.AirportLayout, map[string]string{
		nasr.FieldSiteNumber:   "16985.*A",
		nasr.FieldFacilityType: "AIRPORT",
		nasr.FieldIdentifier:   id,
		nasr.FieldICAO:         icao,
		nasr.FieldName:         name,
		nasr.FieldCity:         city,
		nasr.FieldState:        state,
		nasr.FieldLatitude:     lat,
		nasr.FieldLongitude:    lon,
	})
}

// Navaid renders a NAV1 record.
func Navaid(id, facilityType, name, lat, lon string) string {
	return Line(nasr.NavaidLayout, map[string]string{
		nasr.FieldIdentifier:   id,
		nasr.FieldFacilityType: facilityType,
		nasr.FieldName:         name,
		nasr.FieldLatitude:     lat,
		nasr.FieldLongitude:    lon,
	})
}

// Fix renders a FIX1 record.
func Fix(id, state, lat, lon string) string {
	return Line(nasr.FixLayout, map[string]string{
		nasr.FieldIdentifier: id,
		nasr.FieldState:      state,
		nasr.FieldICAORegion: "K1",
		nasr.FieldLatitude:   lat,
		nasr.FieldLongitude:  lon,
		nasr.FieldCategory:   "FIX",
	})
}

// File joins lines into file content with CRLF endings, as published.
func File(lines ...string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

// SampleFiles returns APT, NAV and FIX content covering the Seattle area.
// SEA appears as both an airport and a navaid.
func SampleFiles() (apt, nav, fix string) {
	apt = File(
		Airport("SEA", "KSEA", "SEATTLE-TACOMA INTL", "SEATTLE", "WA", "47-26-56.4000N", "122-18-30.6000W"),
		"ATT16985.*A  WA01AM-10PM",
		"RWY16985.*A  WA16L/34R",
		Airport("PDX", "KPDX", "PORTLAND INTL", "PORTLAND", "OR", "45-35-19.2000N", "122-35-52.8000W"),
	)
	nav = File(
		Navaid("SEA", "VORTAC", "SEATTLE", "47-26-07.000N", "122-18-35.000W"),
		"NAV2SEA VORTAC              SEATTLE REMARK",
		Navaid("BTG", "VOR/DME", "BATTLE GROUND", "45-48-54.000N", "122-33-46.800W"),
	)
	fix = File(
		Fix("BANGR", "WASHINGTON", "47-27-45.000N", "122-55-43.000W"),
		"FIX2BANGR                         WASHINGTON",
		Fix("WAVEY", "WASHINGTON", "47-30-00.000N", "122-30-00.000W"),
	)
	return apt, nav, fix
}

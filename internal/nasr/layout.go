// Package nasr parses the fixed-width NASR subscription files. Record layouts
// are plain data so a format revision is a table change, not a code change.
package nasr

import "strings"

// Field names shared by the layouts.
const (
	FieldIdentifier   = "identifier"
	FieldICAO         = "icao"
	FieldName         = "name"
	FieldCity         = "city"
	FieldState        = "state"
	FieldFacilityType = "facility_type"
	FieldSiteNumber   = "site_number"
	FieldICAORegion   = "icao_region"
	FieldCategory     = "category"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
)

// Field is one byte range of a record. Offset is zero-based.
type Field struct {
	Name     string
	Offset   int
	Length   int
	Required bool
}

// Layout describes one record type: the line prefix that selects it and the
// positions of the fields it carries.
type Layout struct {
	Name    string
	Version string
	File    string // subscription file holding the records
	Prefix  string
	Fields  []Field
}

// Matches reports whether line is a record of this layout's type.
func (l Layout) Matches(line string) bool {
	return strings.HasPrefix(line, l.Prefix)
}

// MaxOffset is the end of the furthest field, i.e. the line length needed to
// populate every field.
func (l Layout) MaxOffset() int {
	n := 0
	for _, f := range l.Fields {
		if end := f.Offset + f.Length; end > n {
			n = end
		}
	}
	return n
}

// Field returns the named field definition.
func (l Layout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Layouts lists every record layout the registry loads.
func Layouts() []Layout {
	return []Layout{AirportLayout, NavaidLayout, FixLayout}
}

// LayoutVersion identifies the legacy 28-day subscription text format.
const LayoutVersion = "nasr-legacy-txt-1"

// AirportLayout is the APT base record (1530 bytes) of APT.txt. ATT, RWY, ARS
// and RMK lines share the file and are ignored.
var AirportLayout = Layout{
	Name:    "APT",
	Version: LayoutVersion,
	File:    "APT.txt",
	Prefix:  "APT",
	Fields: []Field{
		{Name: FieldSiteNumber, Offset: 3, Length: 11},
		{Name: FieldFacilityType, Offset: 14, Length: 13},
		{Name: FieldIdentifier, Offset: 27, Length: 4, Required: true},
		{Name: FieldState, Offset: 48, Length: 2},
		{Name: FieldCity, Offset: 93, Length: 40},
		{Name: FieldName, Offset: 133, Length: 50},
		{Name: FieldLatitude, Offset: 523, Length: 15, Required: true},
		{Name: FieldLongitude, Offset: 550, Length: 15, Required: true},
		{Name: FieldICAO, Offset: 1210, Length: 7},
	},
}

// NavaidLayout is the NAV1 base record of NAV.txt. NAV2..NAV6 carry remarks,
// fixes and holding patterns and are ignored.
var NavaidLayout = Layout{
	Name:    "NAV1",
	Version: LayoutVersion,
	File:    "NAV.txt",
	Prefix:  "NAV1",
	Fields: []Field{
		{Name: FieldIdentifier, Offset: 4, Length: 4, Required: true},
		{Name: FieldFacilityType, Offset: 8, Length: 20},
		{Name: FieldName, Offset: 42, Length: 30},
		{Name: FieldCity, Offset: 72, Length: 40},
		{Name: FieldState, Offset: 142, Length: 2},
		{Name: FieldLatitude, Offset: 371, Length: 14, Required: true},
		{Name: FieldLongitude, Offset: 396, Length: 14, Required: true},
	},
}

// FixLayout is the FIX1 base record of FIX.txt. FIX2..FIX5 are ignored.
var FixLayout = Layout{
	Name:    "FIX1",
	Version: LayoutVersion,
	File:    "FIX.txt",
	Prefix:  "FIX1",
	Fields: []Field{
		{Name: FieldIdentifier, Offset: 4, Length: 30, Required: true},
		{Name: FieldState, Offset: 34, Length: 30},
		{Name: FieldICAORegion, Offset: 64, Length: 2},
		{Name: FieldLatitude, Offset: 66, Length: 14, Required: true},
		{Name: FieldLongitude, Offset: 80, Length: 14, Required: true},
		{Name: FieldCategory, Offset: 94, Length: 3},
	},
}

package domain

import "strings"

// NavaidType is the facility type of a navaid. Values outside the known set
// are kept verbatim.
type NavaidType string

const (
	NavaidVOR       NavaidType = "VOR"
	NavaidVORTAC    NavaidType = "VORTAC"
	NavaidVORDME    NavaidType = "VOR/DME"
	NavaidTACAN     NavaidType = "TACAN"
	NavaidDME       NavaidType = "DME"
	NavaidNDB       NavaidType = "NDB"
	NavaidNDBDME    NavaidType = "NDB/DME"
	NavaidMarineNDB NavaidType = "MARINE NDB"
	NavaidUHFNDB    NavaidType = "UHF/NDB"
	NavaidVOT       NavaidType = "VOT"
	NavaidFanMarker NavaidType = "FAN MARKER"
)

var knownNavaidTypes = []NavaidType{
	NavaidVOR, NavaidVORTAC, NavaidVORDME, NavaidTACAN, NavaidDME,
	NavaidNDB, NavaidNDBDME, NavaidMarineNDB, NavaidUHFNDB, NavaidVOT, NavaidFanMarker,
}

// ParseNavaidType maps source text onto a known type. Case, repeated spaces and
// "-" versus "/" separators are ignored ("vor-dme" → VOR/DME). Text that matches
// nothing is returned upper-cased as a free-form type.
func ParseNavaidType(s string) NavaidType {
	norm := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	key := strings.NewReplacer("-", "/", " / ", "/").Replace(norm)
	for _, t := range knownNavaidTypes {
		if key == string(t) {
			return t
		}
	}
	return NavaidType(norm)
}

// Known reports whether t is one of the published facility types.
func (t NavaidType) Known() bool {
	for _, k := range knownNavaidTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Package domain models aeronautical reference points published by the FAA
// National Airspace System Resources (NASR) subscription.
//
// # Data Source
//
// The NASR 28-day subscription ships fixed-width text files. Three of them are
// consumed here: APT.txt (landing facilities), NAV.txt (radio navigation aids)
// and FIX.txt (named fixes and waypoints). Each file interleaves several record
// subtypes distinguished by a line prefix ("APT", "ATT", "RWY", ... in APT.txt;
// "NAV1".."NAV6" in NAV.txt; "FIX1".."FIX5" in FIX.txt). Only the base record of
// each file carries the identifier and position. Byte offsets are kept as data
// in package nasr.
//
// # Coordinate Format
//
// Positions are published as sexagesimal text with a trailing hemisphere:
//
//	"47-26-07.175N"    latitude,  DD-MM-SS.fff plus N or S
//	"122-18-35.000W"   longitude, DDD-MM-SS.fff plus E or W
//
// S and W are negative. See [DecodeAngle].
//
// # Packed Notation
//
// A reference point offset is often written as a single token: identifier,
// three-digit radial, three-digit distance in nautical miles.
//
//	"SEA270005"  →  5 NM from SEA on the 270 radial
//	"BTG090010"  →  10 NM from BTG on the 090 radial
//
// Identifiers are 2–5 characters and carry no delimiter, so the last six
// characters are always the radial and distance. See [DecodeNotation].
//
// # Projection
//
// Destinations are computed on a sphere with a mean radius of 3440.065 NM.
// The error against WGS-84 is well under a tenth of a mile at typical radial
// distances, which is the accepted precision for this service. See [Project].
package domain

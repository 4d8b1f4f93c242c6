package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Axis selects the valid range and hemisphere letters of an angle.
type Axis int

const (
	AxisLatitude Axis = iota
	AxisLongitude
)

func (a Axis) String() string {
	if a == AxisLongitude {
		return "longitude"
	}
	return "latitude"
}

// seconds are encoded with four fractional digits, the APT.txt precision.
const secondsScale = 10000

// DecodeAngle converts a "D-M-S.fffH" token to signed decimal degrees. The
// hemisphere letter selects the axis: N/S are latitudes limited to [-90,90],
// E/W are longitudes limited to [-180,180].
func DecodeAngle(token string) (float64, error) {
	deg, _, err := decodeAngle(token)
	return deg, err
}

// DecodeLatitude is DecodeAngle restricted to N/S tokens.
func DecodeLatitude(token string) (float64, error) {
	return decodeAxis(token, AxisLatitude)
}

// DecodeLongitude is DecodeAngle restricted to E/W tokens.
func DecodeLongitude(token string) (float64, error) {
	return decodeAxis(token, AxisLongitude)
}

func decodeAxis(token string, want Axis) (float64, error) {
	deg, axis, err := decodeAngle(token)
	if err != nil {
		return 0, err
	}
	if axis != want {
		return 0, &ParseError{Input: token, Reason: "hemisphere is not a " + want.String()}
	}
	return deg, nil
}

func decodeAngle(token string) (float64, Axis, error) {
	t := strings.ToUpper(strings.TrimSpace(token))
	if len(t) < 2 {
		return 0, 0, &ParseError{Input: token, Reason: "too short"}
	}

	var (
		sign  float64
		axis  Axis
		limit float64
	)
	switch t[len(t)-1] {
	case 'N':
		sign, axis, limit = 1, AxisLatitude, 90
	case 'S':
		sign, axis, limit = -1, AxisLatitude, 90
	case 'E':
		sign, axis, limit = 1, AxisLongitude, 180
	case 'W':
		sign, axis, limit = -1, AxisLongitude, 180
	default:
		return 0, 0, &ParseError{Input: token, Reason: fmt.Sprintf("unknown hemisphere %q", t[len(t)-1:])}
	}

	parts := strings.Split(t[:len(t)-1], "-")
	if len(parts) != 3 {
		return 0, 0, &ParseError{Input: token, Reason: "expected degrees-minutes-seconds"}
	}
	for _, p := range parts {
		if !isUnsignedDecimal(p) {
			return 0, 0, &ParseError{Input: token, Reason: fmt.Sprintf("non-numeric component %q", p)}
		}
	}
	if strings.Contains(parts[0], ".") || strings.Contains(parts[1], ".") {
		return 0, 0, &ParseError{Input: token, Reason: "fractional degrees or minutes"}
	}

	d, _ := strconv.ParseFloat(parts[0], 64)
	m, _ := strconv.ParseFloat(parts[1], 64)
	s, _ := strconv.ParseFloat(parts[2], 64)

	if m >= 60 {
		return 0, 0, &RangeError{Quantity: "minutes", Value: m, Min: 0, Max: 59}
	}
	if s >= 60 {
		return 0, 0, &RangeError{Quantity: "seconds", Value: s, Min: 0, Max: 60}
	}

	v := d + m/60 + s/3600
	if v > limit {
		return 0, 0, &RangeError{Quantity: axis.String(), Value: sign * v, Min: -limit, Max: limit}
	}
	return sign * v, axis, nil
}

// isUnsignedDecimal accepts digits with at most one '.', and at least one digit.
func isUnsignedDecimal(s string) bool {
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// EncodeAngle renders degrees in the NASR format: "DD-MM-SS.ssssH" for
// latitudes and "DDD-MM-SS.ssssH" for longitudes.
func EncodeAngle(degrees float64, axis Axis) string {
	hemi := byte('N')
	width := 2
	if axis == AxisLongitude {
		hemi, width = 'E', 3
	}
	if degrees < 0 {
		if axis == AxisLongitude {
			hemi = 'W'
		} else {
			hemi = 'S'
		}
	}

	// Work in integer ten-thousandths of a second so rounding carries cleanly.
	total := int64(math.Round(math.Abs(degrees) * 3600 * secondsScale))
	d := total / (3600 * secondsScale)
	total -= d * 3600 * secondsScale
	m := total / (60 * secondsScale)
	total -= m * 60 * secondsScale

	return fmt.Sprintf("%0*d-%02d-%02d.%04d%c", width, d, m, total/secondsScale, total%secondsScale, hemi)
}

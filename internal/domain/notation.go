package domain

import "strings"

const notationDigits = 6

// Notation is a decoded "{ID}{RADIAL:3}{DISTANCE:3}" token.
type Notation struct {
	ID       string
	Radial   int // [0,360), 360 is folded to 0
	Distance int // nautical miles
}

// LooksLikeNotation reports whether token ends in six digits after at least one
// other character. It says nothing about whether the identifier exists.
func LooksLikeNotation(token string) bool {
	t := strings.TrimSpace(token)
	return len(t) > notationDigits && allDigits(t[len(t)-notationDigits:])
}

// DecodeNotation splits a packed token into identifier, radial and distance.
// The identifier is whatever precedes the last six characters; it is not
// checked against any index.
func DecodeNotation(token string) (Notation, error) {
	t := strings.TrimSpace(token)
	if len(t) <= notationDigits {
		return Notation{}, &FormatError{Token: token, Reason: "need an identifier followed by six digits"}
	}

	tail := t[len(t)-notationDigits:]
	if !allDigits(tail) {
		return Notation{}, &FormatError{Token: token, Reason: "radial and distance must be six digits"}
	}

	id := NormalizeIdent(t[:len(t)-notationDigits])
	if id == "" {
		return Notation{}, &FormatError{Token: token, Reason: "missing identifier"}
	}

	radial := atoi3(tail[:3])
	if radial > 360 {
		return Notation{}, &FormatError{Token: token, Reason: "radial must be 000-360"}
	}
	if radial == 360 {
		radial = 0
	}

	return Notation{ID: id, Radial: radial, Distance: atoi3(tail[3:])}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func atoi3(s string) int {
	return int(s[0]-'0')*100 + int(s[1]-'0')*10 + int(s[2]-'0')
}

package domain

import (
	"fmt"
	"strconv"
)

// ParseError reports malformed source text: an angle token, or a required
// field missing from a fixed-width record.
type ParseError struct {
	Layout string // record layout name, empty for bare angle tokens
	Line   int    // 1-based source line, 0 when unknown
	Field  string
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	msg := "parse"
	if e.Layout != "" {
		msg += " " + e.Layout
	}
	if e.Line > 0 {
		msg += " line " + strconv.Itoa(e.Line)
	}
	if e.Field != "" {
		msg += " field " + e.Field
	}
	if e.Input != "" {
		msg += fmt.Sprintf(" %q", e.Input)
	}
	return msg + ": " + e.Reason
}

// RangeError reports a decoded value outside its valid domain.
type RangeError struct {
	Quantity string
	Value    float64
	Min, Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %g out of range [%g, %g]", e.Quantity, e.Value, e.Min, e.Max)
}

// FormatError reports a malformed packed-notation token.
type FormatError struct {
	Token  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid notation %q: %s", e.Token, e.Reason)
}

// ValidationError reports a caller-supplied parameter outside its domain.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s (got %g)", e.Field, e.Reason, e.Value)
}

// NotFoundError reports an identifier absent from the index for Kind.
type NotFoundError struct {
	Kind Kind
	Code string
}

func (e *NotFoundError) Error() string {
	switch e.Kind {
	case KindAirport:
		return fmt.Sprintf("Airport '%s' not found", e.Code)
	case KindNavaid:
		return fmt.Sprintf("NAVAID '%s' not found", e.Code)
	case KindFix:
		return fmt.Sprintf("Waypoint '%s' not found", e.Code)
	default:
		return fmt.Sprintf("'%s' not found", e.Code)
	}
}

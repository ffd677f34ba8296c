package candb

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// valueKind discriminates the tagged Value variant described in spec.md
// §9: a decoded or to-be-encoded signal value is either a plain integer,
// a float, or an enumerated choice label.
type valueKind int

const (
	valueKindInt valueKind = iota
	valueKindFloat
	valueKindLabel
)

// Value is the duck-typed value at the encode/decode boundary: a number
// (int or float) or an enumerated label string, never both.
type Value struct {
	kind  valueKind
	asInt int64
	asF   float64
	asStr string
}

// Int wraps a plain integer signal value.
func Int(v int64) Value { return Value{kind: valueKindInt, asInt: v} }

// Float wraps a floating-point signal value.
func Float(v float64) Value { return Value{kind: valueKindFloat, asF: v} }

// Label wraps an enumerated choice value, looked up by name at encode
// time and produced by name at decode time.
func Label(s string) Value { return Value{kind: valueKindLabel, asStr: s} }

// IsLabel reports whether this Value holds an enumerated label.
func (v Value) IsLabel() bool { return v.kind == valueKindLabel }

// IsFloat reports whether this Value holds a float.
func (v Value) IsFloat() bool { return v.kind == valueKindFloat }

// IsInt reports whether this Value holds a plain integer.
func (v Value) IsInt() bool { return v.kind == valueKindInt }

// LabelString returns the label text; only meaningful when IsLabel is true.
func (v Value) LabelString() string { return v.asStr }

// Float64 returns the value as a float64, converting from int if needed.
// Not meaningful for label values.
func (v Value) Float64() float64 {
	if v.kind == valueKindInt {
		return float64(v.asInt)
	}
	return v.asF
}

// Int64 returns the value as an int64, truncating a float if needed. Not
// meaningful for label values.
func (v Value) Int64() int64 {
	if v.kind == valueKindFloat {
		return int64(v.asF)
	}
	return v.asInt
}

// Equal compares two Values for the same kind and content; used by tests.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case valueKindInt:
		return v.asInt == other.asInt
	case valueKindFloat:
		return v.asF == other.asF
	default:
		return v.asStr == other.asStr
	}
}

func (v Value) String() string {
	switch v.kind {
	case valueKindInt:
		return fmt.Sprintf("%d", v.asInt)
	case valueKindFloat:
		return formatPythonFloat(v.asF)
	default:
		return v.asStr
	}
}

// formatPythonFloat renders f the way Python's repr does for a float:
// the shortest round-tripping decimal, always with a decimal point (so
// a whole-number value like 0.0 prints as "0.0", not "0"), matching the
// original cantools CLI's output.
func formatPythonFloat(f float64) string {
	// Python switches to exponent notation only below 1e-4 or from 1e16
	// up; in between it writes plain positional digits.
	format := byte('g')
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		format = 'f'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

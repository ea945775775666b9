package bop

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Copy returns an independent deep copy of v. Number, String, Bool, and
// None are already immutable in Go, so copying them is a no-op; Array
// and Dict get brand-new backing storage so that mutating the copy
// (push, index assignment, Dict.Set, ...) can never be observed
// through v. spec.md's copy-semantics invariant requires this at
// every assignment, parameter pass, return, and element read.
func Copy(v Value) Value {
	switch v.kind {
	case KindArray:
		src := v.Array()
		dst := make([]Value, len(src))
		for i, el := range src {
			dst[i] = Copy(el)
		}
		return NewArray(dst)
	case KindDict:
		src := v.data.(*Dict)
		dst := newDict()
		for _, k := range src.keys {
			val, _ := src.Get(k)
			dst.Set(k, Copy(val))
		}
		return NewDictValue(dst)
	default:
		return v
	}
}

// Equal implements spec.md's strict-by-type equality: cross-type
// comparisons are always false, arrays/dicts compare structurally, and
// NaN is never equal to itself (ordinary IEEE-754 float comparison
// already gives this for granted in Go).
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNumber:
		return a.data.(float64) == b.data.(float64)
	case KindString:
		return a.data.(string) == b.data.(string)
	case KindBool:
		return a.data.(bool) == b.data.(bool)
	case KindNone:
		return true
	case KindArray:
		x, y := a.Array(), b.Array()
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case KindDict:
		x, y := a.Dict(), b.Dict()
		if x.Len() != y.Len() {
			return false
		}
		for _, k := range x.keys {
			xv, _ := x.Get(k)
			yv, ok := y.Get(k)
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// formatNumber renders a float64 per spec.md §4.1: whole-valued numbers
// print without a decimal point; everything else uses the shortest
// round-trip decimal, falling back from 'g' to 'f' formatting to avoid
// scientific notation for the magnitudes Bop programs typically
// produce (see SPEC_FULL.md §9's Open Question resolution).
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if math.Trunc(f) == f && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, "eE") {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

// Str renders v the way the `str` builtin and default print/concat
// formatting do: quote-free, human-facing text.
func Str(v Value) string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.data.(float64))
	case KindString:
		return v.data.(string)
	case KindBool:
		if v.data.(bool) {
			return "true"
		}
		return "false"
	case KindNone:
		return "none"
	case KindArray:
		elems := v.Array()
		parts := make([]string, len(elems))
		for i, el := range elems {
			parts[i] = Inspect(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindDict:
		d := v.Dict()
		parts := make([]string, 0, d.Len())
		for _, k := range d.Keys() {
			val, _ := d.Get(k)
			parts = append(parts, fmt.Sprintf("%q: %s", k, Inspect(val)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}

// Inspect renders v for debugging: identical to Str except that
// strings are quoted with escapes, matching spec.md §4.1.
func Inspect(v Value) string {
	if v.kind == KindString {
		return strconv.Quote(v.data.(string))
	}
	return Str(v)
}

// TypeName returns the name `type(x)` reports for v.
func TypeName(v Value) string {
	return v.kind.String()
}

package echarts

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Axis type values understood by the renderer.
const (
	AxisTypeValue = "value"
	AxisTypeLog   = "log"
)

// AxisType maps the log-scale form flag to the renderer's axis type.
func AxisType(logScale bool) string {
	if logScale {
		return AxisTypeLog
	}
	return AxisTypeValue
}

// ParseAxisBound parses one user-supplied axis bound, which arrives as a
// number, a numeric string, or empty. Anything that does not resolve to a
// finite number yields nil, leaving that side of the axis auto-scaled;
// bad input never fails the configuration.
func ParseAxisBound(v any) *float64 {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParseAxisBounds parses a [min, max] bounds pair. Missing entries and
// unparseable values leave the corresponding side nil.
func ParseAxisBounds(bounds []any) (min, max *float64) {
	if len(bounds) > 0 {
		min = ParseAxisBound(bounds[0])
	}
	if len(bounds) > 1 {
		max = ParseAxisBound(bounds[1])
	}
	return min, max
}

// ConvertInteger coerces loosely-typed margin/offset controls (numbers or
// numeric strings) to an int, returning 0 for anything unparseable.
func ConvertInteger(v any) int {
	if v == nil {
		return 0
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		f, ferr := cast.ToFloat64E(v)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return int(f)
	}
	return n
}

// LabelInterval normalizes the tick label interval control: "auto" and
// empty mean renderer-chosen (nil), numbers pass through as ints.
func LabelInterval(v any) any {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(strings.ToLower(s))
		if s == "" || s == "auto" {
			return nil
		}
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return nil
	}
	return n
}

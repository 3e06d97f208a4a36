// Package palette provides named categorical color schemes and the
// deterministic name→color scales the chart transform uses to keep series
// colors stable across re-renders.
package palette

import "sort"

// DefaultScheme is used when a chart does not pick a scheme.
const DefaultScheme = "default"

// schemes maps scheme name to its ordered color cycle. Scales hand these
// out in first-seen order and wrap around when a chart has more series
// than the cycle has colors.
var schemes = map[string][]string{
	// Material-ish set, readable on white backgrounds.
	"default": {
		"#2196f3", "#ff9800", "#4caf50", "#f44336",
		"#9c27b0", "#00bcd4", "#ffc107", "#795548",
	},
	// Paul Tol bright, colorblind-safe.
	"bright": {
		"#4477AA", "#EE6677", "#228833", "#CCBB44",
		"#66CCEE", "#AA3377", "#BBBBBB",
	},
	// Paul Tol muted.
	"muted": {
		"#CC6677", "#332288", "#DDCC77", "#117733",
		"#88CCEE", "#882255", "#44AA99", "#999933", "#AA4499",
	},
	// Paul Tol high contrast.
	"highContrast": {
		"#004488", "#DDAA33", "#BB5566", "#117733",
	},
}

// Schemes returns the registered scheme names, sorted.
func Schemes() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Colors returns the color cycle of the named scheme. Unknown names fall
// back to the default scheme so a chart never renders colorless.
func Colors(scheme string) []string {
	if c, ok := schemes[scheme]; ok {
		return c
	}
	return schemes[DefaultScheme]
}

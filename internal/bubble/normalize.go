package bubble

import (
	"math"

	"github.com/vizprep/vizprep/internal/echarts"
)

// MinimumBubbleSize is the radius floor every rendered bubble gets on top
// of its rescaled size, keeping the smallest value legible.
const MinimumBubbleSize = 5.0

// DefaultMaxBubbleSize bounds the rescale range when the control is unset
// or unparseable.
const DefaultMaxBubbleSize = 25.0

// NormalizeSymbolSize rescales each series' raw size metric onto a pixel
// radius: a linear min-max mapping of the size component into
// [MinimumBubbleSize, MinimumBubbleSize + 2*maxBubbleSize]. Bounds come
// from every point whose size casts to a finite number. When no point
// carries a numeric size, no radius is assigned at all and the renderer
// keeps its default. Once bounds exist, every series gets a radius; sizes
// that fail the cast land on the minimum.
func NormalizeSymbolSize(series []echarts.Series, maxBubbleSize float64) {
	min, max, ok := sizeBounds(series)
	if !ok {
		return
	}
	spread := max - min
	for i := range series {
		scaled := 0.0
		if v, numeric := seriesSizeValue(series[i]); numeric {
			scaled = finiteOrZero((v - min) / spread * (maxBubbleSize * 2))
		}
		r := scaled + MinimumBubbleSize
		series[i].SymbolSize = &r
	}
}

// sizeBounds scans all points for the min and max finite size value. ok
// is false when no point has a numeric size.
func sizeBounds(series []echarts.Series) (min, max float64, ok bool) {
	for _, s := range series {
		for _, p := range s.Data {
			v, numeric := p.SizeValue()
			if !numeric {
				continue
			}
			if !ok {
				min, max, ok = v, v, true
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max, ok
}

// seriesSizeValue reads the size of a series' first point; the transform
// emits one point per series, so this is the series' size.
func seriesSizeValue(s echarts.Series) (float64, bool) {
	if len(s.Data) == 0 {
		return 0, false
	}
	return s.Data[0].SizeValue()
}

// finiteOrZero is the zero-spread fallback: when every size value is
// equal the rescale divides by zero and yields NaN, which collapses to 0
// here so those bubbles render at exactly the minimum radius.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

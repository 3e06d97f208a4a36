// Package echarts models the slice of the ECharts option grammar the
// bubble transform emits, plus the pure layout helpers (axis bounds,
// legend placement, grid padding) that turn form controls into option
// fragments. Field names follow the renderer's camelCase wire format.
package echarts

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cast"
)

// Point is one plotted observation. On the wire it is the renderer's
// 5-element data array [x, y, size, entity, group]; in process it keeps a
// fixed shape so consumers never probe value types positionally.
type Point struct {
	X      any
	Y      any
	Size   any
	Entity any
	Group  any
}

// MarshalJSON renders the renderer's positional array form.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([5]any{p.X, p.Y, p.Size, p.Entity, p.Group})
}

// UnmarshalJSON accepts the positional array form; shorter arrays leave
// the remaining components nil.
func (p *Point) UnmarshalJSON(data []byte) error {
	var parts []any
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("echarts: point must be a JSON array: %w", err)
	}
	if len(parts) > 5 {
		return fmt.Errorf("echarts: point has %d components, want at most 5", len(parts))
	}
	dst := [5]*any{&p.X, &p.Y, &p.Size, &p.Entity, &p.Group}
	for i := range dst {
		if i < len(parts) {
			*dst[i] = parts[i]
		} else {
			*dst[i] = nil
		}
	}
	return nil
}

// SizeValue returns the size component as a finite float64. The second
// result is false when the component is absent, non-numeric, NaN, or
// infinite; such points are excluded from size-bounds computation.
func (p Point) SizeValue() (float64, bool) {
	if p.Size == nil {
		return 0, false
	}
	v, err := cast.ToFloat64E(p.Size)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// HasGroup reports whether the point carries a non-empty group value,
// which controls the tooltip title form.
func (p Point) HasGroup() bool {
	if p.Group == nil {
		return false
	}
	return cast.ToString(p.Group) != ""
}

// ItemStyle is the flat fill style of one series.
type ItemStyle struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Series is one named scatter series. SymbolSize nil means no radius was
// assigned and the renderer falls back to its own default.
type Series struct {
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Data       []Point   `json:"data"`
	ItemStyle  ItemStyle `json:"itemStyle"`
	SymbolSize *float64  `json:"symbolSize,omitempty"`
}

// NewScatterSeries builds a single-point series with the given style.
func NewScatterSeries(name string, p Point, color string, opacity float64) Series {
	return Series{
		Name:      name,
		Type:      "scatter",
		Data:      []Point{p},
		ItemStyle: ItemStyle{Color: color, Opacity: opacity},
	}
}

// TextStyle styles axis titles.
type TextStyle struct {
	FontWeight string `json:"fontWeight,omitempty"`
}

// AxisLabel controls tick label rendering. Formatter carries the number
// format specifier for the host to bind to its formatting runtime; the
// option JSON itself stays declarative.
type AxisLabel struct {
	Rotate    float64 `json:"rotate,omitempty"`
	Interval  any     `json:"interval,omitempty"`
	Formatter string  `json:"formatter,omitempty"`
}

// LineStyle is the stroke style of grid split lines.
type LineStyle struct {
	Type string `json:"type,omitempty"`
}

// SplitLine toggles the dashed guides behind the plot.
type SplitLine struct {
	LineStyle *LineStyle `json:"lineStyle,omitempty"`
}

// Axis is one cartesian axis. Min/Max nil leaves that side auto-scaled.
type Axis struct {
	Type          string     `json:"type"`
	Name          string     `json:"name,omitempty"`
	NameLocation  string     `json:"nameLocation,omitempty"`
	NameGap       int        `json:"nameGap,omitempty"`
	NameTextStyle *TextStyle `json:"nameTextStyle,omitempty"`
	Min           *float64   `json:"min,omitempty"`
	Max           *float64   `json:"max,omitempty"`
	Scale         bool       `json:"scale,omitempty"`
	AxisLabel     *AxisLabel `json:"axisLabel,omitempty"`
	SplitLine     *SplitLine `json:"splitLine,omitempty"`
}

// Legend is the legend component. Data lists each distinct series name
// exactly once, in discovery order.
type Legend struct {
	Show   bool     `json:"show"`
	Type   string   `json:"type,omitempty"`
	Orient string   `json:"orient,omitempty"`
	Top    any      `json:"top,omitempty"`
	Bottom any      `json:"bottom,omitempty"`
	Left   any      `json:"left,omitempty"`
	Right  any      `json:"right,omitempty"`
	Data   []string `json:"data"`
}

// Tooltip is the hover tooltip component. The body content itself is
// produced per hover by the tooltip formatter, not stored in the option.
type Tooltip struct {
	Show         bool   `json:"show"`
	Trigger      string `json:"trigger,omitempty"`
	AppendToBody bool   `json:"appendToBody,omitempty"`
	BorderColor  string `json:"borderColor,omitempty"`
}

// Grid is the plot area box. Zero-valued offsets are omitted, leaving the
// renderer's defaults in place.
type Grid struct {
	ContainLabel bool `json:"containLabel,omitempty"`
	Top          int  `json:"top,omitempty"`
	Bottom       int  `json:"bottom,omitempty"`
	Left         int  `json:"left,omitempty"`
	Right        int  `json:"right,omitempty"`
}

// Option is one complete, renderable chart configuration.
type Option struct {
	Series  []Series `json:"series"`
	XAxis   Axis     `json:"xAxis"`
	YAxis   Axis     `json:"yAxis"`
	Legend  Legend   `json:"legend"`
	Tooltip Tooltip  `json:"tooltip"`
	Grid    Grid     `json:"grid"`
}

// DefaultTooltip returns the house tooltip baseline: item-triggered,
// attached to the document body so it can escape clipped containers.
func DefaultTooltip() Tooltip {
	return Tooltip{
		Show:         true,
		Trigger:      "item",
		AppendToBody: true,
		BorderColor:  "transparent",
	}
}

// DashedSplitLine is the dashed guide style used behind scatter plots.
func DashedSplitLine() *SplitLine {
	return &SplitLine{LineStyle: &LineStyle{Type: "dashed"}}
}

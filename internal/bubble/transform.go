// Package bubble turns tabular query results plus form options into a
// renderable bubble/scatter chart option: it groups rows into named
// one-point series, rescales the size metric onto bubble radii, assembles
// axis/legend/tooltip/grid configuration, and formats hover tooltips.
package bubble

import (
	"github.com/spf13/cast"

	"github.com/vizprep/vizprep/internal/echarts"
	"github.com/vizprep/vizprep/pkg/models"
	"github.com/vizprep/vizprep/pkg/palette"
)

// NullLabel is the series name used when the grouping value of a row is
// null or empty, so every series keeps a renderable, stable name.
const NullLabel = "<NULL>"

// defaultOpacity is the bubble fill opacity when the control is unset.
const defaultOpacity = 0.6

// TransformedProps is the full output of one transform: the option the
// renderer consumes plus the pass-through fields the hosting component
// needs. Function-valued fields stay off the wire.
type TransformedProps struct {
	Width    int             `json:"width,omitempty"`
	Height   int             `json:"height,omitempty"`
	Option   echarts.Option  `json:"option"`
	FormData models.FormData `json:"form_data"`

	Refs            models.Refs                `json:"-"`
	OnContextMenu   models.ContextMenuHandler  `json:"-"`
	SetSelection    models.SelectionHandler    `json:"-"`
	TooltipRenderer func(echarts.Point) string `json:"-"`
}

// BuildSeries groups rows into named one-point series. The name comes
// from the group-by column when one is configured, otherwise from the
// entity column; null and empty values map to NullLabel. Colors come from
// the scale, deterministically per name. The second result is the set of
// distinct series names in discovery order, ready for the legend.
func BuildSeries(rows []models.Row, fd models.FormData, scale *palette.Scale) ([]echarts.Series, []string) {
	opacity := defaultOpacity
	if fd.Opacity != nil {
		opacity = *fd.Opacity
	}

	series := make([]echarts.Series, 0, len(rows))
	names := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		var group any
		nameValue := row[fd.Entity]
		if fd.Series != "" {
			group = row[fd.Series]
			nameValue = group
		}
		name := seriesName(nameValue)

		p := echarts.Point{
			X:      row[fd.X],
			Y:      row[fd.Y],
			Size:   row[fd.Size],
			Entity: row[fd.Entity],
			Group:  group,
		}
		series = append(series, echarts.NewScatterSeries(name, p, scale.Color(name), opacity))

		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return series, names
}

// Transform runs the whole pipeline: build series, normalize bubble
// sizes, parse axis bounds, and assemble the chart option. It is a pure
// function of its input and never fails; malformed option values fall
// back to unconstrained or default behavior.
func Transform(props models.ChartProps) TransformedProps {
	fd := props.FormData

	scale := palette.GetScale(fd.ColorScheme, fd.ChartID)
	series, names := BuildSeries(props.Rows(), fd, scale)
	NormalizeSymbolSize(series, ParseMaxBubbleSize(fd.MaxBubbleSize))

	xMin, xMax := echarts.ParseAxisBounds(fd.XAxisBounds)
	yMin, yMax := echarts.ParseAxisBounds(fd.YAxisBounds)
	xTitleMargin := echarts.ConvertInteger(fd.XAxisTitleMargin)
	yTitleMargin := echarts.ConvertInteger(fd.YAxisTitleMargin)
	legendMargin := echarts.ConvertInteger(fd.LegendMargin)
	showLegend := fd.LegendVisible()

	tooltip := echarts.DefaultTooltip()
	tooltip.Show = !props.InContextMenu

	option := echarts.Option{
		Series: series,
		XAxis: echarts.Axis{
			Type:          echarts.AxisType(fd.LogXAxis),
			Name:          fd.XAxisTitle,
			NameLocation:  "middle",
			NameGap:       xTitleMargin,
			NameTextStyle: &echarts.TextStyle{FontWeight: "bolder"},
			Min:           xMin,
			Max:           xMax,
			Scale:         fd.TruncateXAxis,
			AxisLabel: axisLabel(
				fd.XAxisLabelRotation,
				echarts.LabelInterval(fd.XAxisLabelInterval),
				fd.XAxisFormat,
			),
			SplitLine: echarts.DashedSplitLine(),
		},
		YAxis: echarts.Axis{
			Type:          echarts.AxisType(fd.LogYAxis),
			Name:          fd.YAxisTitle,
			NameLocation:  "middle",
			NameGap:       yTitleMargin,
			NameTextStyle: &echarts.TextStyle{FontWeight: "bolder"},
			Min:           yMin,
			Max:           yMax,
			Scale:         fd.TruncateYAxis,
			AxisLabel:     axisLabel(0, nil, fd.YAxisFormat),
			SplitLine:     echarts.DashedSplitLine(),
		},
		Legend:  echarts.LegendProps(fd.LegendType, fd.LegendOrientation, showLegend, legendMargin, names),
		Tooltip: tooltip,
		Grid:    echarts.Padding(showLegend, fd.LegendOrientation, legendMargin, xTitleMargin, yTitleMargin),
	}

	setSelection := props.Hooks.SetSelection
	if setSelection == nil {
		setSelection = func(map[string]any) {}
	}
	refs := props.Refs
	if refs == nil {
		refs = models.Refs{}
	}

	return TransformedProps{
		Width:           props.Width,
		Height:          props.Height,
		Option:          option,
		FormData:        fd,
		Refs:            refs,
		OnContextMenu:   props.Hooks.OnContextMenu,
		SetSelection:    setSelection,
		TooltipRenderer: NewTooltipRenderer(fd),
	}
}

// seriesName stringifies a grouping value, mapping null and empty to the
// sentinel.
func seriesName(v any) string {
	if v == nil {
		return NullLabel
	}
	s := cast.ToString(v)
	if s == "" {
		return NullLabel
	}
	return s
}

// ParseMaxBubbleSize resolves the loosely-typed control value, falling
// back to the default for anything non-positive or unparseable.
func ParseMaxBubbleSize(v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil || f <= 0 {
		return DefaultMaxBubbleSize
	}
	return f
}

// axisLabel builds the tick label fragment, omitting it entirely when
// nothing is configured.
func axisLabel(rotate float64, interval any, format string) *echarts.AxisLabel {
	if rotate == 0 && interval == nil && format == "" {
		return nil
	}
	return &echarts.AxisLabel{Rotate: rotate, Interval: interval, Formatter: format}
}

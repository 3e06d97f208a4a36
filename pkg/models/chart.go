// Package models defines the data contracts shared between the transform
// core, the API server, and the CLI.
package models

// Row is one record of a tabular query result: column or metric label
// mapped to a scalar value. After JSON decoding values are float64,
// string, bool, or nil. Rows are owned by the caller and never mutated.
type Row map[string]any

// QueryResult holds the rows produced by one upstream query. The transform
// consumes the first result; additional results are carried for hosts that
// run multi-query charts.
type QueryResult struct {
	Data []Row `json:"data"`
}

// Legend orientations recognized in form data.
const (
	OrientTop    = "top"
	OrientBottom = "bottom"
	OrientLeft   = "left"
	OrientRight  = "right"
)

// Legend rendering modes.
const (
	LegendTypeScroll = "scroll"
	LegendTypePlain  = "plain"
)

// FormData carries the user-chosen chart controls. Field selectors (x, y,
// size, entity, series) name columns in the input rows. Everything else
// tunes axes, legend, tooltip, and bubble sizing. Bound and margin values
// arrive as strings or numbers depending on the control that produced
// them, so they are typed loosely and parsed downstream.
type FormData struct {
	X      string `json:"x"`                // column holding the x metric
	Y      string `json:"y"`                // column holding the y metric
	Size   string `json:"size"`             // column holding the size metric
	Entity string `json:"entity"`           // column identifying each point
	Series string `json:"series,omitempty"` // optional group-by column

	ChartID     string `json:"chart_id,omitempty"`     // stable instance key for color assignment
	ColorScheme string `json:"color_scheme,omitempty"` // palette scheme name

	MaxBubbleSize any      `json:"max_bubble_size,omitempty"` // string or number; default 25
	Opacity       *float64 `json:"opacity,omitempty"`         // bubble fill opacity; default 0.6

	XAxisTitle       string `json:"x_axis_title,omitempty"`
	YAxisTitle       string `json:"y_axis_title,omitempty"`
	XAxisTitleMargin any    `json:"x_axis_title_margin,omitempty"`
	YAxisTitleMargin any    `json:"y_axis_title_margin,omitempty"`

	XAxisFormat       string `json:"x_axis_format,omitempty"`       // number format spec for x labels
	YAxisFormat       string `json:"y_axis_format,omitempty"`       // number format spec for y labels
	TooltipSizeFormat string `json:"tooltip_size_format,omitempty"` // number format spec for size in tooltip

	XAxisBounds []any `json:"x_axis_bounds,omitempty"` // [min, max]; either side may be null/empty
	YAxisBounds []any `json:"y_axis_bounds,omitempty"`
	LogXAxis    bool  `json:"log_x_axis,omitempty"`
	LogYAxis    bool  `json:"log_y_axis,omitempty"`

	XAxisLabelRotation float64 `json:"x_axis_label_rotation,omitempty"` // degrees
	XAxisLabelInterval any     `json:"x_axis_label_interval,omitempty"` // "auto", 0, 1, ...

	TruncateXAxis bool `json:"truncate_x_axis,omitempty"` // allow axis to cut off zero
	TruncateYAxis bool `json:"truncate_y_axis,omitempty"`

	ShowLegend        *bool  `json:"show_legend,omitempty"` // default true
	LegendOrientation string `json:"legend_orientation,omitempty"`
	LegendType        string `json:"legend_type,omitempty"`
	LegendMargin      any    `json:"legend_margin,omitempty"`
}

// LegendVisible reports whether the legend should be drawn, defaulting to
// visible when the control is unset.
func (f FormData) LegendVisible() bool {
	if f.ShowLegend == nil {
		return true
	}
	return *f.ShowLegend
}

// ContextMenuHandler receives the viewport coordinates of a right-click on
// a chart element plus the point's filter metadata.
type ContextMenuHandler func(x, y int, meta map[string]any)

// SelectionHandler receives cross-filter state emitted by the chart, e.g.
// when the host highlights the clicked series.
type SelectionHandler func(selection map[string]any)

// Hooks are callbacks supplied by the hosting component. They are carried
// through the transform untouched; a nil SetSelection is replaced with a
// no-op so consumers can call it unconditionally.
type Hooks struct {
	OnContextMenu ContextMenuHandler `json:"-"`
	SetSelection  SelectionHandler   `json:"-"`
}

// Refs is a mutable bag the hosting component shares with the tooltip
// layer, typically holding renderer handles used for position tracking.
// The transform passes it through without inspecting it.
type Refs map[string]any

// ChartSpec is the serializable description of one chart: form controls
// plus query results plus render dimensions. It is the request body of the
// transform API and the on-disk format consumed by the CLI.
type ChartSpec struct {
	FormData      FormData      `json:"form_data"`
	Queries       []QueryResult `json:"queries"`
	Width         int           `json:"width,omitempty"`
	Height        int           `json:"height,omitempty"`
	InContextMenu bool          `json:"in_context_menu,omitempty"`
}

// ChartProps is the full input of one transform invocation: a ChartSpec
// joined with the in-process collaborators that cannot travel over the
// wire.
type ChartProps struct {
	Width         int
	Height        int
	FormData      FormData
	Queries       []QueryResult
	InContextMenu bool
	Hooks         Hooks
	Refs          Refs
}

// Props converts a decoded spec into transform input.
func (s ChartSpec) Props() ChartProps {
	return ChartProps{
		Width:         s.Width,
		Height:        s.Height,
		FormData:      s.FormData,
		Queries:       s.Queries,
		InContextMenu: s.InContextMenu,
	}
}

// Rows returns the rows of the first query result, or nil when no data
// was supplied.
func (p ChartProps) Rows() []Row {
	if len(p.Queries) == 0 {
		return nil
	}
	return p.Queries[0].Data
}

package echarts

import "github.com/vizprep/vizprep/pkg/models"

// defaultLegendPadding is the plot-edge clearance reserved for a visible
// legend when no explicit margin is configured.
const defaultLegendPadding = 20

// LegendProps builds the legend component from form controls: rendering
// mode (scroll or plain), edge placement derived from the orientation, and
// the unique series names collected during series building. A margin > 0
// offsets the legend from its edge.
func LegendProps(legendType, orientation string, show bool, margin int, data []string) Legend {
	if data == nil {
		data = []string{}
	}
	l := Legend{
		Show: show,
		Type: legendType,
		Data: data,
	}
	if l.Type == "" {
		l.Type = models.LegendTypeScroll
	}
	if margin < 0 {
		margin = 0
	}
	switch orientation {
	case models.OrientBottom:
		l.Orient = "horizontal"
		l.Bottom = margin
	case models.OrientLeft:
		l.Orient = "vertical"
		l.Left = margin
	case models.OrientRight:
		l.Orient = "vertical"
		l.Right = margin
	default: // top
		l.Orient = "horizontal"
		l.Top = margin
	}
	return l
}

// Padding computes the grid box from legend presence and axis title
// margins: titles need clearance below and left of the plot, and a
// visible legend reserves space at its edge (its margin when configured,
// a fixed default otherwise).
func Padding(showLegend bool, orientation string, legendMargin, xTitleMargin, yTitleMargin int) Grid {
	g := Grid{
		ContainLabel: true,
		Bottom:       xTitleMargin,
		Left:         yTitleMargin,
	}
	if !showLegend {
		return g
	}
	pad := legendMargin
	if pad <= 0 {
		pad = defaultLegendPadding
	}
	switch orientation {
	case models.OrientBottom:
		g.Bottom += pad
	case models.OrientLeft:
		g.Left += pad
	case models.OrientRight:
		g.Right += pad
	default: // top
		g.Top += pad
	}
	return g
}

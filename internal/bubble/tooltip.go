package bubble

import (
	"html"
	"strings"

	"github.com/spf13/cast"

	"github.com/vizprep/vizprep/internal/echarts"
	"github.com/vizprep/vizprep/pkg/models"
	"github.com/vizprep/vizprep/pkg/numfmt"
)

// TooltipLabels are the human-readable row labels of the tooltip body, in
// the fixed x, y, size order.
type TooltipLabels struct {
	X, Y, Size string
}

// TooltipFormatters format the corresponding point components. Nil
// entries fall back to the adaptive default formatter.
type TooltipFormatters struct {
	X, Y, Size numfmt.Func
}

// NewTooltipRenderer binds the form's labels and number formats into a
// point-to-markup function, the same closure the transform hands out.
func NewTooltipRenderer(fd models.FormData) func(echarts.Point) string {
	labels := TooltipLabels{X: fd.X, Y: fd.Y, Size: fd.Size}
	formatters := TooltipFormatters{
		X:    numfmt.Get(fd.XAxisFormat),
		Y:    numfmt.Get(fd.YAxisFormat),
		Size: numfmt.Get(fd.TooltipSizeFormat),
	}
	return func(p echarts.Point) string {
		return FormatTooltip(p, labels, formatters)
	}
}

// FormatTooltip renders the hover tooltip for one point: a bold title
// line followed by the three labeled value rows. The title is
// "group (entity)" when the point carries a group value, the entity alone
// otherwise. Pure and allocation-light; it runs on every hover event,
// far more often than the transform itself.
func FormatTooltip(p echarts.Point, labels TooltipLabels, f TooltipFormatters) string {
	var b strings.Builder
	b.Grow(160)

	b.WriteString("<b>")
	if p.HasGroup() {
		b.WriteString(html.EscapeString(cast.ToString(p.Group)))
		b.WriteString(" (")
		b.WriteString(html.EscapeString(cast.ToString(p.Entity)))
		b.WriteString(")")
	} else {
		b.WriteString(html.EscapeString(cast.ToString(p.Entity)))
	}
	b.WriteString("</b>")

	writeTooltipRow(&b, labels.X, p.X, f.X)
	writeTooltipRow(&b, labels.Y, p.Y, f.Y)
	writeTooltipRow(&b, labels.Size, p.Size, f.Size)
	return b.String()
}

func writeTooltipRow(b *strings.Builder, label string, v any, f numfmt.Func) {
	b.WriteString("<br/>")
	b.WriteString(html.EscapeString(label))
	b.WriteString(": ")
	b.WriteString(html.EscapeString(numfmt.Any(v, f)))
}

// Package preview renders a transformed chart as a compact terminal
// summary: a swatch line per legend entry plus axis and legend geometry,
// for sanity-checking a transform without a browser.
package preview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vizprep/vizprep/internal/bubble"
	"github.com/vizprep/vizprep/internal/echarts"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	nameStyle  = lipgloss.NewStyle().Width(18)
)

type seriesSummary struct {
	name   string
	color  string
	points int
	minR   *float64
	maxR   *float64
}

// Render returns the terminal summary of a transform.
func Render(tp bubble.TransformedProps) string {
	var b strings.Builder

	title := tp.FormData.ChartID
	if title == "" {
		title = "bubble chart"
	}
	b.WriteString(titleStyle.Render(title))
	if tp.Width > 0 && tp.Height > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  %dx%d", tp.Width, tp.Height)))
	}
	b.WriteByte('\n')

	b.WriteString(axisLine("x", tp.FormData.X, tp.Option.XAxis))
	b.WriteString(axisLine("y", tp.FormData.Y, tp.Option.YAxis))

	summaries := summarize(tp.Option.Series)
	fmt.Fprintf(&b, "%d series over %d legend entries\n", len(tp.Option.Series), len(summaries))
	for _, s := range summaries {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.color)).Render("●")
		b.WriteString(swatch)
		b.WriteByte(' ')
		b.WriteString(nameStyle.Render(s.name))
		b.WriteByte(' ')
		b.WriteString(countLabel(s.points))
		if s.minR != nil {
			b.WriteString("  radius " + formatRange(*s.minR, *s.maxR))
		}
		b.WriteByte('\n')
	}

	b.WriteString(legendLine(tp.Option.Legend))
	if !tp.Option.Tooltip.Show {
		b.WriteString(faintStyle.Render("tooltip suppressed"))
		b.WriteByte('\n')
	}
	return b.String()
}

// Swatches renders one colored block per palette color, for listing
// schemes in the terminal.
func Swatches(colors []string) string {
	var b strings.Builder
	for _, c := range colors {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●"))
	}
	return b.String()
}

// summarize folds the one-point series into per-name rows, keeping the
// legend's first-seen order.
func summarize(series []echarts.Series) []seriesSummary {
	var out []seriesSummary
	idx := make(map[string]int)
	for _, s := range series {
		i, ok := idx[s.Name]
		if !ok {
			i = len(out)
			idx[s.Name] = i
			out = append(out, seriesSummary{name: s.Name, color: s.ItemStyle.Color})
		}
		out[i].points += len(s.Data)
		if s.SymbolSize != nil {
			r := *s.SymbolSize
			if out[i].minR == nil || r < *out[i].minR {
				out[i].minR = &r
			}
			if out[i].maxR == nil || r > *out[i].maxR {
				out[i].maxR = &r
			}
		}
	}
	return out
}

func axisLine(axis, column string, ax echarts.Axis) string {
	parts := []string{axis + ":"}
	if column != "" {
		parts = append(parts, column)
	}
	kind := "linear"
	if ax.Type == echarts.AxisTypeLog {
		kind = "log"
	}
	if ax.Scale {
		kind += ", truncated"
	}
	parts = append(parts, "("+kind+")")
	if ax.Min != nil {
		parts = append(parts, "min "+trimFloat(*ax.Min))
	}
	if ax.Max != nil {
		parts = append(parts, "max "+trimFloat(*ax.Max))
	}
	if ax.Name != "" {
		parts = append(parts, strconv.Quote(ax.Name))
	}
	return strings.Join(parts, " ") + "\n"
}

func legendLine(l echarts.Legend) string {
	if !l.Show {
		return "legend: hidden\n"
	}
	return fmt.Sprintf("legend: %s %s\n", l.Orient, l.Type)
}

func countLabel(n int) string {
	if n == 1 {
		return "1 point"
	}
	return fmt.Sprintf("%d points", n)
}

func formatRange(min, max float64) string {
	if min == max {
		return trimFloat(min)
	}
	return trimFloat(min) + ".." + trimFloat(max)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

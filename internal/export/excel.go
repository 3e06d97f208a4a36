// Package export writes transformed chart props into an Excel workbook:
// a data sheet with one row per point, bucketed by series, plus a native
// bubble chart built over those ranges so the workbook mirrors what the
// renderer would draw.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vizprep/vizprep/internal/bubble"
	"github.com/vizprep/vizprep/internal/echarts"
	"github.com/vizprep/vizprep/pkg/models"
)

// Data sheet column layout, 1-based.
const (
	colEntity = 1
	colGroup  = 2
	colX      = 3
	colY      = 4
	colSize   = 5
	colRadius = 6
)

// Options controls workbook layout.
type Options struct {
	SheetName string // data sheet name, default "Data"
	Title     string // chart title, empty for none
}

type seriesBucket struct {
	name   string
	color  string
	points []bucketPoint
}

type bucketPoint struct {
	point  echarts.Point
	radius *float64
}

// Workbook builds an in-memory workbook from transformed props. The
// caller owns the returned file and must Close it.
func Workbook(tp bubble.TransformedProps, opts Options) (*excelize.File, error) {
	sheet := opts.SheetName
	if sheet == "" {
		sheet = "Data"
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}

	fd := tp.FormData
	headers := []any{
		headerOr(fd.Entity, "entity"),
		headerOr(fd.Series, "group"),
		headerOr(fd.X, "x"),
		headerOr(fd.Y, "y"),
		headerOr(fd.Size, "size"),
		"radius",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("export: write header: %w", err)
	}
	if styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", "F1", styleID)
	}
	_ = f.SetColWidth(sheet, "A", "F", 14)

	buckets := bucketSeries(tp.Option.Series)

	// Once the transform assigns radii it assigns them everywhere, so a
	// single probe decides which column feeds the chart's size range.
	radii := false
	for _, s := range tp.Option.Series {
		if s.SymbolSize != nil {
			radii = true
			break
		}
	}
	sizeCol := colSize
	if radii {
		sizeCol = colRadius
	}

	row := 2
	var chartSeries []excelize.ChartSeries
	for _, b := range buckets {
		start := row
		for _, bp := range b.points {
			vals := []any{bp.point.Entity, b.name, bp.point.X, bp.point.Y, bp.point.Size, nil}
			if bp.radius != nil {
				vals[colRadius-1] = *bp.radius
			}
			cell, _ := excelize.CoordinatesToCellName(colEntity, row)
			if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
				return nil, fmt.Errorf("export: write row %d: %w", row, err)
			}
			row++
		}
		end := row - 1

		chartSeries = append(chartSeries, excelize.ChartSeries{
			Name:       rangeRef(sheet, colGroup, start, start),
			Categories: rangeRef(sheet, colX, start, end),
			Values:     rangeRef(sheet, colY, start, end),
			Sizes:      rangeRef(sheet, sizeCol, start, end),
			Fill:       excelize.Fill{Color: []string{strings.TrimPrefix(b.color, "#")}},
		})
	}

	if len(chartSeries) > 0 {
		chart := &excelize.Chart{
			Type:       excelize.Bubble,
			Series:     chartSeries,
			BubbleSize: bubbleScale(fd.MaxBubbleSize),
			Legend:     legendPosition(fd),
			XAxis:      chartAxis(fd.XAxisTitle, fd.LogXAxis, fd.XAxisBounds),
			YAxis:      chartAxis(fd.YAxisTitle, fd.LogYAxis, fd.YAxisBounds),
			Dimension:  chartDimension(tp.Width, tp.Height),
		}
		if opts.Title != "" {
			chart.Title = []excelize.RichTextRun{{Text: opts.Title}}
		}
		anchor, _ := excelize.CoordinatesToCellName(colRadius+2, 2)
		if err := f.AddChart(sheet, anchor, chart); err != nil {
			return nil, fmt.Errorf("export: add chart: %w", err)
		}
	}

	return f, nil
}

// WriteFile builds the workbook and saves it to path, creating parent
// directories as needed.
func WriteFile(tp bubble.TransformedProps, path string, opts Options) error {
	f, err := Workbook(tp, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("export: create output directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: save workbook %s: %w", path, err)
	}
	return nil
}

// bucketSeries merges the transform's one-point series into contiguous
// per-name blocks, preserving legend (first seen) order.
func bucketSeries(series []echarts.Series) []seriesBucket {
	var buckets []seriesBucket
	index := make(map[string]int)
	for _, s := range series {
		i, ok := index[s.Name]
		if !ok {
			i = len(buckets)
			index[s.Name] = i
			buckets = append(buckets, seriesBucket{name: s.Name, color: s.ItemStyle.Color})
		}
		for _, p := range s.Data {
			buckets[i].points = append(buckets[i].points, bucketPoint{point: p, radius: s.SymbolSize})
		}
	}
	return buckets
}

// rangeRef builds an absolute reference like Data!$C$2:$C$7, collapsing
// to a single cell when the rows coincide.
func rangeRef(sheet string, col, fromRow, toRow int) string {
	from, _ := excelize.CoordinatesToCellName(col, fromRow, true)
	if fromRow == toRow {
		return quoteSheet(sheet) + "!" + from
	}
	to, _ := excelize.CoordinatesToCellName(col, toRow, true)
	return quoteSheet(sheet) + "!" + from + ":" + to
}

// quoteSheet quotes a sheet name for use in a reference when it needs it.
func quoteSheet(name string) string {
	if strings.ContainsAny(name, " '") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}

func headerOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// bubbleScale maps the renderer's max bubble size onto Excel's bubble
// scale percentage, where the renderer default of 25 is Excel's 100.
func bubbleScale(maxBubbleSize any) int {
	pct := int(bubble.ParseMaxBubbleSize(maxBubbleSize) * 4)
	if pct < 1 {
		pct = 1
	}
	if pct > 300 {
		pct = 300
	}
	return pct
}

func legendPosition(fd models.FormData) excelize.ChartLegend {
	if !fd.LegendVisible() {
		return excelize.ChartLegend{Position: "none"}
	}
	switch fd.LegendOrientation {
	case models.OrientBottom:
		return excelize.ChartLegend{Position: "bottom"}
	case models.OrientLeft:
		return excelize.ChartLegend{Position: "left"}
	case models.OrientRight:
		return excelize.ChartLegend{Position: "right"}
	default:
		return excelize.ChartLegend{Position: "top"}
	}
}

func chartAxis(title string, log bool, bounds []any) excelize.ChartAxis {
	ax := excelize.ChartAxis{MajorGridLines: true}
	if title != "" {
		ax.Title = []excelize.RichTextRun{{Text: title}}
	}
	if log {
		ax.LogBase = 10
	}
	ax.Minimum, ax.Maximum = echarts.ParseAxisBounds(bounds)
	return ax
}

func chartDimension(width, height int) excelize.ChartDimension {
	if width <= 0 || height <= 0 {
		return excelize.ChartDimension{}
	}
	return excelize.ChartDimension{Width: uint(width), Height: uint(height)}
}

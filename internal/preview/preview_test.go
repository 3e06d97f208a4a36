package preview

import (
	"strings"
	"testing"

	"github.com/vizprep/vizprep/internal/bubble"
	"github.com/vizprep/vizprep/pkg/models"
)

func previewProps(chartID string) models.ChartProps {
	rows := []models.Row{
		{"country": "India", "region": "Asia", "gdp": 2100.0, "life": 69.7, "pop": 10.0},
		{"country": "France", "region": "Europe", "gdp": 39000.0, "life": 82.7, "pop": 20.0},
		{"country": "China", "region": "Asia", "gdp": 10500.0, "life": 76.9, "pop": 30.0},
		{"country": "Germany", "region": "Europe", "gdp": 46200.0, "life": 81.3, "pop": 40.0},
		{"country": "Japan", "region": "Asia", "gdp": 40100.0, "life": 84.6, "pop": 50.0},
	}
	return models.ChartProps{
		Width:  800,
		Height: 600,
		FormData: models.FormData{
			X:       "gdp",
			Y:       "life",
			Size:    "pop",
			Entity:  "country",
			Series:  "region",
			ChartID: chartID,
		},
		Queries: []models.QueryResult{{Data: rows}},
	}
}

func mustContain(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	out := Render(bubble.Transform(previewProps("preview-basic")))

	mustContain(t, out,
		"preview-basic",
		"800x600",
		"x: gdp (linear)",
		"y: life (linear)",
		"5 series over 2 legend entries",
		"Asia",
		"Europe",
		"3 points",
		"2 points",
		"radius 5..55",
		"radius 17.5..42.5",
		"legend: horizontal scroll",
	)
	if strings.Contains(out, "tooltip suppressed") {
		t.Errorf("tooltip reported suppressed for a normal render:\n%s", out)
	}
}

func TestRenderUntitled(t *testing.T) {
	props := previewProps("")
	props.Width = 0
	props.Height = 0

	out := Render(bubble.Transform(props))
	mustContain(t, out, "bubble chart")
	if strings.Contains(out, "0x0") {
		t.Errorf("zero dimensions should be omitted:\n%s", out)
	}
}

func TestRenderHiddenLegendAndTooltip(t *testing.T) {
	props := previewProps("preview-hidden")
	hide := false
	props.FormData.ShowLegend = &hide
	props.InContextMenu = true

	out := Render(bubble.Transform(props))
	mustContain(t, out, "legend: hidden", "tooltip suppressed")
}

func TestRenderAxisDetails(t *testing.T) {
	props := previewProps("preview-axes")
	props.FormData.LogXAxis = true
	props.FormData.XAxisBounds = []any{"1000", nil}
	props.FormData.XAxisTitle = "GDP per capita"
	props.FormData.TruncateYAxis = true

	out := Render(bubble.Transform(props))
	mustContain(t, out,
		"x: gdp (log) min 1000 \"GDP per capita\"",
		"y: life (linear, truncated)",
	)
}

func TestSwatches(t *testing.T) {
	out := Swatches([]string{"#2196f3", "#ff9800", "#4caf50"})
	if got := strings.Count(out, "●"); got != 3 {
		t.Errorf("swatch count: got %d, want 3", got)
	}
	if Swatches(nil) != "" {
		t.Error("no colors should render no swatches")
	}
}

func TestRenderSingleValueRadius(t *testing.T) {
	props := previewProps("preview-flat")
	for _, q := range props.Queries {
		for _, row := range q.Data {
			row["pop"] = 7.0
		}
	}

	out := Render(bubble.Transform(props))
	// Equal min and max collapse to a single radius value.
	if strings.Contains(out, "..") {
		t.Errorf("expected collapsed radius range:\n%s", out)
	}
	mustContain(t, out, "radius ")
}

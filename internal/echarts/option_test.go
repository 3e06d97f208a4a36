package echarts

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPointMarshalPositional(t *testing.T) {
	p := Point{X: 1.0, Y: 2.5, Size: 3.0, Entity: "IND", Group: "Asia"}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[1,2.5,3,"IND","Asia"]`
	if string(data) != want {
		t.Errorf("marshal: got %s, want %s", data, want)
	}

	// Nil components stay positional.
	p = Point{X: 1.0, Y: 2.0}
	data, err = json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `[1,2,null,null,null]` {
		t.Errorf("marshal with nils: got %s", data)
	}
}

func TestPointUnmarshal(t *testing.T) {
	var p Point
	if err := json.Unmarshal([]byte(`[10, 20, 5, "BRA", null]`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Entity != "BRA" {
		t.Errorf("Entity: got %v", p.Entity)
	}
	if p.Group != nil {
		t.Errorf("Group: got %v, want nil", p.Group)
	}
	if v, ok := p.SizeValue(); !ok || v != 5 {
		t.Errorf("SizeValue: got %v/%v, want 5/true", v, ok)
	}

	// Short arrays leave trailing components nil.
	if err := json.Unmarshal([]byte(`[1, 2]`), &p); err != nil {
		t.Fatalf("unmarshal short: %v", err)
	}
	if p.Size != nil || p.Entity != nil || p.Group != nil {
		t.Errorf("short array should nil out tail: %+v", p)
	}

	if err := json.Unmarshal([]byte(`{"x":1}`), &p); err == nil {
		t.Error("non-array point should fail to decode")
	}
	if err := json.Unmarshal([]byte(`[1,2,3,4,5,6]`), &p); err == nil {
		t.Error("oversized point should fail to decode")
	}
}

func TestPointSizeValue(t *testing.T) {
	tests := []struct {
		name string
		size any
		want float64
		ok   bool
	}{
		{"float", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"numeric string", "42", 42, true},
		{"nil", nil, 0, false},
		{"garbage string", "large", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Point{Size: tt.size}
			got, ok := p.SizeValue()
			if ok != tt.ok || got != tt.want {
				t.Errorf("SizeValue() = %v/%v, want %v/%v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSeriesSymbolSizeOmitted(t *testing.T) {
	s := NewScatterSeries("alpha", Point{X: 1, Y: 2}, "#4477AA", 0.6)
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "symbolSize") {
		t.Errorf("unassigned symbolSize must be absent from the wire: %s", data)
	}
	if s.Type != "scatter" {
		t.Errorf("Type: got %q", s.Type)
	}

	r := 17.5
	s.SymbolSize = &r
	data, _ = json.Marshal(s)
	if !strings.Contains(string(data), `"symbolSize":17.5`) {
		t.Errorf("assigned symbolSize missing: %s", data)
	}
}

func TestAxisBoundsOmitted(t *testing.T) {
	a := Axis{Type: AxisTypeValue, Scale: true}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), `"min"`) || strings.Contains(string(data), `"max"`) {
		t.Errorf("unconstrained bounds must be absent: %s", data)
	}

	lo := 0.0
	a.Min = &lo
	data, _ = json.Marshal(a)
	if !strings.Contains(string(data), `"min":0`) {
		t.Errorf("explicit zero bound must survive: %s", data)
	}
}

func TestDefaultTooltip(t *testing.T) {
	tt := DefaultTooltip()
	if !tt.Show || tt.Trigger != "item" || !tt.AppendToBody {
		t.Errorf("unexpected defaults: %+v", tt)
	}
}

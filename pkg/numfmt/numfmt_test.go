package numfmt

import "testing"

func TestGetGroupedInteger(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1234567, "1,234,567"},
		{-9876.4, "-9,876"},
	}

	f := Get(",d")
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := f(tt.input); got != tt.expected {
				t.Errorf("Get(\",d\")(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetFixed(t *testing.T) {
	tests := []struct {
		spec     string
		input    float64
		expected string
	}{
		{".2f", 3.14159, "3.14"},
		{".2f", 2, "2.00"},
		{".2f", 10.556, "10.56"},
		{",.2f", 1234.5, "1,234.50"},
		{",.2f", -1234.5, "-1,234.50"},
		{".0f", 7.6, "8"},
	}

	for _, tt := range tests {
		t.Run(tt.spec+"/"+tt.expected, func(t *testing.T) {
			if got := Get(tt.spec)(tt.input); got != tt.expected {
				t.Errorf("Get(%q)(%v) = %q, want %q", tt.spec, tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetPercent(t *testing.T) {
	tests := []struct {
		spec     string
		input    float64
		expected string
	}{
		{".1%", 0.123, "12.3%"},
		{".0%", 0.5, "50%"},
		{".1%", 1, "100.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Get(tt.spec)(tt.input); got != tt.expected {
				t.Errorf("Get(%q)(%v) = %q, want %q", tt.spec, tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetSIPrefix(t *testing.T) {
	tests := []struct {
		spec     string
		input    float64
		expected string
	}{
		{".3s", 42100000, "42.1M"},
		{".3s", 1234, "1.23k"},
		{".3s", 1000000, "1.00M"},
		{".3~s", 1000000, "1M"},
		{".3s", 0.00042, "420µ"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Get(tt.spec)(tt.input); got != tt.expected {
				t.Errorf("Get(%q)(%v) = %q, want %q", tt.spec, tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetScientificAndSig(t *testing.T) {
	tests := []struct {
		spec     string
		input    float64
		expected string
	}{
		{".2e", 12345, "1.23e+04"},
		{".4r", 3.14159, "3.142"},
		{".4r", 123456, "123500"},
		{",.4r", 123456, "123,500"},
		{"~g", 1.2, "1.2"},
	}

	for _, tt := range tests {
		t.Run(tt.spec+"/"+tt.expected, func(t *testing.T) {
			if got := Get(tt.spec)(tt.input); got != tt.expected {
				t.Errorf("Get(%q)(%v) = %q, want %q", tt.spec, tt.input, got, tt.expected)
			}
		})
	}
}

func TestSmart(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{7, "7"},
		{250, "250"},
		{12.5, "12.5"},
		{3.14159, "3.142"},
		{1234.5, "1.23k"},
		{-2500000, "-2.5M"},
		{0.000042, "42µ"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Smart(tt.input); got != tt.expected {
				t.Errorf("Smart(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetFallback(t *testing.T) {
	// Malformed specs must yield a working formatter, not a failure.
	for _, spec := range []string{"bogus", "..2f", ".2x", ",,d", ".f"} {
		f := Get(spec)
		if f == nil {
			t.Fatalf("Get(%q) returned nil", spec)
		}
		if got := f(7); got != "7" {
			t.Errorf("Get(%q)(7) = %q, want fallback %q", spec, got, "7")
		}
	}
}

func TestAny(t *testing.T) {
	f := Get(".1f")
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "N/A"},
		{"float", 3.45, "3.5"},
		{"numeric string", "42", "42.0"},
		{"plain string", "hello", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Any(tt.input, f); got != tt.expected {
				t.Errorf("Any(%#v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetCaches(t *testing.T) {
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				if got := Get(",.2f")(1000); got != "1,000.00" {
					t.Errorf("concurrent Get: got %q", got)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

// Package numfmt compiles d3-format style specifier strings into number
// formatting functions. It covers the subset of the d3 grammar that chart
// controls actually emit: an optional grouping comma, an optional
// precision, an optional trim tilde, and a type verb.
//
//	",d"    → 1234567  → "1,234,567"
//	".2f"   → 3.14159  → "3.14"
//	",.2f"  → 1234.5   → "1,234.50"
//	".1%"   → 0.123    → "12.3%"
//	".3s"   → 42100000 → "42.1M"
//	".2e"   → 12345    → "1.23e+04"
//	"~g"    → 1.2000   → "1.2"
//
// Unknown or empty specifiers fall back to an adaptive default, so Get
// never fails; formatting stays best-effort the same way the transform
// treats malformed option values.
package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cast"
)

// Func formats a single numeric value for display.
type Func func(float64) string

var cache = struct {
	sync.RWMutex
	m map[string]Func
}{m: make(map[string]Func)}

// Get returns the formatter for the given specifier, compiling and caching
// it on first use. Malformed specifiers return the Smart fallback.
func Get(spec string) Func {
	cache.RLock()
	f, ok := cache.m[spec]
	cache.RUnlock()
	if ok {
		return f
	}

	f = compile(spec)

	cache.Lock()
	cache.m[spec] = f
	cache.Unlock()
	return f
}

// Any formats an arbitrary scalar for display: numeric values (including
// numeric strings) go through f, nil becomes "N/A", everything else is
// stringified as-is. A nil f means Smart.
func Any(v any, f Func) string {
	if v == nil {
		return "N/A"
	}
	if f == nil {
		f = Smart
	}
	if n, err := cast.ToFloat64E(v); err == nil {
		return f(n)
	}
	return cast.ToString(v)
}

// Smart is the default formatter: grouped integers for small integral
// values, SI notation for large or tiny magnitudes, and four significant
// digits otherwise.
//
//	7        → "7"
//	1234.5   → "1.23k"
//	0.000042 → "42µ"
//	3.14159  → "3.142"
func Smart(v float64) string {
	if !isFinite(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if v == 0 {
		return "0"
	}
	a := math.Abs(v)
	if a >= 1000 || a < 1e-3 {
		return trimZeros(siFormat(v, 3, false))
	}
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return trimZeros(roundSig(v, 4, false))
}

// format holds one parsed specifier.
type format struct {
	comma   bool
	prec    int
	hasPrec bool
	trim    bool
	verb    byte // one of d e f g r s %; 0 when absent
}

// compile parses a specifier; anything outside the supported grammar maps
// to Smart.
func compile(spec string) Func {
	if spec == "" {
		return Smart
	}
	f, err := parse(spec)
	if err != nil {
		return Smart
	}
	return f.fn()
}

// parse reads the `[,][.precision][~][type]` grammar.
func parse(spec string) (format, error) {
	var f format
	s := spec

	if strings.HasPrefix(s, ",") {
		f.comma = true
		s = s[1:]
	}
	if strings.HasPrefix(s, ".") {
		s = s[1:]
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return f, fmt.Errorf("numfmt: missing precision digits in %q", spec)
		}
		n, err := strconv.Atoi(s[:i])
		if err != nil {
			return f, fmt.Errorf("numfmt: bad precision in %q: %w", spec, err)
		}
		f.prec, f.hasPrec = n, true
		s = s[i:]
	}
	if strings.HasPrefix(s, "~") {
		f.trim = true
		s = s[1:]
	}
	switch len(s) {
	case 0:
		// bare "," / ".4" / "~" forms
	case 1:
		switch s[0] {
		case 'd', 'e', 'f', 'g', 'r', 's', '%':
			f.verb = s[0]
		default:
			return f, fmt.Errorf("numfmt: unsupported type %q in %q", s, spec)
		}
	default:
		return f, fmt.Errorf("numfmt: trailing garbage %q in %q", s, spec)
	}
	return f, nil
}

// precOr returns the explicit precision or the verb default.
func (f format) precOr(def int) int {
	if f.hasPrec {
		return f.prec
	}
	return def
}

func (f format) fn() Func {
	switch f.verb {
	case 'd':
		return func(v float64) string {
			if !isFinite(v) {
				return strconv.FormatFloat(v, 'g', -1, 64)
			}
			var s string
			if math.Abs(v) < 1e18 {
				s = strconv.FormatInt(int64(math.Round(v)), 10)
			} else {
				s = strconv.FormatFloat(math.Round(v), 'f', 0, 64)
			}
			if f.comma {
				s = group(s)
			}
			return s
		}
	case 'f':
		prec := f.precOr(6)
		return func(v float64) string {
			if !isFinite(v) {
				return strconv.FormatFloat(v, 'g', -1, 64)
			}
			s := strconv.FormatFloat(v, 'f', prec, 64)
			if f.trim {
				s = trimZeros(s)
			}
			if f.comma {
				s = group(s)
			}
			return s
		}
	case '%':
		prec := f.precOr(6)
		return func(v float64) string {
			if !isFinite(v) {
				return strconv.FormatFloat(v, 'g', -1, 64)
			}
			s := strconv.FormatFloat(v*100, 'f', prec, 64)
			if f.trim {
				s = trimZeros(s)
			}
			if f.comma {
				s = group(s)
			}
			return s + "%"
		}
	case 'e':
		prec := f.precOr(6)
		return func(v float64) string {
			return strconv.FormatFloat(v, 'e', prec, 64)
		}
	case 'g':
		prec := f.precOr(6)
		return func(v float64) string {
			s := strconv.FormatFloat(v, 'g', prec, 64)
			if f.trim {
				s = trimZeros(s)
			}
			return s
		}
	case 'r':
		prec := f.precOr(6)
		return func(v float64) string {
			if !isFinite(v) {
				return strconv.FormatFloat(v, 'g', -1, 64)
			}
			s := roundSig(v, prec, !f.trim)
			if f.trim {
				s = trimZeros(s)
			}
			if f.comma {
				s = group(s)
			}
			return s
		}
	case 's':
		prec := f.precOr(3)
		return func(v float64) string {
			if !isFinite(v) {
				return strconv.FormatFloat(v, 'g', -1, 64)
			}
			s := siFormat(v, prec, !f.trim)
			if f.trim {
				s = trimZeros(s)
			}
			if f.comma {
				s = group(s)
			}
			return s
		}
	default:
		// No type verb: significant digits with insignificant zeros trimmed.
		prec := f.precOr(12)
		return func(v float64) string {
			if !isFinite(v) {
				return strconv.FormatFloat(v, 'g', -1, 64)
			}
			s := trimZeros(roundSig(v, prec, false))
			if f.comma {
				s = group(s)
			}
			return s
		}
	}
}

// siPrefixes covers 1e-24 through 1e24 in thousands steps; index 8 is the
// empty prefix at 1e0.
var siPrefixes = [...]string{"y", "z", "a", "f", "p", "n", "µ", "m", "", "k", "M", "G", "T", "P", "E", "Z", "Y"}

// siFormat renders v with an SI magnitude prefix and the given number of
// significant digits. pad keeps trailing zeros ("1.00M"); trimming is the
// caller's job.
func siFormat(v float64, sig int, pad bool) string {
	if v == 0 {
		return "0"
	}
	exp := int(math.Floor(math.Log10(math.Abs(v)) / 3))
	if exp < -8 {
		exp = -8
	}
	if exp > 8 {
		exp = 8
	}
	scaled := v / math.Pow(10, float64(exp*3))
	return roundSig(scaled, sig, pad) + siPrefixes[exp+8]
}

// roundSig rounds v to sig significant digits and renders it in plain
// decimal notation. pad keeps trailing zeros up to sig digits.
func roundSig(v float64, sig int, pad bool) string {
	if v == 0 {
		if pad && sig > 1 {
			return "0." + strings.Repeat("0", sig-1)
		}
		return "0"
	}
	if sig < 1 {
		sig = 1
	}
	mag := int(math.Floor(math.Log10(math.Abs(v))))
	decimals := sig - 1 - mag
	if decimals < 0 {
		scale := math.Pow(10, float64(-decimals))
		return strconv.FormatFloat(math.Round(v/scale)*scale, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// group inserts thousands separators into the integer part of a plain
// decimal string; sign and fraction are preserved.
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	intPart := s
	rest := ""
	if i := strings.IndexAny(s, ".eE"); i >= 0 {
		intPart, rest = s[:i], s[i:]
	}
	// Non-digit tail (an SI prefix) stays out of the grouping.
	end := len(intPart)
	for end > 0 && (intPart[end-1] < '0' || intPart[end-1] > '9') {
		end--
	}
	intPart, tail := intPart[:end], intPart[end:]

	if len(intPart) <= 3 {
		return sign + intPart + tail + rest
	}
	var b strings.Builder
	b.Grow(len(intPart) + len(intPart)/3)
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + tail + rest
}

// trimZeros drops trailing fractional zeros and a dangling decimal point,
// leaving any SI prefix or exponent intact.
func trimZeros(s string) string {
	exp := ""
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		s, exp = s[:i], s[i:]
	}
	if strings.IndexByte(s, '.') < 0 {
		return s + exp
	}
	end := len(s)
	for end > 0 && (s[end-1] < '0' || s[end-1] > '9') && s[end-1] != '.' {
		end--
	}
	tail := s[end:]
	num := s[:end]
	num = strings.TrimRight(num, "0")
	num = strings.TrimRight(num, ".")
	return num + tail + exp
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

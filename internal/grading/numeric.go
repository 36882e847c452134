package grading

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coerce converts loosely typed numeric input into a finite float64.
// Percentages and scores reach us as numbers, numeric strings, or
// nullable pointers depending on the payload; anything absent or
// unparseable falls back to def.
func Coerce(v interface{}, def float64) float64 {
	switch n := v.(type) {
	case nil:
		return def
	case float64:
		return finiteOr(n, def)
	case float32:
		return finiteOr(float64(n), def)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		return parseOr(n.String(), def)
	case string:
		return parseOr(n, def)
	case *float64:
		if n == nil {
			return def
		}
		return finiteOr(*n, def)
	case *string:
		if n == nil {
			return def
		}
		return parseOr(*n, def)
	default:
		return def
	}
}

// CoercePtr converts loosely typed numeric input into a nullable
// float64, mapping null/empty/unparseable values to nil.
func CoercePtr(v interface{}) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case *float64:
		return n
	case *string:
		if n == nil {
			return nil
		}
		return CoercePtr(*n)
	case string:
		if strings.TrimSpace(n) == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil
		}
		return &parsed
	default:
		f := Coerce(v, math.NaN())
		if math.IsNaN(f) {
			return nil
		}
		return &f
	}
}

// Round2 rounds half away from zero to two decimal places. The
// rounding happens on the decimal form of the value, so decimal
// halves like 1.005 round up even though their float64 form sits
// just below the half.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	shifted, err := strconv.ParseFloat(shiftDecimal(strconv.FormatFloat(v, 'f', -1, 64), 2), 64)
	if err != nil {
		return math.Round(v*100) / 100
	}
	return math.Round(shifted) / 100
}

// shiftDecimal moves the decimal point n places to the right on the
// textual form, padding the fraction with zeros when it is short.
func shiftDecimal(s string, n int) string {
	intPart, fracPart, _ := strings.Cut(s, ".")
	for len(fracPart) < n {
		fracPart += "0"
	}
	out := intPart + fracPart[:n]
	if rest := fracPart[n:]; rest != "" {
		out += "." + rest
	}
	return out
}

func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func parseOr(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return finiteOr(v, def)
}

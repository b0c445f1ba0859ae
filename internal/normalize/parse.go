package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
)

// ParseOptionalFloat coerces a provider value to a float. Anything that is
// not a finite number comes back invalid; it is never turned into zero.
func ParseOptionalFloat(raw any) null.Float {
	var f float64
	switch v := raw.(type) {
	case nil:
		return null.Float{}
	case null.Float:
		return v
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint32:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return null.Float{}
		}
		f = parsed
	case string:
		parsed, ok := parseNumericString(v)
		if !ok {
			return null.Float{}
		}
		f = parsed
	default:
		return null.Float{}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Float{}
	}
	return null.FloatFrom(f)
}

// parseNumericString accepts plain and comma-grouped numbers ("1,234.5").
// Placeholders such as "None", "-" and "" are rejected.
func parseNumericString(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	switch strings.ToLower(s) {
	case "", "-", "none", "null", "nan", "n/a":
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// orZero is the charting fallback for open/high/low.
func orZero(raw any) float64 {
	v := ParseOptionalFloat(raw)
	if !v.Valid || v.Float64 < 0 {
		return 0
	}
	return v.Float64
}

func volumeOf(raw any) int64 {
	v := ParseOptionalFloat(raw)
	if !v.Valid || v.Float64 < 0 {
		return 0
	}
	return int64(v.Float64)
}

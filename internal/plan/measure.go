package plan

import (
	"math"
	"strconv"
	"strings"
)

// ParseLenientNumber drops every character that is not a digit, '.' or '-'
// and parses what is left, so "150 lb" and "22%" both read as numbers.
func ParseLenientNumber(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Reading is one optional numeric value.
type Reading struct {
	Value float64 `json:"value"`
	OK    bool    `json:"ok"`
}

// BloodPressure is a parsed "systolic/diastolic" cell. Either side may be
// missing; plausibility is not checked.
type BloodPressure struct {
	Systolic  Reading `json:"systolic"`
	Diastolic Reading `json:"diastolic"`
}

// ParseBloodPressure splits raw on '/' and leniently parses each side.
func ParseBloodPressure(raw string) BloodPressure {
	var bp BloodPressure
	if strings.TrimSpace(raw) == "" {
		return bp
	}
	parts := strings.Split(raw, "/")
	bp.Systolic.Value, bp.Systolic.OK = ParseLenientNumber(parts[0])
	if len(parts) > 1 {
		bp.Diastolic.Value, bp.Diastolic.OK = ParseLenientNumber(parts[1])
	}
	return bp
}

// round1 rounds to one decimal place.
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// round2 rounds to two decimal places.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// formatNumber renders v in its shortest decimal form ("178", "177.6").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// roundInt rounds v to the nearest integer. Values outside the int32 range
// fail rather than wrap.
func roundInt(v float64) (int, bool) {
	r := math.Round(v)
	if !finite(r) || r > math.MaxInt32 || r < math.MinInt32 {
		return 0, false
	}
	return int(r), true
}

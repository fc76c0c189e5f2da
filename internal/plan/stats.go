package plan

// Point is one filled week: its zero-based row index and value.
type Point struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// FilledWeights returns the rows whose current weight parses, in row order.
func FilledWeights(rows [WeekCount]WeekEntry) []Point {
	var pts []Point
	for i, r := range rows {
		if v, ok := r.Current.Value(); ok {
			pts = append(pts, Point{Index: i, Value: v})
		}
	}
	return pts
}

// Stats summarizes the recorded weights.
type Stats struct {
	Start      float64 `json:"start"`
	Latest     float64 `json:"latest"`
	Total      float64 `json:"total"`
	Weeks      int     `json:"weeks"`
	AvgPerWeek float64 `json:"avg_per_week"`
}

// ComputeStats derives the summary from filled weights. Weeks is the number
// of filled entries minus one (at least 1), not the calendar span.
func ComputeStats(rows [WeekCount]WeekEntry) (Stats, bool) {
	pts := FilledWeights(rows)
	if len(pts) == 0 {
		return Stats{}, false
	}
	start := pts[0].Value
	latest := pts[len(pts)-1].Value
	total := round1(latest - start)
	weeks := max(1, len(pts)-1)
	return Stats{
		Start:      start,
		Latest:     latest,
		Total:      total,
		Weeks:      weeks,
		AvgPerWeek: round2(total / float64(weeks)),
	}, true
}

// Trend is a display hint derived from the sign of the total change.
func (s Stats) Trend() string {
	switch {
	case s.Total > 0:
		return "gain"
	case s.Total < 0:
		return "loss"
	}
	return "flat"
}

package plan

import "fmt"

// SeriesKey identifies one metric of the multi-series chart.
type SeriesKey string

const (
	SeriesCurrent SeriesKey = "current"
	SeriesBodyFat SeriesKey = "bodyFat"
	SeriesMuscle  SeriesKey = "muscle"
	SeriesWater   SeriesKey = "water"
	SeriesBPSys   SeriesKey = "bpSys"
	SeriesBPDia   SeriesKey = "bpDia"
	SeriesWaist   SeriesKey = "waist"
)

// SeriesVisibility records which series the user wants drawn. A struct
// rather than a map so that all seven keys always exist.
type SeriesVisibility struct {
	Current bool `json:"current"`
	BodyFat bool `json:"bodyFat"`
	Muscle  bool `json:"muscle"`
	Water   bool `json:"water"`
	BPSys   bool `json:"bpSys"`
	BPDia   bool `json:"bpDia"`
	Waist   bool `json:"waist"`
}

// DefaultSeriesVisibility shows weight, body fat and waist.
func DefaultSeriesVisibility() SeriesVisibility {
	return SeriesVisibility{Current: true, BodyFat: true, Waist: true}
}

func (v *SeriesVisibility) flag(key SeriesKey) *bool {
	switch key {
	case SeriesCurrent:
		return &v.Current
	case SeriesBodyFat:
		return &v.BodyFat
	case SeriesMuscle:
		return &v.Muscle
	case SeriesWater:
		return &v.Water
	case SeriesBPSys:
		return &v.BPSys
	case SeriesBPDia:
		return &v.BPDia
	case SeriesWaist:
		return &v.Waist
	}
	return nil
}

// Visible reports the flag for key; unknown keys are never visible.
func (v SeriesVisibility) Visible(key SeriesKey) bool {
	f := v.flag(key)
	return f != nil && *f
}

// Set changes the flag for key.
func (v *SeriesVisibility) Set(key SeriesKey, visible bool) error {
	f := v.flag(key)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrUnknownSeries, key)
	}
	*f = visible
	return nil
}

// SeriesDef describes how one metric is read from a week and drawn.
type SeriesDef struct {
	Key     SeriesKey
	Label   string
	Color   string
	Value   func(WeekEntry) (float64, bool)
	Visible bool
}

// DefaultSeries is the fixed, ordered table of chartable metrics. Every
// entry is hidden; use SeriesDefs to apply a state's visibility.
func DefaultSeries() []SeriesDef {
	return []SeriesDef{
		{Key: SeriesCurrent, Label: "Weight", Color: "#2563eb", Value: func(e WeekEntry) (float64, bool) { return e.Current.Value() }},
		{Key: SeriesBodyFat, Label: "Body fat %", Color: "#dc2626", Value: func(e WeekEntry) (float64, bool) { return e.BodyFat.Value() }},
		{Key: SeriesMuscle, Label: "Muscle", Color: "#16a34a", Value: func(e WeekEntry) (float64, bool) { return e.Muscle.Value() }},
		{Key: SeriesWater, Label: "Water %", Color: "#0891b2", Value: func(e WeekEntry) (float64, bool) { return e.Water.Value() }},
		{Key: SeriesBPSys, Label: "BP systolic", Color: "#9333ea", Value: func(e WeekEntry) (float64, bool) {
			r := e.BP.BloodPressure().Systolic
			return r.Value, r.OK
		}},
		{Key: SeriesBPDia, Label: "BP diastolic", Color: "#c026d3", Value: func(e WeekEntry) (float64, bool) {
			r := e.BP.BloodPressure().Diastolic
			return r.Value, r.OK
		}},
		{Key: SeriesWaist, Label: "Waist", Color: "#ea580c", Value: func(e WeekEntry) (float64, bool) { return e.Waist.Value() }},
	}
}

// SeriesDefs returns DefaultSeries with the visibility flags of s.
func SeriesDefs(s *State) []SeriesDef {
	defs := DefaultSeries()
	for i := range defs {
		defs[i].Visible = s.SeriesVisible.Visible(defs[i].Key)
	}
	return defs
}

package plan

import "fmt"

// WeekCount is the length of every plan.
const WeekCount = 12

// Cell holds exactly what the user typed into one table cell. Numeric
// values are parsed on demand so partial or invalid input survives a save.
type Cell string

// Value leniently parses the cell as a number.
func (c Cell) Value() (float64, bool) {
	return ParseLenientNumber(string(c))
}

// BloodPressure parses the cell as a "systolic/diastolic" reading.
func (c Cell) BloodPressure() BloodPressure {
	return ParseBloodPressure(string(c))
}

// WeekEntry is one row of the 12-week table.
type WeekEntry struct {
	Date    Cell `json:"date"`
	Time    Cell `json:"time"`
	Goal    Cell `json:"goal"`
	Current Cell `json:"current"`
	BodyFat Cell `json:"bodyFat"`
	Muscle  Cell `json:"muscle"` // lb or %, the user decides
	Water   Cell `json:"water"`
	BP      Cell `json:"bp"`
	Waist   Cell `json:"waist"`
}

// Field names one editable WeekEntry column, using its JSON key.
type Field string

const (
	FieldDate    Field = "date"
	FieldTime    Field = "time"
	FieldGoal    Field = "goal"
	FieldCurrent Field = "current"
	FieldBodyFat Field = "bodyFat"
	FieldMuscle  Field = "muscle"
	FieldWater   Field = "water"
	FieldBP      Field = "bp"
	FieldWaist   Field = "waist"
)

// Fields lists the editable columns in table order.
var Fields = []Field{
	FieldDate, FieldTime, FieldGoal, FieldCurrent, FieldBodyFat,
	FieldMuscle, FieldWater, FieldBP, FieldWaist,
}

// cell returns a pointer to the column f of e, or nil for an unknown field.
func (e *WeekEntry) cell(f Field) *Cell {
	switch f {
	case FieldDate:
		return &e.Date
	case FieldTime:
		return &e.Time
	case FieldGoal:
		return &e.Goal
	case FieldCurrent:
		return &e.Current
	case FieldBodyFat:
		return &e.BodyFat
	case FieldMuscle:
		return &e.Muscle
	case FieldWater:
		return &e.Water
	case FieldBP:
		return &e.BP
	case FieldWaist:
		return &e.Waist
	}
	return nil
}

// Get returns the raw value of column f.
func (e WeekEntry) Get(f Field) (Cell, error) {
	c := e.cell(f)
	if c == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return *c, nil
}

// Set stores raw into column f.
func (e *WeekEntry) Set(f Field, raw string) error {
	c := e.cell(f)
	if c == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	*c = Cell(raw)
	return nil
}

// UnitMode selects which TDEE inputs are required.
type UnitMode string

const (
	UnitsUS     UnitMode = "us"
	UnitsMetric UnitMode = "metric"
)

// ParseUnitMode coerces anything but "metric" to UnitsUS.
func ParseUnitMode(s string) UnitMode {
	if s == string(UnitsMetric) {
		return UnitsMetric
	}
	return UnitsUS
}

// Sex is the biological sex term used by Mifflin-St Jeor.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ParseSex coerces anything but "female" to Male.
func ParseSex(s string) Sex {
	if s == string(Female) {
		return Female
	}
	return Male
}

const (
	DefaultActivity = 1.2
	DefaultLossRate = 2.0
)

// TDEEInputs holds the biometrics last used for the calorie calculation.
// Pointer fields are nil when the user has never supplied them.
type TDEEInputs struct {
	Sex      Sex      `json:"sex"`
	Age      *int     `json:"age"`
	HeightFt *float64 `json:"heightFt"`
	HeightIn *float64 `json:"heightIn"`
	HeightCm *float64 `json:"heightCm"`
	WeightLb *float64 `json:"weightLb"`
	WeightKg *float64 `json:"weightKg"`
	Activity float64  `json:"activity"`
	LossRate float64  `json:"lossRate"` // lb/week
}

// DefaultTDEEInputs returns the inputs of a fresh state.
func DefaultTDEEInputs() TDEEInputs {
	return TDEEInputs{Sex: Male, Activity: DefaultActivity, LossRate: DefaultLossRate}
}

// State is the whole persisted application state.
type State struct {
	StartingWeight *float64             `json:"startingWeight"`
	Rows           [WeekCount]WeekEntry `json:"rows"`
	SeriesVisible  SeriesVisibility     `json:"seriesVisible"`
	UnitMode       UnitMode             `json:"unitMode"`
	TDEEInputs     TDEEInputs           `json:"tdeeInputs"`
	TDEE           *float64             `json:"tdee"`
	TargetCalories *int                 `json:"targetCalories"`
}

// DefaultState returns the state of a first launch.
func DefaultState() *State {
	return &State{
		SeriesVisible: DefaultSeriesVisibility(),
		UnitMode:      UnitsUS,
		TDEEInputs:    DefaultTDEEInputs(),
	}
}

// GoalsLocked reports whether goal cells should be read-only in a front-end.
func (s *State) GoalsLocked() bool {
	return s.StartingWeight != nil
}

// Clone returns a deep copy of s.
func (s *State) Clone() State {
	c := *s
	c.StartingWeight = clonePtr(s.StartingWeight)
	c.TDEE = clonePtr(s.TDEE)
	c.TargetCalories = clonePtr(s.TargetCalories)
	in := &c.TDEEInputs
	in.Age = clonePtr(s.TDEEInputs.Age)
	in.HeightFt = clonePtr(s.TDEEInputs.HeightFt)
	in.HeightIn = clonePtr(s.TDEEInputs.HeightIn)
	in.HeightCm = clonePtr(s.TDEEInputs.HeightCm)
	in.WeightLb = clonePtr(s.TDEEInputs.WeightLb)
	in.WeightKg = clonePtr(s.TDEEInputs.WeightKg)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptr[T any](v T) *T { return &v }

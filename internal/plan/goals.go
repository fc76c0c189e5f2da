package plan

import (
	"strconv"
	"strings"
)

// weeklyLossLbs is the planned loss per week.
const weeklyLossLbs = 2.0

// ResolveStartingWeight picks the starting weight in this order: the
// explicit input, week 1's current weight, the TDEE weight in pounds, then
// the TDEE weight in kilograms converted to pounds. Only positive finite
// values count.
func ResolveStartingWeight(s *State, explicit string) (float64, bool) {
	if v, err := strconv.ParseFloat(strings.TrimSpace(explicit), 64); err == nil && positive(v) {
		return v, true
	}
	if v, ok := s.Rows[0].Current.Value(); ok && positive(v) {
		return v, true
	}
	if w := s.TDEEInputs.WeightLb; w != nil && positive(*w) {
		return *w, true
	}
	if w := s.TDEEInputs.WeightKg; w != nil {
		if lb := KgToLb(*w); positive(lb) {
			return lb, true
		}
	}
	return 0, false
}

// GeneratePlan sets the starting weight and fills every week's goal with
// start - 2*week. When week 1 has a date, the remaining dates follow it.
// The state is left untouched on ErrInvalidStartingWeight.
func GeneratePlan(s *State, explicit string) error {
	w, ok := ResolveStartingWeight(s, explicit)
	if !ok {
		return ErrInvalidStartingWeight
	}
	start := round1(w)
	s.StartingWeight = &start
	for i := range s.Rows {
		goal := round1(start - weeklyLossLbs*float64(i+1))
		s.Rows[i].Goal = Cell(formatNumber(goal))
	}
	PropagateWeeklyDatesFromFirst(&s.Rows)
	return nil
}

// ClearPlan empties the starting weight and all rows. Unit mode, TDEE data
// and series visibility are kept.
func ClearPlan(s *State) {
	s.StartingWeight = nil
	s.Rows = [WeekCount]WeekEntry{}
}

func positive(v float64) bool {
	return finite(v) && v > 0
}

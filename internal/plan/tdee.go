package plan

import (
	"math"
	"strings"
)

// ActivityMultipliers maps named activity levels to their TDEE multiplier.
// The TDEE input accepts either a name from this table or a raw multiplier.
var ActivityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// kcalPerLbPerDay is the daily deficit that loses about one pound a week
// (3500 kcal ≈ 1 lb of fat).
const kcalPerLbPerDay = 500

// BMRMifflinStJeor returns the basal metabolic rate in kcal/day.
func BMRMifflinStJeor(sex Sex, age, heightCm, weightKg float64) (float64, bool) {
	if !finite(age) || !finite(heightCm) || !finite(weightKg) {
		return 0, false
	}
	base := 10*weightKg + 6.25*heightCm - 5*age
	if sex == Female {
		return base - 161, true
	}
	return base + 5, true
}

// TDEEFromBMR scales the BMR by the activity multiplier.
func TDEEFromBMR(bmr, activity float64) (float64, bool) {
	if !finite(bmr) || !finite(activity) {
		return 0, false
	}
	return bmr * activity, true
}

// DailyTargetFromLoss subtracts the deficit for lossRate lb/week from tdee.
// Negative rates count as zero and the target never drops below zero. A
// target too large for an int is reported as not ok.
func DailyTargetFromLoss(tdee, lossRate float64) (int, bool) {
	if !finite(tdee) || !finite(lossRate) {
		return 0, false
	}
	deficit := kcalPerLbPerDay * math.Max(0, lossRate)
	return roundInt(math.Max(0, tdee-deficit))
}

// RawTDEEInputs are the TDEE form fields as typed.
type RawTDEEInputs struct {
	Sex      string `json:"sex"`
	Age      string `json:"age"`
	HeightFt string `json:"height_ft"`
	HeightIn string `json:"height_in"`
	HeightCm string `json:"height_cm"`
	WeightLb string `json:"weight_lb"`
	WeightKg string `json:"weight_kg"`
	Activity string `json:"activity"`
	LossRate string `json:"loss_rate"`
}

// parseActivity accepts a named level or a numeric multiplier.
func parseActivity(raw string) (float64, bool) {
	if m, ok := ActivityMultipliers[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return m, true
	}
	return ParseLenientNumber(raw)
}

// CalculateAndStoreTDEE validates in against the state's unit mode, computes
// BMR, TDEE and the daily target, and stores inputs and results on s.
// On error s is left untouched.
func CalculateAndStoreTDEE(s *State, in RawTDEEInputs) error {
	var missing []string
	age, ok := ParseLenientNumber(in.Age)
	if !ok {
		missing = append(missing, "age")
	}

	var heightCm, weightKg float64
	next := s.TDEEInputs
	next.Sex = ParseSex(strings.ToLower(strings.TrimSpace(in.Sex)))

	if s.UnitMode == UnitsMetric {
		cm, okH := ParseLenientNumber(in.HeightCm)
		kg, okW := ParseLenientNumber(in.WeightKg)
		if !okH {
			missing = append(missing, "height (cm)")
		}
		if !okW {
			missing = append(missing, "weight (kg)")
		}
		if len(missing) > 0 {
			return &MissingFieldsError{Fields: missing}
		}
		heightCm, weightKg = cm, kg
		ft, inch := CmToFtIn(cm)
		next.HeightCm, next.WeightKg = ptr(cm), ptr(kg)
		next.HeightFt, next.HeightIn = ptr(ft), ptr(inch)
		next.WeightLb = ptr(round1(KgToLb(kg)))
	} else {
		ft, okH := ParseLenientNumber(in.HeightFt)
		lb, okW := ParseLenientNumber(in.WeightLb)
		if !okH {
			missing = append(missing, "height (ft)")
		}
		if !okW {
			missing = append(missing, "weight (lb)")
		}
		if len(missing) > 0 {
			return &MissingFieldsError{Fields: missing}
		}
		inch, ok := ParseLenientNumber(in.HeightIn)
		if !ok {
			inch = 0
		}
		heightCm, weightKg = FtInToCm(ft, inch), LbToKg(lb)
		next.HeightFt, next.HeightIn, next.WeightLb = ptr(ft), ptr(inch), ptr(lb)
		next.HeightCm = ptr(round1(heightCm))
		next.WeightKg = ptr(round1(weightKg))
	}

	activity, ok := parseActivity(in.Activity)
	if !ok {
		activity = DefaultActivity
	}
	lossRate, ok := ParseLenientNumber(in.LossRate)
	if !ok {
		lossRate = DefaultLossRate
	}

	bmr, ok := BMRMifflinStJeor(next.Sex, age, heightCm, weightKg)
	if !ok {
		return ErrInvalidComputation
	}
	tdee, ok := TDEEFromBMR(bmr, activity)
	if !ok {
		return ErrInvalidComputation
	}
	target, ok := DailyTargetFromLoss(tdee, lossRate)
	if !ok {
		return ErrInvalidComputation
	}
	ageYears, ok := roundInt(age)
	if !ok {
		return ErrInvalidComputation
	}

	next.Age = ptr(ageYears)
	next.Activity = activity
	next.LossRate = lossRate
	s.TDEEInputs = next
	s.TDEE = &tdee
	s.TargetCalories = &target
	return nil
}

package plan

import "math"

const (
	kgPerLb = 0.45359237
	cmPerIn = 2.54
)

func LbToKg(lb float64) float64 { return lb * kgPerLb }

func KgToLb(kg float64) float64 { return kg / kgPerLb }

func FtInToCm(ft, in float64) float64 { return (ft*12 + in) * cmPerIn }

// CmToFtIn floors the feet and rounds the remaining inches. A remainder
// that rounds up to 12 carries into the feet.
func CmToFtIn(cm float64) (ft, in float64) {
	total := cm / cmPerIn
	ft = math.Floor(total / 12)
	in = math.Round(total - ft*12)
	if in == 12 {
		ft++
		in = 0
	}
	return ft, in
}

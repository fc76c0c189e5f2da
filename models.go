package main

import (
	"bytes"
	"encoding/json"

	"github.com/drsaho/weekly-tracker/internal/plan"
)

// looseString accepts either a JSON string or a JSON number, so a front-end
// may post `"180"` or `180`. null decodes to "".
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

/* ─── Responses ──────────────────────────────────────────────────────── */

// planResponse is the shape of every endpoint that returns the plan.
// GoalsLocked tells the front-end to render goal cells read-only.
type planResponse struct {
	State       plan.State `json:"state"`
	GoalsLocked bool       `json:"goals_locked"`
}

func newPlanResponse(s plan.State) planResponse {
	return planResponse{State: s, GoalsLocked: s.GoalsLocked()}
}

// statsResponse is the response for GET /api/plan/stats. HasData=false means
// no week has a usable weight and the front-end shows placeholders.
type statsResponse struct {
	HasData bool        `json:"has_data"`
	Stats   *plan.Stats `json:"stats,omitempty"`
	Trend   string      `json:"trend,omitempty"`
}

// tdeeResponse is the response for GET/POST /api/tdee.
type tdeeResponse struct {
	UnitMode       plan.UnitMode   `json:"unit_mode"`
	Inputs         plan.TDEEInputs `json:"inputs"`
	TDEE           *float64        `json:"tdee"`
	TargetCalories *int            `json:"target_calories"`
}

func newTDEEResponse(s plan.State) tdeeResponse {
	return tdeeResponse{
		UnitMode:       s.UnitMode,
		Inputs:         s.TDEEInputs,
		TDEE:           s.TDEE,
		TargetCalories: s.TargetCalories,
	}
}

/* ─── Requests ───────────────────────────────────────────────────────── */

// generatePlanRequest is the body for POST /api/plan/generate. An empty
// starting weight falls back to week 1's weight, then the TDEE weight.
type generatePlanRequest struct {
	StartingWeight looseString `json:"starting_weight"`
}

// clearPlanRequest is the body for POST /api/plan/clear. Clearing is
// destructive, so the front-end must echo the user's confirmation.
type clearPlanRequest struct {
	Confirm bool `json:"confirm"`
}

// updateCellRequest is the body for PUT /api/plan/weeks/:week.
type updateCellRequest struct {
	Field string      `json:"field"`
	Value looseString `json:"value"`
}

// patchPreferencesRequest is the body for PATCH /api/plan/preferences.
// Only non-nil fields are applied.
type patchPreferencesRequest struct {
	UnitMode      *string         `json:"unit_mode"`
	SeriesVisible map[string]bool `json:"series_visible"`
}

// calculateTDEERequest is the body for POST /api/tdee. Which height and
// weight fields are required depends on the stored unit mode.
type calculateTDEERequest struct {
	Sex      string      `json:"sex"`
	Age      looseString `json:"age"`
	HeightFt looseString `json:"height_ft"`
	HeightIn looseString `json:"height_in"`
	HeightCm looseString `json:"height_cm"`
	WeightLb looseString `json:"weight_lb"`
	WeightKg looseString `json:"weight_kg"`
	Activity looseString `json:"activity"`
	LossRate looseString `json:"loss_rate"`
}

func (r calculateTDEERequest) raw() plan.RawTDEEInputs {
	return plan.RawTDEEInputs{
		Sex:      r.Sex,
		Age:      string(r.Age),
		HeightFt: string(r.HeightFt),
		HeightIn: string(r.HeightIn),
		HeightCm: string(r.HeightCm),
		WeightLb: string(r.WeightLb),
		WeightKg: string(r.WeightKg),
		Activity: string(r.Activity),
		LossRate: string(r.LossRate),
	}
}

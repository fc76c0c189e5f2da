package main

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/drsaho/weekly-tracker/internal/plan"
)

// getPlan returns the full state.
// GET /api/plan.
func (h *Handler) getPlan(c *gin.Context) {
	c.JSON(http.StatusOK, newPlanResponse(h.tracker.Snapshot()))
}

// generatePlan sets the starting weight and writes the 12 weekly goals.
// POST /api/plan/generate. Body (optional): { "starting_weight": "180" }.
// With no usable starting weight the plan is left untouched and 400 is returned.
func (h *Handler) generatePlan(c *gin.Context) {
	var body generatePlanRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.tracker.GeneratePlan(c, string(body.StartingWeight))
	if err != nil {
		h.planError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlanResponse(s))
}

// clearPlan wipes the starting weight and every week's entries.
// POST /api/plan/clear. Body: { "confirm": true }. Without the confirmation
// nothing is cleared.
func (h *Handler) clearPlan(c *gin.Context) {
	var body clearPlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !body.Confirm {
		apiError(c, http.StatusBadRequest, "clearing the plan must be confirmed")
		return
	}

	s, err := h.tracker.ClearPlan(c)
	if err != nil {
		h.planError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlanResponse(s))
}

// updateWeekCell stores one cell exactly as typed.
// PUT /api/plan/weeks/:week. Body: { "field": "current", "value": "150 lb" }.
// :week is 1-based. Values are not validated; unparsable ones are simply left
// out of stats and charts.
func (h *Handler) updateWeekCell(c *gin.Context) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "week must be a number")
		return
	}

	var body updateCellRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.tracker.UpdateCell(c, week, plan.Field(body.Field), string(body.Value))
	if err != nil {
		h.planError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlanResponse(s))
}

// patchPreferences updates the unit mode and/or series visibility.
// PATCH /api/plan/preferences. Only fields present in the body are changed,
// all in one save.
func (h *Handler) patchPreferences(c *gin.Context) {
	var body patchPreferencesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.UnitMode == nil && len(body.SeriesVisible) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}
	if body.UnitMode != nil && *body.UnitMode != string(plan.UnitsUS) && *body.UnitMode != string(plan.UnitsMetric) {
		apiError(c, http.StatusBadRequest, "unit_mode must be one of: us, metric")
		return
	}

	var mode *plan.UnitMode
	if body.UnitMode != nil {
		m := plan.UnitMode(*body.UnitMode)
		mode = &m
	}
	series := make(map[plan.SeriesKey]bool, len(body.SeriesVisible))
	for key, visible := range body.SeriesVisible {
		series[plan.SeriesKey(key)] = visible
	}
	s, err := h.tracker.SetPreferences(c, mode, series)
	if err != nil {
		h.planError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlanResponse(s))
}

// getStats returns the start/latest/total/average summary.
// GET /api/plan/stats. has_data=false when no week has a usable weight.
func (h *Handler) getStats(c *gin.Context) {
	stats, ok := h.tracker.Stats()
	if !ok {
		c.JSON(http.StatusOK, statsResponse{HasData: false})
		return
	}
	c.JSON(http.StatusOK, statsResponse{HasData: true, Stats: &stats, Trend: stats.Trend()})
}

// getWeightChart returns draw instructions for the weight chart.
// GET /api/plan/chart/weight?width=&height=&padding=. 422 with
// "not enough data" when fewer than two weeks have a weight.
func (h *Handler) getWeightChart(c *gin.Context) {
	box, ok := parseBox(c)
	if !ok {
		return
	}
	d, err := h.tracker.WeightChart(box)
	if err != nil {
		apiError(c, http.StatusUnprocessableEntity, "enter at least two weights to see the chart")
		return
	}
	c.JSON(http.StatusOK, d)
}

// getMetricsChart returns draw instructions for every visible metric.
// GET /api/plan/chart/metrics?width=&height=&padding=.
func (h *Handler) getMetricsChart(c *gin.Context) {
	box, ok := parseBox(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.tracker.MetricsChart(box))
}

// parseBox reads optional canvas geometry from the query string, writing a
// 400 and returning ok=false when it is unusable.
func parseBox(c *gin.Context) (plan.Box, bool) {
	box := plan.DefaultBox
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"width", &box.Width},
		{"height", &box.Height},
		{"padding", &box.Padding},
	} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			apiError(c, http.StatusBadRequest, "invalid "+p.name)
			return plan.Box{}, false
		}
		*p.dst = v
	}
	if box.Height <= 0 || box.Width <= 2*box.Padding {
		apiError(c, http.StatusBadRequest, "chart area must be larger than its padding")
		return plan.Box{}, false
	}
	return box, true
}

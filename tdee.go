package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getTDEE returns the last TDEE inputs and results.
// GET /api/tdee. tdee and target_calories are null until a calculation succeeds.
func (h *Handler) getTDEE(c *gin.Context) {
	c.JSON(http.StatusOK, newTDEEResponse(h.tracker.Snapshot()))
}

// calculateTDEE computes BMR (Mifflin-St Jeor), TDEE and the daily calorie
// target, then stores inputs and results.
// POST /api/tdee. US mode requires age, height_ft and weight_lb; metric mode
// requires age, height_cm and weight_kg. height_in, activity (multiplier or
// level name) and loss_rate default to 0, 1.2 and 2.0 lb/week.
// Missing fields return 400 with a "fields" list and nothing is stored.
func (h *Handler) calculateTDEE(c *gin.Context) {
	var body calculateTDEERequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.tracker.CalculateTDEE(c, body.raw())
	if err != nil {
		h.planError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTDEEResponse(s))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/drsaho/weekly-tracker/internal/config"
	"github.com/drsaho/weekly-tracker/internal/kvstore"
	"github.com/drsaho/weekly-tracker/internal/plan"
)

// Handler holds shared dependencies (state container, logger, auth) for all route handlers.
type Handler struct {
	tracker *plan.Tracker
	log     *zap.Logger
	auth    *authenticator // nil when no password is configured
}

/* ─── Response helpers ───────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// planError maps core errors onto HTTP responses. Validation problems are
// the user's to fix (400); a failed save is ours (500).
func (h *Handler) planError(c *gin.Context, err error) {
	var missing *plan.MissingFieldsError
	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, gin.H{"error": missing.Error(), "fields": missing.Fields})
	case errors.Is(err, plan.ErrInvalidStartingWeight),
		errors.Is(err, plan.ErrInvalidComputation),
		errors.Is(err, plan.ErrUnknownField),
		errors.Is(err, plan.ErrUnknownSeries),
		errors.Is(err, plan.ErrWeekOutOfRange):
		apiError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, plan.ErrSaveFailed):
		apiError(c, http.StatusInternalServerError, "failed to save plan")
	default:
		h.log.Error("unexpected plan error", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "internal error")
	}
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// openStore opens the storage backend selected by cfg.
func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		return kvstore.NewSQLiteStore(ctx, cfg.SQLitePath)
	case config.BackendPostgres:
		return kvstore.NewPostgresStore(ctx, cfg.DBURL)
	case config.BackendFile:
		return kvstore.NewFileStore(cfg.DataDir)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// requestLogger logs one line per request with its status and latency.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// newRouter builds the gin engine with logging, recovery and all routes.
func (h *Handler) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(h.log), gin.Recovery())
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)
	return router
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes (open when no password is configured)
	api := router.Group("/api", h.authMiddleware())
	api.GET("/plan", h.getPlan)
	api.POST("/plan/generate", h.generatePlan)
	api.POST("/plan/clear", h.clearPlan)
	api.PUT("/plan/weeks/:week", h.updateWeekCell)
	api.PATCH("/plan/preferences", h.patchPreferences)
	api.GET("/plan/stats", h.getStats)
	api.GET("/plan/chart/weight", h.getWeightChart)
	api.GET("/plan/chart/metrics", h.getMetricsChart)
	api.GET("/tdee", h.getTDEE)
	api.POST("/tdee", h.calculateTDEE)
}

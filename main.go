package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/drsaho/weekly-tracker/internal/config"
	"github.com/drsaho/weekly-tracker/internal/kvstore"
	"github.com/drsaho/weekly-tracker/internal/plan"
)

// app is the top-level process object. It owns the config, logger, store
// and the single plan Tracker every command works against.
type app struct {
	verbose bool

	cfg     *config.Config
	log     *zap.Logger
	store   kvstore.Store
	tracker *plan.Tracker

	// openStore is swapped out in tests.
	openStore func(context.Context, *config.Config) (kvstore.Store, error)
	newLogger func(*config.Config, bool) (*zap.Logger, error)
}

func newApp() *app {
	return &app{
		openStore: openStore,
		newLogger: newLogger,
	}
}

// newLogger builds a production zap logger; --verbose or LOG_LEVEL=debug
// lowers the level to debug.
func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// setup loads configuration, builds the logger, opens the store and loads
// the plan.
func (a *app) setup(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.NewFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	if a.log, err = a.newLogger(cfg, a.verbose); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if a.store, err = a.openStore(ctx, cfg); err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	a.log.Debug("store ready", zap.String("backend", cfg.StoreBackend))

	a.tracker = plan.NewTracker(ctx, plan.NewRepository(a.store, a.log), a.log)
	return nil
}

func (a *app) teardown() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("close store", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// serve runs the JSON API until SIGINT/SIGTERM.
func (a *app) serve(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	h := &Handler{
		tracker: a.tracker,
		log:     a.log,
		auth:    newAuthenticator(a.cfg.AuthPasswordHash),
	}

	c := cors.New(cors.Options{
		AllowedOrigins: a.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           c.Handler(h.newRouter()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", zap.String("addr", a.cfg.ListenAddr), zap.Bool("auth", h.auth != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		os.Exit(1)
	}
}

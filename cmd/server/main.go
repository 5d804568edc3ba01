package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roomforge/roomforge/internal/config"
	"github.com/roomforge/roomforge/internal/editor"
)

func main() {
	configPath := flag.String("config", "roomforge.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})

	state, err := loadInitialState(cfg, logger)
	if err != nil {
		logger.Error("load scene", "err", err)
		os.Exit(1)
	}

	srv := newServer(state, cfg, logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", srv.handleHealthz)
	r.Get("/snapshot", srv.handleSnapshot)
	r.Get("/stream", srv.handleStream)

	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)

	if cfg.ScenePath != "" {
		if err := editor.SaveSceneFile(cfg.ScenePath, srv.currentState()); err != nil {
			logger.Error("save scene", "err", err)
		} else {
			logger.Info("scene saved", "path", cfg.ScenePath)
		}
	}
}

// loadInitialState prefers the configured scene file and falls back to the
// built-in dev layout when none is configured or the file does not exist
// yet. The dev layout is written back to the configured path on shutdown.
func loadInitialState(cfg config.Config, logger *log.Logger) (editor.State, error) {
	if cfg.ScenePath == "" {
		logger.Info("no scene configured, using dev layout")
		return editor.DevScene(), nil
	}
	st, err := editor.LoadSceneFile(cfg.ScenePath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("scene file absent, using dev layout", "path", cfg.ScenePath)
		return editor.DevScene(), nil
	}
	if err != nil {
		return editor.State{}, err
	}
	logger.Info("scene loaded", "path", cfg.ScenePath, "rooms", len(st.Rooms))
	return st, nil
}

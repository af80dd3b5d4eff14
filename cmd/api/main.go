package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-tracker/internal/auth"
	"github.com/justsurfingit/job-tracker/internal/config"
	"github.com/justsurfingit/job-tracker/internal/database"
	"github.com/justsurfingit/job-tracker/internal/handlers"
	"github.com/justsurfingit/job-tracker/internal/logging"
	"github.com/justsurfingit/job-tracker/internal/services"
)

func main() {
	if err := run(); err != nil {
		logging.New(os.Stderr, "error", "json").Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration (.env is optional)
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat).With("env", cfg.Env)
	ctx := context.Background()

	// 2. Database connection
	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			log.Error(closeCtx, "failed to close database", "error", err)
		}
		log.Info(closeCtx, "database connection closed")
	}()

	// 3. Core services
	llmService, err := services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		return err
	}
	jobService := services.NewJobService(db.Jobs(), log)
	goalService := services.NewGoalService(db.Goals(), log)
	scheduleService := services.NewScheduleService(db.Schedules(), log)

	// 4. Auth gate
	var verifier auth.Verifier
	if cfg.AuthPublicKey != "" {
		v, err := auth.NewJWTVerifier(cfg.AuthPublicKey, cfg.AuthIssuer, cfg.AuthAuthorizedParties)
		if err != nil {
			return err
		}
		verifier = v
	}
	if cfg.IsDevelopment() {
		log.Warn(ctx, "development auth bypass enabled", "header", auth.DevUserIDHdr)
	}

	// 5. Router
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		Jobs:      handlers.NewJobHandler(llmService, jobService, log),
		Goals:     handlers.NewGoalHandler(goalService, log),
		Schedules: handlers.NewScheduleHandler(scheduleService, log),
		Store:     db,
		Auth: auth.Middleware(auth.MiddlewareOptions{
			Verifier:  verifier,
			DevBypass: cfg.IsDevelopment(),
			Log:       log,
		}),
		Env:     cfg.Env,
		Origins: cfg.CORSOrigins,
		Log:     log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting", "addr", srv.Addr, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		log.Info(ctx, "shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info(shutdownCtx, "server exited")
	return nil
}

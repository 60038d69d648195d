package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "net/http/pprof"

	"github.com/sehatnxt/prescriptions-api/config"
	"github.com/sehatnxt/prescriptions-api/data"
	"github.com/sehatnxt/prescriptions-api/drafts"
	"github.com/sehatnxt/prescriptions-api/handlers"
	"github.com/sehatnxt/prescriptions-api/health"
	"github.com/sehatnxt/prescriptions-api/logging"
	"github.com/sehatnxt/prescriptions-api/refdata"
	"github.com/sehatnxt/prescriptions-api/scheduler"
	"github.com/sehatnxt/prescriptions-api/server"
	"github.com/sehatnxt/prescriptions-api/validation"
)

func main() {
	// The env file is optional, real deployments set the variables directly
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs")

	container := data.NewContainer(cfg.StrictInteractions)
	container.SetServerStartTime(time.Now())
	draftStore := drafts.NewStore()

	reloadInterval := time.Duration(cfg.ReloadMinutes) * time.Minute
	draftTTL := time.Duration(cfg.DraftTTLMinutes) * time.Minute

	sched := scheduler.NewScheduler(container, refdata.DirLoader{Dir: cfg.DataDir}, draftStore, reloadInterval, draftTTL)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	validator := validation.NewValidator()
	healthChecker := health.NewHealthChecker(container, draftStore, reloadInterval)

	handler := handlers.NewHandler(handlers.Options{
		DataStore:      container,
		Drafts:         draftStore,
		DraftValidator: validator,
		InputValidator: validator,
		HealthChecker:  healthChecker,
		Clinic:         cfg.Clinic,
		SuggestLimit:   cfg.SuggestLimit,
		PrintDelay:     time.Duration(cfg.PrintDelayMs) * time.Millisecond,
	})

	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/weather-dashboard/internal/client"
	"github.com/kjstillabower/weather-dashboard/internal/config"
	"github.com/kjstillabower/weather-dashboard/internal/history"
	httphandler "github.com/kjstillabower/weather-dashboard/internal/http"
	"github.com/kjstillabower/weather-dashboard/internal/observability"
	"github.com/kjstillabower/weather-dashboard/internal/service"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	weatherClient, err := client.NewWeatherAPIClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout)
	if err != nil {
		logger.Fatal("weather client", zap.Error(err))
	}
	if cfg.ValidateKeyOnStart {
		vctx, vcancel := context.WithTimeout(context.Background(), cfg.WeatherAPITimeout)
		if err := weatherClient.ValidateAPIKey(vctx); err != nil {
			logger.Warn("weather API key check failed", zap.Error(err))
		}
		vcancel()
	}

	openCtx, openCancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	backend, err := history.OpenBackend(openCtx, cfg.HistoryOptions())
	openCancel()
	if err != nil {
		logger.Fatal("history backend", zap.Error(err))
	}
	logger.Info("history backend", zap.String("backend", backend.Name()))

	store := history.NewStore(backend, cfg.HistoryKey, logger)
	store.Load(context.Background())
	orchestrator := service.NewOrchestrator(weatherClient, store, cfg.LocationMaxLength, logger)

	healthConfig := &httphandler.HealthConfig{
		StartTime:      time.Now(),
		HistoryBackend: backend.Name(),
	}
	if p, ok := backend.(history.Pinger); ok {
		healthConfig.HistoryPing = func(context.Context) error { return p.Ping() }
	}
	handler := httphandler.NewHandler(orchestrator, weatherClient, healthConfig, logger)

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	inFlight := &httphandler.InFlightTracker{}
	router := httphandler.NewRouter(handler, httphandler.RouterConfig{
		Logger:         logger,
		Limiter:        limiter,
		RequestTimeout: cfg.RequestTimeout,
		InFlight:       inFlight,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	handler.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight.Count()))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := inFlight.WaitForZero(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", inFlight.Count()))
	}

	closers := map[string]io.Closer{}
	if c, ok := backend.(io.Closer); ok {
		closers["history:"+backend.Name()] = c
	}
	logger.Info("shutdown complete")
	if err := observability.FlushTelemetry(logger, closers); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry flush: %v\n", err)
	}
}

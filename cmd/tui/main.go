package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-dashboard/internal/client"
	"github.com/kjstillabower/weather-dashboard/internal/config"
	"github.com/kjstillabower/weather-dashboard/internal/history"
	"github.com/kjstillabower/weather-dashboard/internal/observability"
	"github.com/kjstillabower/weather-dashboard/internal/service"
	"github.com/kjstillabower/weather-dashboard/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "weather-tui: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logger, err := observability.NewLoggerTo(cfg.TUILogFile, "tui")
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	weatherClient, err := client.NewWeatherAPIClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout)
	if err != nil {
		return fmt.Errorf("weather client: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := history.OpenBackend(ctx, cfg.HistoryOptions())
	if err != nil {
		return fmt.Errorf("history backend: %w", err)
	}
	closers := map[string]io.Closer{}
	if c, ok := backend.(io.Closer); ok {
		closers["history:"+backend.Name()] = c
	}
	defer func() { _ = observability.FlushTelemetry(logger, closers) }()

	store := history.NewStore(backend, cfg.HistoryKey, logger)
	store.Load(ctx)
	orchestrator := service.NewOrchestrator(weatherClient, store, cfg.LocationMaxLength, logger)

	bridge := tui.NewBridge()
	store.Subscribe(func(entries []string) {
		bridge.Send(tui.HistoryMsg{Entries: entries})
	})

	model := tui.NewModel(tui.Options{
		Fetcher:      orchestrator,
		Bridge:       bridge,
		Context:      ctx,
		DiscardStale: cfg.DiscardStaleResponses,
		History:      store.Entries(),
		MaxLength:    cfg.LocationMaxLength,
		Logger:       logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p.Send)

	logger.Info("tui starting", zap.String("history_backend", backend.Name()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	logger.Info("tui exited")
	return nil
}

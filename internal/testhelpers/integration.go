//go:build integration
// +build integration

package testhelpers

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kjstillabower/weather-dashboard/internal/client"
	"github.com/kjstillabower/weather-dashboard/internal/history"
	"github.com/kjstillabower/weather-dashboard/internal/service"
)

// IntegrationTestConfig holds configuration for integration tests.
type IntegrationTestConfig struct {
	APIKey         string
	APIURL         string
	HistoryBackend string // any history.backend value; defaults to "sqlite" in a temp dir
	MemcachedAddrs string
	RedisAddr      string
}

// GetIntegrationConfig loads integration test configuration from environment.
// Skips test if WEATHER_API_KEY is not set.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	t.Helper()
	apiKey := os.Getenv("WEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("WEATHER_API_KEY not set, skipping integration test")
	}

	apiURL := os.Getenv("WEATHER_API_URL")
	if apiURL == "" {
		apiURL = client.DefaultAPIURL
	}

	backend := os.Getenv("INTEGRATION_HISTORY_BACKEND")
	if backend == "" {
		backend = "sqlite"
	}
	memcachedAddrs := os.Getenv("MEMCACHED_ADDRS")
	if memcachedAddrs == "" {
		memcachedAddrs = "localhost:11211"
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	return IntegrationTestConfig{
		APIKey:         apiKey,
		APIURL:         apiURL,
		HistoryBackend: backend,
		MemcachedAddrs: memcachedAddrs,
		RedisAddr:      redisAddr,
	}
}

// SetupIntegrationOrchestrator builds an orchestrator against the live provider with a
// fresh history. The history key is unique per test so shared backends do not collide.
func SetupIntegrationOrchestrator(t *testing.T, cfg IntegrationTestConfig) (*service.Orchestrator, client.WeatherClient) {
	t.Helper()
	weatherClient := SetupIntegrationClient(t, cfg)

	dir := t.TempDir()
	backend, err := history.OpenBackend(context.Background(), history.Options{
		Backend:               cfg.HistoryBackend,
		FilePath:              filepath.Join(dir, "storage.json"),
		SQLitePath:            filepath.Join(dir, "history.db"),
		MemcachedAddrs:        cfg.MemcachedAddrs,
		MemcachedTimeout:      500 * time.Millisecond,
		MemcachedMaxIdleConns: 2,
		RedisAddr:             cfg.RedisAddr,
	})
	if err != nil {
		t.Skipf("history backend %s unavailable: %v", cfg.HistoryBackend, err)
	}
	if c, ok := backend.(io.Closer); ok {
		t.Cleanup(func() { _ = c.Close() })
	}

	store := history.NewStore(backend, "it:"+t.Name(), nil)
	store.Load(context.Background())
	return service.NewOrchestrator(weatherClient, store, 100, nil), weatherClient
}

// SetupIntegrationClient creates a weather client for integration tests.
func SetupIntegrationClient(t *testing.T, cfg IntegrationTestConfig) client.WeatherClient {
	t.Helper()
	c, err := client.NewWeatherAPIClient(cfg.APIKey, cfg.APIURL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewWeatherAPIClient() error = %v", err)
	}
	return c
}

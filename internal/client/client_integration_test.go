//go:build integration
// +build integration

package client

import (
	"context"
	"os"
	"testing"
	"time"
)

func integrationClient(t *testing.T) *WeatherAPIClient {
	t.Helper()
	apiKey := os.Getenv("WEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("WEATHER_API_KEY not set, skipping integration test")
	}
	url := os.Getenv("WEATHER_API_URL")
	client, err := NewWeatherAPIClient(apiKey, url, 5*time.Second)
	if err != nil {
		t.Fatalf("NewWeatherAPIClient() error = %v", err)
	}
	return client
}

func TestWeatherAPIClient_ValidateAPIKey_Integration(t *testing.T) {
	client := integrationClient(t)
	if err := client.ValidateAPIKey(context.Background()); err != nil {
		t.Errorf("ValidateAPIKey() error = %v, want nil", err)
	}
}

func TestWeatherAPIClient_GetCurrent_Integration(t *testing.T) {
	client := integrationClient(t)

	got, err := client.GetCurrent(context.Background(), "London")
	if err != nil {
		t.Fatalf("GetCurrent() error = %v", err)
	}
	if got.Body.Failed() {
		t.Fatalf("provider error: %+v", got.Body.Error)
	}
	if got.Body.Location.Name == "" || got.Body.Location.LocalTime == "" {
		t.Errorf("GetCurrent() returned incomplete location: %+v", got.Body.Location)
	}
}

func TestWeatherAPIClient_GetCurrent_UnknownCity_Integration(t *testing.T) {
	client := integrationClient(t)

	got, err := client.GetCurrent(context.Background(), "zzqqxxnotacity")
	if err != nil {
		t.Fatalf("GetCurrent() error = %v", err)
	}
	if !got.Body.Failed() {
		t.Error("expected provider error for unknown city")
	}
}

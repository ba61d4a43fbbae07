package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testAPIKey = "test-api-key-12345"

func tokyoPayload() map[string]interface{} {
	return map[string]interface{}{
		"location": map[string]interface{}{
			"name":      "Tokyo",
			"country":   "Japan",
			"localtime": "2024-12-16 11:30",
		},
		"current": map[string]interface{}{
			"temp_c":      20.0,
			"condition":   map[string]interface{}{"text": "Sunny"},
			"humidity":    55,
			"wind_kph":    11.2,
			"pressure_mb": 1012.0,
		},
	}
}

func TestNewWeatherAPIClient_InvalidAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		wantErr error
	}{
		{"empty API key", "", ErrInvalidAPIKey},
		{"too short API key", "short", ErrInvalidAPIKey},
		{"valid API key", "valid-api-key-12345", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewWeatherAPIClient(tt.apiKey, "https://api.test.com", 2*time.Second)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewWeatherAPIClient() error = %v, want %v", err, tt.wantErr)
				}
				if client != nil {
					t.Errorf("NewWeatherAPIClient() expected nil client on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewWeatherAPIClient() unexpected error: %v", err)
			}
			if client == nil {
				t.Fatal("NewWeatherAPIClient() expected client, got nil")
			}
		})
	}
}

func TestNewWeatherAPIClient_DefaultURL(t *testing.T) {
	client, err := NewWeatherAPIClient(testAPIKey, "", time.Second)
	if err != nil {
		t.Fatalf("NewWeatherAPIClient() error = %v", err)
	}
	if client.apiURL != DefaultAPIURL {
		t.Errorf("apiURL = %q, want %q", client.apiURL, DefaultAPIURL)
	}
}

func TestWeatherAPIClient_GetCurrent_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		q := r.URL.Query()
		if q.Get("q") != "Tokyo" {
			t.Errorf("q = %q, want Tokyo", q.Get("q"))
		}
		if q.Get("key") != testAPIKey {
			t.Errorf("key = %q, want test key", q.Get("key"))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokyoPayload())
	}))
	defer server.Close()

	client, err := NewWeatherAPIClient(testAPIKey, server.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("NewWeatherAPIClient() error = %v", err)
	}

	got, err := client.GetCurrent(context.Background(), "Tokyo")
	if err != nil {
		t.Fatalf("GetCurrent() error = %v", err)
	}
	if got.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", got.StatusCode)
	}
	if got.Body.Failed() {
		t.Error("Body.Failed() = true, want false")
	}
	loc, cur := got.Body.Location, got.Body.Current
	if loc.Name != "Tokyo" || loc.Country != "Japan" || loc.LocalTime != "2024-12-16 11:30" {
		t.Errorf("Location = %+v", loc)
	}
	if cur.TempC != 20 || cur.Condition.Text != "Sunny" || cur.Humidity != 55 || cur.WindKPH != 11.2 || cur.PressureMB != 1012 {
		t.Errorf("Current = %+v", cur)
	}
}

// TestWeatherAPIClient_GetCurrent_EscapesQuery verifies names with reserved characters
// reach the provider intact.
func TestWeatherAPIClient_GetCurrent_EscapesQuery(t *testing.T) {
	var gotQ string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		_ = json.NewEncoder(w).Encode(tokyoPayload())
	}))
	defer server.Close()

	client, _ := NewWeatherAPIClient(testAPIKey, server.URL, 2*time.Second)
	if _, err := client.GetCurrent(context.Background(), "Saint-Pierre & Miquelon"); err != nil {
		t.Fatalf("GetCurrent() error = %v", err)
	}
	if gotQ != "Saint-Pierre & Miquelon" {
		t.Errorf("q = %q, want original name", gotQ)
	}
}

// TestWeatherAPIClient_GetCurrent_ProviderErrors verifies provider-reported failures
// come back as responses, not transport errors.
func TestWeatherAPIClient_GetCurrent_ProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"no matching location", http.StatusBadRequest, `{"error":{"code":1006,"message":"No matching location found."}}`},
		{"invalid key", http.StatusUnauthorized, `{"error":{"code":2006,"message":"API key is invalid."}}`},
		{"error with 200", http.StatusOK, `{"error":{"code":1003,"message":"Parameter q is missing."}}`},
		{"500 with provider error", http.StatusInternalServerError, `{"error":{"code":9999,"message":"Internal application error."}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, _ := NewWeatherAPIClient(testAPIKey, server.URL, 2*time.Second)
			got, err := client.GetCurrent(context.Background(), "Nowhere")
			if err != nil {
				t.Fatalf("GetCurrent() error = %v, want nil", err)
			}
			if got.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", got.StatusCode, tt.status)
			}
			if !got.Body.Failed() {
				t.Error("Body.Failed() = false, want true")
			}
		})
	}
}

func TestWeatherAPIClient_GetCurrent_TransportErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"invalid json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>oops</html>"))
		}},
		{"empty body", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"503 without provider error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{}`))
		}},
		{"200 empty object", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}},
		{"200 null", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`null`))
		}},
		{"200 without current", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"location":{"name":"Tokyo","country":"Japan","localtime":"2024-12-16 11:30"}}`))
		}},
		{"200 with null location", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"location":null,"current":{"temp_c":20}}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client, _ := NewWeatherAPIClient(testAPIKey, server.URL, 2*time.Second)
			_, err := client.GetCurrent(context.Background(), "Tokyo")
			if !errors.Is(err, ErrTransport) {
				t.Errorf("GetCurrent() error = %v, want ErrTransport", err)
			}
			if cat := CategorizeError(err); cat != ErrorCategoryParsing && cat != ErrorCategoryUpstream5xx {
				t.Errorf("CategorizeError() = %v, want parsing or upstream_5xx", cat)
			}
		})
	}
}

func TestWeatherAPIClient_GetCurrent_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, _ := NewWeatherAPIClient(testAPIKey, url, time.Second)
	_, err := client.GetCurrent(context.Background(), "Tokyo")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("GetCurrent() error = %v, want ErrTransport", err)
	}
	if CategorizeError(err) != ErrorCategoryNetwork {
		t.Errorf("CategorizeError() = %v, want network", CategorizeError(err))
	}
}

func TestWeatherAPIClient_GetCurrent_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	client, _ := NewWeatherAPIClient(testAPIKey, server.URL, 2*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetCurrent(ctx, "Tokyo")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GetCurrent() error = %v, want context.Canceled", err)
	}
	if !errors.Is(err, ErrTransport) {
		t.Errorf("GetCurrent() error = %v, want ErrTransport", err)
	}
}

func TestWeatherAPIClient_GetCurrent_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, _ := NewWeatherAPIClient(testAPIKey, server.URL, 50*time.Millisecond)
	_, err := client.GetCurrent(context.Background(), "Tokyo")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("GetCurrent() error = %v, want ErrTransport", err)
	}
	if CategorizeError(err) != ErrorCategoryTimeout {
		t.Errorf("CategorizeError() = %v, want timeout", CategorizeError(err))
	}
}

func TestWeatherAPIClient_GetCurrent_CorrelationID(t *testing.T) {
	var captured string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Get("X-Correlation-ID")
		_ = json.NewEncoder(w).Encode(tokyoPayload())
	}))
	defer server.Close()

	client, _ := NewWeatherAPIClient(testAPIKey, server.URL, 2*time.Second)
	ctx := WithCorrelationID(context.Background(), "corr-123")
	if _, err := client.GetCurrent(ctx, "Tokyo"); err != nil {
		t.Fatalf("GetCurrent() error = %v", err)
	}
	if captured != "corr-123" {
		t.Errorf("X-Correlation-ID = %q, want corr-123", captured)
	}
}

func TestWeatherAPIClient_ValidateAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
		wantAny bool
	}{
		{"ok", http.StatusOK, nil, false},
		{"unauthorized", http.StatusUnauthorized, ErrInvalidAPIKey, true},
		{"forbidden", http.StatusForbidden, ErrInvalidAPIKey, true},
		{"server error", http.StatusInternalServerError, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client, _ := NewWeatherAPIClient(testAPIKey, server.URL, 2*time.Second)
			err := client.ValidateAPIKey(context.Background())
			if !tt.wantAny {
				if err != nil {
					t.Errorf("ValidateAPIKey() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateAPIKey() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAPIKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "success"},
		{400, "client_error"},
		{429, "rate_limited"},
		{503, "server_error"},
		{101, "error"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.code); got != tt.want {
			t.Errorf("statusLabel(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

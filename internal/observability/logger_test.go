package observability

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		env  string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"info", zapcore.InfoLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"  warn  ", zapcore.WarnLevel},
		{"Error", zapcore.ErrorLevel},
		{"fatal", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.env); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.env, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("server logger ready")
	_ = logger.Sync() // stderr sync can fail under go test
}

// TestNewLoggerTo_File checks the file output the terminal widget relies on.
func TestNewLoggerTo_File(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	path := filepath.Join(t.TempDir(), "tui.log")
	logger, err := NewLoggerTo(path, "tui")
	if err != nil {
		t.Fatalf("NewLoggerTo() error = %v", err)
	}
	logger.Debug("lookup", zap.String("city", "Lisbon"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, data)
	}
	for key, want := range map[string]string{
		"city":      "Lisbon",
		"component": "tui",
		"service":   "weather-dashboard",
		"level":     "debug",
	} {
		if entry[key] != want {
			t.Errorf("%s = %v, want %s", key, entry[key], want)
		}
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("log line has no timestamp")
	}
}

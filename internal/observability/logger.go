package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the JSON logger for the dashboard server, writing to stderr.
func NewLogger() (*zap.Logger, error) {
	return NewLoggerTo("stderr", "server")
}

// NewLoggerTo builds a JSON logger writing to output ("stderr", "stdout" or a file path)
// with every entry tagged by component. The terminal widget passes a file so log lines
// never land on the screen it draws.
func NewLoggerTo(output, component string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(parseLogLevel(os.Getenv("LOG_LEVEL")))
	if output != "" {
		config.OutputPaths = []string{output}
		config.ErrorOutputPaths = []string{output}
	}
	config.InitialFields = map[string]interface{}{"service": "weather-dashboard"}
	if component != "" {
		config.InitialFields["component"] = component
	}
	return config.Build()
}

// parseLogLevel accepts zap level names in any case; anything else means info.
func parseLogLevel(s string) zapcore.Level {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return level
}

package monitoring

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger provides structured logging with domain-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON logger at the given level ("debug", "info",
// "warn", "error").
func NewLogger(level string) *Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return &Logger{Logger: slog.New(handler)}
}

// RequestLogger logs HTTP request details.
func (l *Logger) RequestLogger(method, path, ip, requestID string, statusCode int, duration time.Duration) {
	l.Info("http request",
		"method", method,
		"path", path,
		"ip", ip,
		"request_id", requestID,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// AnalysisLogger logs the outcome of one profile analysis.
func (l *Logger) AnalysisLogger(username string, total float64, verdict string, duration time.Duration, cacheHit bool) {
	l.Info("analysis completed",
		"username", username,
		"total_score", total,
		"verdict", verdict,
		"duration_ms", duration.Milliseconds(),
		"cache_hit", cacheHit,
	)
}

// ExternalAPILogger logs calls to external services.
func (l *Logger) ExternalAPILogger(apiName, operation string, duration time.Duration, err error) {
	if err != nil {
		l.Warn("external api call failed",
			"api", apiName,
			"operation", operation,
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	l.Debug("external api call",
		"api", apiName,
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	)
}

package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/csveda/internal/config"
)

// New creates a production-ready structured logger configured for JSON output at
// the level named by the logging policy. debug forces the debug level.
func New(policy config.LoggingSettings, debug bool) (*zap.Logger, error) {
	level, err := Level(policy.Level)
	if err != nil {
		return nil, err
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.DisableStacktrace = false

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// Level maps an application log level name to its zap level.
// WARNING maps to warn and CRITICAL to dpanic, which production loggers do not panic on.
func Level(name config.LogLevel) (zapcore.Level, error) {
	switch name {
	case config.LogLevelDebug:
		return zapcore.DebugLevel, nil
	case config.LogLevelInfo:
		return zapcore.InfoLevel, nil
	case config.LogLevelWarning:
		return zapcore.WarnLevel, nil
	case config.LogLevelError:
		return zapcore.ErrorLevel, nil
	case config.LogLevelCritical:
		return zapcore.DPanicLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
}

// ConfigFields summarises a resolved configuration for a startup log line.
// Secrets are reported only as present or absent.
func ConfigFields(cfg *config.Config) []zap.Field {
	return []zap.Field{
		zap.String("app", cfg.Name),
		zap.String("version", cfg.Version),
		zap.String("environment", string(cfg.Environment)),
		zap.Bool("debug", cfg.Debug),
		zap.String("log_level", string(cfg.Logging.Level)),
		zap.Object("google_api_key", cfg.GoogleAPIKey),
		zap.Object("openai_api_key", cfg.OpenAIAPIKey),
	}
}

package config

import (
	"log/slog"

	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/normalization"
)

// LogLevel is the verbosity of diagnostic output on stderr.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// NormalizeLogLevel maps free-form input to a LogLevel; unknown values fall back to info.
func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.Normalize(raw)
}

// ParseLogLevel is like NormalizeLogLevel but rejects unknown values.
func ParseLogLevel(raw string) (LogLevel, error) {
	lvl, err := logLevelNormalizer.NormalizeWithError(raw)
	if err != nil {
		return "", errors.ValidationError("invalid log level: " + raw).WithCause(err).Build()
	}
	return lvl, nil
}

// SlogLevel converts the level for use with a slog handler.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

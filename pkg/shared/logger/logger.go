package logger

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/review-io-git/review-io/pkg/shared/config"
)

// NewLogger creates a named hclog logger for the core application.
// The level comes from the config, then the REVIEWIO_LOG_LEVEL environment
// variable, and defaults to INFO.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	level := ""
	if cfg != nil {
		level = cfg.Logger.Level
	}
	if level == "" {
		level = os.Getenv("REVIEWIO_LOG_LEVEL")
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      os.Stdout,
		Level:       getLogLevel(level),
	})
}

// NewPluginLogger creates a JSON logger writing to stderr, as required by
// the go-plugin handshake protocol for plugin binaries.
func NewPluginLogger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      getLogLevel(os.Getenv("REVIEWIO_LOG_LEVEL")),
		Output:     os.Stderr,
		JSONFormat: true,
	})
}

// GetLoggerOutput returns a writer that forwards subprocess output to the
// logger at debug level.
func GetLoggerOutput(logger hclog.Logger) io.Writer {
	return logger.StandardWriter(&hclog.StandardLoggerOptions{
		InferLevels: true,
		ForceLevel:  hclog.Debug,
	})
}

func getLogLevel(level string) hclog.Level {
	switch level {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}

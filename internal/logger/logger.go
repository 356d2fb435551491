package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the application logger instance
var Logger zerolog.Logger

// Init initializes the logger with the given level and output format
func Init(level, format string) {
	zerolog.SetGlobalLevel(parseLogLevel(level))

	if strings.ToLower(format) == "json" {
		// Recent entries are mirrored into the in-memory buffer for the
		// admin logs endpoint
		writer := zerolog.MultiLevelWriter(os.Stdout, buffer)
		Logger = zerolog.New(writer).With().
			Timestamp().
			Caller().
			Logger()
	} else {
		// Console format with colors for local development
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		Logger = zerolog.New(output).With().
			Timestamp().
			Logger()
	}

	// Set the global logger
	log.Logger = Logger
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// GetLogger returns the configured logger instance
func GetLogger() zerolog.Logger {
	return Logger
}

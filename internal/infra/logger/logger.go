package logger

import (
	"os"
	"strings"

	"trashminder/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Components receive it through their
// constructors rather than reaching for the global directly.
var Log = logrus.New()

// Init applies the configured level and picks a formatter: JSON when the
// output is scraped by a log pipeline (production/staging), colored text
// when a human is watching the add-on console.
func Init(cfg *config.AppConfig) {
	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	switch cfg.Environment {
	case "production", "staging":
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	default:
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	Log.Debugf("Log level set to: %s", Log.GetLevel().String())
}

// Get returns the process-wide logger for wiring into components.
func Get() *logrus.Logger {
	return Log
}

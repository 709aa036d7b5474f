package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Init configures Log from APP_ENV and LOG_LEVEL.
func Init() {
	Log.SetOutput(os.Stdout)

	if strings.ToLower(os.Getenv("APP_ENV")) == "production" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	SetLevel(os.Getenv("LOG_LEVEL"))
}

// SetLevel falls back to info for unknown or empty levels.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
}

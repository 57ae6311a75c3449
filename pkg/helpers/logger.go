package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger. Development logs are text at
// debug level; every other env logs JSON at info. A valid level overrides both.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			logger.SetLevel(lvl)
		} else {
			logger.WithField("level", level).Warn("unknown log level, keeping default")
		}
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": logger.GetLevel().String()}).Info("logger initialized")
	return logger
}

// NewDiscardLogger returns a logger that drops everything; handy in tests.
func NewDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	logWith(logger, logrus.ErrorLevel, msg, err, fields)
}

func LogWarn(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	logWith(logger, logrus.WarnLevel, msg, err, fields)
}

// logWith copies fields so callers can reuse their map.
func logWith(logger *logrus.Logger, level logrus.Level, msg string, err error, fields logrus.Fields) {
	if logger == nil {
		return
	}
	entry := make(logrus.Fields, len(fields)+1)
	for k, v := range fields {
		entry[k] = v
	}
	if err != nil {
		entry[logrus.ErrorKey] = err.Error()
	}
	logger.WithFields(entry).Log(level, msg)
}

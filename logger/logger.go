package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Fields represents structured log fields
type Fields = logrus.Fields

var log = logrus.New()

func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	SetLevel(os.Getenv("LOG_LEVEL"))
}

// SetLevel accepts any logrus level name. Unknown or empty names fall back to info.
func SetLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}

// Get exposes the underlying logger, e.g. to redirect output in tests.
func Get() *logrus.Logger {
	return log
}

func Debug(msg string, fields Fields) {
	log.WithFields(fields).Debug(msg)
}

func Info(msg string, fields Fields) {
	log.WithFields(fields).Info(msg)
}

func Warn(msg string, fields Fields) {
	log.WithFields(fields).Warn(msg)
}

// Error logs err under the "error" key alongside fields.
func Error(msg string, err error, fields Fields) {
	log.WithFields(fields).WithError(err).Error(msg)
}

package service

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the task logger shared by the services. Messages go to w
// (stderr when nil); verbose enables debug output.
func NewLogger(verbose bool, w io.Writer) *logrus.Logger {
	if w == nil {
		w = os.Stderr
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       !verbose,
		FullTimestamp:          verbose,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
	level := logrus.InfoLevel
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}

// NewQuietLogger returns a logger that discards everything
func NewQuietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func orQuiet(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return NewQuietLogger()
	}
	return log
}

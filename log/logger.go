// Package log configures the process-wide logger used by all launcher
// components. The level is taken from SM_LOG_LEVEL, which carries a
// python logging number (10 debug, 20 info, 30 warning, 40 error).
package log

import (
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	l.SetLevel(levelFromEnv(os.Getenv(`SM_LOG_LEVEL`)))
	return l
}

func levelFromEnv(val string) logrus.Level {
	n, err := strconv.Atoi(val)
	if err != nil {
		return logrus.InfoLevel
	}
	switch {
	case n <= 10:
		return logrus.DebugLevel
	case n <= 20:
		return logrus.InfoLevel
	case n <= 30:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

var (
	Debugf = std.Debugf
	Infof  = std.Infof
	Warnf  = std.Warnf
	Errorf = std.Errorf
)

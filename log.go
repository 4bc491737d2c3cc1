package stomp

import "github.com/sirupsen/logrus"

// Logger is the structured logging surface the library writes through.
// It is satisfied by *logrus.Logger and *logrus.Entry; callers inject
// their own via WithLogger.
type Logger interface {
	WithField(key string, value interface{}) *logrus.Entry
	WithFields(fields logrus.Fields) *logrus.Entry
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// defaultLogger returns a logrus.Logger configured the way a library
// (as opposed to a program's main package) should: text output, info
// level, so embedding applications are not surprised by unsolicited
// debug noise unless they opt in.
func defaultLogger() Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	return l
}

package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"pagedb"
)

var _ pagedb.Logger = (*Logrus)(nil)

// Logrus adapts a logrus.Logger to pagedb.Logger. Key-value args become
// logrus fields.
type Logrus struct {
	entry *logrus.Entry
}

// NewLogrus creates a pagedb.Logger from a logrus.Logger.
func NewLogrus(logger *logrus.Logger) *Logrus {
	return &Logrus{entry: logrus.NewEntry(logger)}
}

// With returns a logger that adds the key-value pairs to every entry.
// The receiver is not modified.
func (l *Logrus) With(args ...any) *Logrus {
	return &Logrus{entry: l.entry.WithFields(argsToFields(args))}
}

func (l *Logrus) Error(msg string, args ...any) {
	l.entry.WithFields(argsToFields(args)).Error(msg)
}

func (l *Logrus) Warn(msg string, args ...any) {
	l.entry.WithFields(argsToFields(args)).Warn(msg)
}

func (l *Logrus) Info(msg string, args ...any) {
	l.entry.WithFields(argsToFields(args)).Info(msg)
}

// argsToFields pairs up slog-style key-value args. Non-string keys are
// formatted; a trailing key without a value is dropped.
func argsToFields(args []any) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields[key] = args[i+1]
	}
	return fields
}

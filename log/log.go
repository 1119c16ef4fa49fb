// Package log wraps logrus with context-aware helpers so every line carries
// the request ID of the query being processed.
package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	reqcontext "github.com/kumar-ambuj/mcp-client/context"
	"github.com/sirupsen/logrus"
)

// Logger is the global logger instance.
var Logger = logrus.New()

// Formatter renders entries as [<time>] [LEVEL] [file:line] <message> [req:<id>].
type Formatter struct {
	TimestampFormat string
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	fmt.Fprintf(b, "[%s] ", entry.Time.Format(f.TimestampFormat))
	fmt.Fprintf(b, "[%s] ", strings.ToUpper(entry.Level.String()))

	if file, line := callerLocation(); file != "" {
		fmt.Fprintf(b, "[%s:%d] ", file, line)
	}

	b.WriteString(entry.Message)

	if requestID, ok := entry.Data["request_id"].(string); ok && requestID != "" {
		fmt.Fprintf(b, " [req:%s]", requestID)
	}
	for key, value := range entry.Data {
		if key != "request_id" {
			fmt.Fprintf(b, " %s=%v", key, value)
		}
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// callerLocation walks the stack past logrus and this package to find the
// logging call site.
func callerLocation() (string, int) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()

		skip := strings.Contains(frame.File, "github.com/sirupsen/logrus") ||
			strings.HasSuffix(frame.File, "log/log.go") ||
			strings.Contains(frame.File, "runtime/")
		if !skip {
			parts := strings.Split(frame.File, "/")
			return parts[len(parts)-1], frame.Line
		}
		if !more {
			return "", 0
		}
	}
}

func entryFor(ctx context.Context) *logrus.Entry {
	return Logger.WithField("request_id", reqcontext.RequestIDFromContext(ctx))
}

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Debugf(format, args...)
}

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Infof(format, args...)
}

// Info logs a message at info level.
func Info(ctx context.Context, args ...interface{}) {
	entryFor(ctx).Info(args...)
}

// Warnf logs a formatted message at warning level.
func Warnf(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Warnf(format, args...)
}

// Errorf logs a formatted message at error level.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Errorf(format, args...)
}

// Fatalf logs a formatted message at fatal level and exits.
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	entryFor(ctx).Fatalf(format, args...)
}

// SetLevel sets the global log level.
func SetLevel(level logrus.Level) {
	Logger.SetLevel(level)
}

// SetOutput sets the global log output.
func SetOutput(out io.Writer) {
	Logger.SetOutput(out)
}

// Init configures the logger with the default formatter and level.
func Init() {
	Logger.SetFormatter(&Formatter{TimestampFormat: "2006-01-02 15:04:05"})
	Logger.SetLevel(logrus.InfoLevel)
}

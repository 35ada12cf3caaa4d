// Package logger wraps logrus with context-aware logging helpers.
package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/roguepikachu/easel/pkg/ctxutil"
)

// InitLogging configures the logger. It sets the log level from the LOG_LEVEL
// environment variable if present and switches to JSON output when
// LOG_FORMAT=json.
func InitLogging() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}
	setLogLevel(logLevel)

	logFormat := os.Getenv("LOG_FORMAT")
	if strings.EqualFold(logFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	case "fatal":
		logrus.SetLevel(logrus.FatalLevel)
	case "panic":
		logrus.SetLevel(logrus.PanicLevel)
	default:
		logrus.Infof("invalid LOG_LEVEL %q, defaulting to debug", level)
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// Sprintf formats according to a format specifier and returns the string.
func Sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// entry returns a logrus entry tagged with request/client ids from the context.
func entry(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if id := ctxutil.RequestID(ctx); id != "" {
		fields["request_id"] = id
	}
	if id := ctxutil.ClientID(ctx); id != "" {
		fields["client_id"] = id
	}
	return logrus.WithFields(fields)
}

// With returns an entry carrying the given fields plus any ids found in ctx.
func With(ctx context.Context, fields map[string]any) *logrus.Entry {
	return entry(ctx).WithFields(logrus.Fields(fields))
}

// WithField returns an entry carrying one field plus any ids found in ctx.
func WithField(ctx context.Context, key string, value any) *logrus.Entry {
	return entry(ctx).WithField(key, value)
}

// Trace logs a formatted message at trace level.
func Trace(ctx context.Context, msg string, args ...any) {
	entry(ctx).Tracef(msg, args...)
}

// Debug logs a formatted message at debug level.
func Debug(ctx context.Context, msg string, args ...any) {
	entry(ctx).Debugf(msg, args...)
}

// Info logs a formatted message at info level.
func Info(ctx context.Context, msg string, args ...any) {
	entry(ctx).Infof(msg, args...)
}

// Warn logs a formatted message at warn level.
func Warn(ctx context.Context, msg string, args ...any) {
	entry(ctx).Warnf(msg, args...)
}

// Error logs a formatted message at error level.
func Error(ctx context.Context, msg string, args ...any) {
	entry(ctx).Errorf(msg, args...)
}

// Fatal logs a formatted message at fatal level and exits.
func Fatal(ctx context.Context, msg string, args ...any) {
	entry(ctx).Fatalf(msg, args...)
}

package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gatherly/gatherly/config"

	"github.com/sirupsen/logrus"
)

// VersionKey is the logging field carrying the build version.
const VersionKey = "version"

// Logger represents logger instance
type Logger struct {
	*logrus.Logger
	version string
	logFile *os.File
}

var (
	stdLogger *Logger
	once      sync.Once
)

// StdLogger returns the single logger instance
func StdLogger() *Logger {
	once.Do(func() {
		stdLogger = &Logger{
			Logger: logrus.New(),
		}
		stdLogger.SetFormatter(&logrus.JSONFormatter{})
	})
	return stdLogger
}

// SetVersion sets the version for logging
func (l *Logger) SetVersion(v string) {
	l.version = v
}

// Init initializes the logger with the given configuration
func (l *Logger) Init(c *config.Logger) (func(), error) {
	if c == nil {
		return func() {}, nil
	}

	if c.Level > 0 {
		l.SetLevel(logrus.Level(c.Level))
	}

	switch c.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		l.SetFormatter(&logrus.TextFormatter{})
	}

	switch c.Output {
	case "stderr":
		l.SetOutput(os.Stderr)
	case "file":
		if c.OutputFile != "" {
			if err := os.MkdirAll(filepath.Dir(c.OutputFile), 0o755); err != nil {
				return nil, err
			}
			f, err := os.OpenFile(c.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("error opening log file: %w", err)
			}
			l.logFile = f
			l.SetOutput(f)
		}
	default:
		l.SetOutput(os.Stdout)
	}

	return func() {
		if l.logFile != nil {
			_ = l.logFile.Close()
		}
	}, nil
}

// New initializes the standard logger and returns its cleanup function.
func New(c *config.Logger) (func(), error) {
	return StdLogger().Init(c)
}

// entryFromContext creates a new log entry with fields from context
func (l *Logger) entryFromContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if l.version != "" {
		fields[VersionKey] = l.version
	}
	if traceID := getTraceID(ctx); traceID != "" {
		fields[traceKey] = traceID
	}
	return l.WithFields(fields)
}

// kvFields pairs variadic key-value arguments into logrus fields. A trailing
// unpaired value is logged under the "extra" key rather than dropped.
func kvFields(kv []any) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields[key] = kv[i+1]
	}
	if len(kv)%2 != 0 {
		fields["extra"] = kv[len(kv)-1]
	}
	return fields
}

func (l *Logger) log(ctx context.Context, level logrus.Level, msg string, kv ...any) {
	l.entryFromContext(ctx).WithFields(kvFields(kv)).Log(level, msg)
}

func (l *Logger) logf(ctx context.Context, level logrus.Level, format string, args ...any) {
	l.entryFromContext(ctx).Logf(level, format, args...)
}

func (l *Logger) Debug(ctx context.Context, msg string, kv ...any) {
	l.log(ctx, logrus.DebugLevel, msg, kv...)
}

func (l *Logger) Info(ctx context.Context, msg string, kv ...any) {
	l.log(ctx, logrus.InfoLevel, msg, kv...)
}

func (l *Logger) Warn(ctx context.Context, msg string, kv ...any) {
	l.log(ctx, logrus.WarnLevel, msg, kv...)
}

func (l *Logger) Error(ctx context.Context, msg string, kv ...any) {
	l.log(ctx, logrus.ErrorLevel, msg, kv...)
}

func (l *Logger) Debugf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.DebugLevel, format, args...)
}

func (l *Logger) Infof(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.InfoLevel, format, args...)
}

func (l *Logger) Warnf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.WarnLevel, format, args...)
}

func (l *Logger) Errorf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.ErrorLevel, format, args...)
}

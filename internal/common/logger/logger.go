package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level      string
	Format     string // json | text
	File       string // optional rotated log file, written alongside stdout
	MaxSize    int    // MB
	MaxBackups int
	MaxAge     int // days
	Output     io.Writer
}

var (
	mu   sync.RWMutex
	base = build(Options{Level: "info", Format: "json"})
)

// Configure replaces the shared backend. Loggers created earlier pick it up.
func Configure(opts Options) {
	l := build(opts)
	mu.Lock()
	base = l
	mu.Unlock()
}

func build(opts Options) *logrus.Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(opts.Format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339Nano})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.File != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
		})
	}
	l.SetOutput(out)
	return l
}

func current() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

type Logger struct {
	service   string
	requestID string
}

func New(service string) *Logger { return &Logger{service: service} }

// WithRequestID returns a copy stamping every entry with id.
func (l *Logger) WithRequestID(id string) *Logger {
	c := *l
	c.requestID = id
	return &c
}

func (l *Logger) log(level logrus.Level, action string, fields map[string]any, err error) {
	entry := current().WithFields(logrus.Fields{
		"service":    l.service,
		"action":     action,
		"hostname":   hostname(),
		"request_id": l.requestID,
	})
	if fields != nil {
		entry = entry.WithFields(logrus.Fields(fields))
	}
	if err != nil {
		entry = entry.WithField("error", map[string]any{"msg": err.Error(), "stack": errors.ErrorStack(err)})
	}
	entry.Log(level, action)
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(logrus.InfoLevel, action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(logrus.DebugLevel, action, fields, nil) }
func (l *Logger) Warn(action string, fields map[string]any)  { l.log(logrus.WarnLevel, action, fields, nil) }
// DebugEnabled reports whether debug entries are written.
func (l *Logger) DebugEnabled() bool { return current().IsLevelEnabled(logrus.DebugLevel) }

func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(logrus.ErrorLevel, action, fields, err)
}

var (
	hostOnce sync.Once
	host     string
)

func hostname() string {
	hostOnce.Do(func() { host, _ = os.Hostname() })
	return host
}

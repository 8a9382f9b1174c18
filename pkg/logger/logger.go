package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logging interface used across the service.
// The audit trail is the domain record; this is operational logging only.
type Logger interface {
	Info(message string, fields map[string]interface{})
	Warn(message string, fields map[string]interface{})
	Error(message string, err error, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
}

type structuredLogger struct {
	logger *logrus.Logger
	fields map[string]interface{}
}

type Config struct {
	Level       string
	Format      string // "json" or "text"
	ServiceName string
}

func New(cfg Config) Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "text" {
		l.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}
	l.SetOutput(os.Stdout)

	base := map[string]interface{}{}
	if cfg.ServiceName != "" {
		base["service"] = cfg.ServiceName
	}
	return &structuredLogger{logger: l, fields: base}
}

func (s *structuredLogger) merge(fields map[string]interface{}) logrus.Fields {
	out := logrus.Fields{}
	for k, v := range s.fields {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (s *structuredLogger) Info(message string, fields map[string]interface{}) {
	s.logger.WithFields(s.merge(fields)).Info(message)
}

func (s *structuredLogger) Warn(message string, fields map[string]interface{}) {
	s.logger.WithFields(s.merge(fields)).Warn(message)
}

func (s *structuredLogger) Error(message string, err error, fields map[string]interface{}) {
	e := s.logger.WithFields(s.merge(fields))
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(message)
}

func (s *structuredLogger) WithFields(fields map[string]interface{}) Logger {
	return &structuredLogger{logger: s.logger, fields: s.merge(fields)}
}

// Nop returns a logger that discards everything; handy in tests.
func Nop() Logger {
	l := logrus.New()
	l.SetOutput(nopWriter{})
	return &structuredLogger{logger: l, fields: map[string]interface{}{}}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

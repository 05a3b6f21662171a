package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log  = logrus.New()
	once sync.Once
)

// Options configures the global logger
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// Init configures the global logger. Only the first call has an effect.
func Init(opts Options) {
	once.Do(func() {
		configure(log, opts)
	})
}

// New builds a standalone logger, used by tests and tools that must not touch the global one
func New(opts Options) *logrus.Logger {
	l := logrus.New()
	configure(l, opts)
	return l
}

func configure(l *logrus.Logger, opts Options) {
	if opts.Format == "text" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	if opts.Output != nil {
		l.SetOutput(opts.Output)
	} else {
		l.SetOutput(os.Stdout)
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
}

// L returns the global logger instance
func L() *logrus.Logger {
	return log
}

// WithFields is a shorthand for L().WithFields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}

// WithError is a shorthand for L().WithError
func WithError(err error) *logrus.Entry {
	return log.WithError(err)
}

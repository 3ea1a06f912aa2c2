// Package logger builds the logrus loggers shared by the binaries.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Service string
	Level   string // logrus level name, "" means info
	Format  string // "json" (default) or "text"
	Out     io.Writer
}

func New(opts Options) (*logrus.Logger, error) {
	log := logrus.New()
	log.Out = opts.Out
	if log.Out == nil {
		log.Out = os.Stderr
	}

	switch opts.Format {
	case "", "json":
		log.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	case "text":
		log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	default:
		return nil, errors.Errorf("unknown log format %q", opts.Format)
	}

	level := logrus.InfoLevel
	if opts.Level != "" {
		var err error
		if level, err = logrus.ParseLevel(opts.Level); err != nil {
			return nil, errors.Wrap(err, "log level")
		}
	}
	log.SetLevel(level)

	if opts.Service != "" {
		log.AddHook(serviceHook(opts.Service))
	}
	return log, nil
}

// serviceHook stamps every entry with the service name.
type serviceHook string

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = string(h)
	}
	return nil
}

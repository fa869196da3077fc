package logger

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a logrus entry carrying the service tag and any accumulated
// structured fields. Derived loggers share the underlying logrus instance.
type Logger struct {
	*logrus.Entry
}

// Config holds basic logger settings for explicit construction.
type Config struct {
	Level       string    // debug, info, warn, error
	Format      string    // json or text
	Output      io.Writer // defaults to stdout
	ServiceName string
}

// rotatedFile holds the active lumberjack writer so Sync can close it.
var (
	rotatedFile   io.Closer
	rotatedFileMu sync.Mutex
)

// New creates a Logger from an explicit Config. A nil config yields an
// info-level JSON logger on stdout tagged truegift-rag.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = &Config{
			Level:       "info",
			Format:      "json",
			ServiceName: "truegift-rag",
		}
	}

	log := newLogrus(cfg.Level, cfg.Format)
	if cfg.Output != nil {
		log.SetOutput(cfg.Output)
	} else {
		log.SetOutput(os.Stdout)
	}

	return &Logger{Entry: log.WithField("service", cfg.ServiceName)}
}

// NewFromEnv creates a Logger from environment configuration, wiring file
// output with rotation outside the local environment.
func NewFromEnv(envCfg *EnvConfig) *Logger {
	if envCfg == nil {
		envCfg = LoadFromEnv()
	}

	log := newLogrus(envCfg.Level, envCfg.Format)

	switch {
	case envCfg.Output != nil:
		log.SetOutput(envCfg.Output)
	default:
		var writers []io.Writer
		if envCfg.Environment == "local" || !envCfg.LogFileOnly {
			writers = append(writers, os.Stdout)
		}
		if envCfg.Environment != "local" && envCfg.LogFile != "" {
			file := &lumberjack.Logger{
				Filename:   envCfg.LogFile,
				MaxSize:    envCfg.MaxSize,
				MaxBackups: envCfg.MaxBackups,
				MaxAge:     envCfg.MaxAge,
				Compress:   envCfg.Compress,
			}
			writers = append(writers, file)

			rotatedFileMu.Lock()
			rotatedFile = file
			rotatedFileMu.Unlock()
		}
		if len(writers) == 0 {
			writers = append(writers, os.Stdout)
		}
		log.SetOutput(io.MultiWriter(writers...))
	}

	return &Logger{Entry: log.WithField("service", envCfg.ServiceName)}
}

// Sync closes the rotated log file, if one is open. Call before exit.
func Sync() error {
	rotatedFileMu.Lock()
	defer rotatedFileMu.Unlock()
	if rotatedFile != nil {
		return rotatedFile.Close()
	}
	return nil
}

// newLogrus builds the shared logrus core: level, caller reporting and the
// formatter for the requested format.
func newLogrus(level, format string) *logrus.Logger {
	log := logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	log.SetReportCaller(true)

	const stamp = "2006-01-02T15:04:05.000Z07:00"
	if strings.EqualFold(format, "text") {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  stamp,
			CallerPrettyfier: shortCaller,
		})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: stamp,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
			CallerPrettyfier: shortCaller,
		})
	}

	return log
}

// shortCaller trims caller info to function name and file:line.
func shortCaller(frame *runtime.Frame) (string, string) {
	function := frame.Function
	if idx := strings.LastIndex(function, "/"); idx >= 0 {
		function = function[idx+1:]
	}
	return function, filepath.Base(frame.File) + ":" + strconv.Itoa(frame.Line)
}

// WithFields returns a derived Logger with the fields attached.
func (l *Logger) WithFields(fields Fields) *Logger {
	return &Logger{Entry: l.Entry.WithFields(logrus.Fields(fields))}
}

// WithField returns a derived Logger with one extra field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{Entry: l.Entry.WithField(key, value)}
}

// WithError returns a derived Logger with the error attached.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Entry: l.Entry.WithError(err)}
}

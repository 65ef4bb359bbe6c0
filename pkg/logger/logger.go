package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	Fatal(msg string, keyvals ...interface{})
}

// Options controls where log lines go. An empty FilePath disables the file sink.
type Options struct {
	Level      string
	Format     string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

type zeroLogger struct {
	logger zerolog.Logger
}

// New builds a logger writing to stdout and, when configured, a rolling log file.
func New(opts Options) Logger {
	writers := []io.Writer{consoleOrJSON(os.Stdout, opts.Format)}

	if opts.FilePath != "" {
		file := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		})
	}

	return NewWithWriter(opts.Level, zerolog.MultiLevelWriter(writers...))
}

// NewWithWriter builds a logger on an arbitrary writer.
func NewWithWriter(level string, w io.Writer) Logger {
	l, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		l = zerolog.InfoLevel
	}

	z := zerolog.New(w).Level(l).With().Timestamp().Logger()
	return &zeroLogger{logger: z}
}

// Nop discards everything.
func Nop() Logger {
	return &zeroLogger{logger: zerolog.Nop()}
}

func consoleOrJSON(out io.Writer, format string) io.Writer {
	if format == "json" {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
}

func (l *zeroLogger) Debug(msg string, keyvals ...interface{}) {
	l.log(l.logger.Debug(), msg, keyvals...)
}

func (l *zeroLogger) Info(msg string, keyvals ...interface{}) {
	l.log(l.logger.Info(), msg, keyvals...)
}

func (l *zeroLogger) Warn(msg string, keyvals ...interface{}) {
	l.log(l.logger.Warn(), msg, keyvals...)
}

func (l *zeroLogger) Error(msg string, keyvals ...interface{}) {
	l.log(l.logger.Error(), msg, keyvals...)
}

func (l *zeroLogger) Fatal(msg string, keyvals ...interface{}) {
	l.log(l.logger.Fatal(), msg, keyvals...)
}

func (l *zeroLogger) log(e *zerolog.Event, msg string, keyvals ...interface{}) {
	if e == nil {
		return
	}

	for i := 0; i < len(keyvals); i += 2 {
		if i+1 < len(keyvals) {
			key, ok := keyvals[i].(string)
			if !ok {
				continue
			}
			if err, isErr := keyvals[i+1].(error); isErr {
				e.AnErr(key, err)
				continue
			}
			e.Interface(key, keyvals[i+1])
		}
	}

	e.Msg(msg)
}

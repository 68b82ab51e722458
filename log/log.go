// Package log provides the structured logger used across the voting core.
// It is a thin wrapper around zerolog exposing a small, stable surface
// (Infof, Debugw, Warnw, Errorf, Error) so the rest of the module never
// imports zerolog directly.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level mirrors zerolog's level but keeps call sites free of the
// zerolog import.
type Level int8

const (
	LogLevelDebug Level = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var (
	mu     sync.Mutex
	logger zerolog.Logger
	level  Level
)

func init() {
	// safe default so packages can log before Init is called (e.g. in tests).
	Init("info", "stderr", nil)
}

// Init configures the global logger. A non-nil w is written to directly;
// otherwise output "stdout" selects stdout and any other value, including
// a file path, selects stderr (no file is opened). level is one of
// "debug", "info", "warn", "error".
func Init(logLevel, output string, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	var out io.Writer
	switch {
	case w != nil:
		out = w
	case output == "stdout":
		out = os.Stdout
	default:
		out = os.Stderr
	}

	zerolog.TimeFieldFormat = time.RFC3339
	consoleWriter := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	logger = zerolog.New(consoleWriter).With().Timestamp().Logger()

	switch strings.ToLower(logLevel) {
	case "debug":
		level = LogLevelDebug
		logger = logger.Level(zerolog.DebugLevel)
	case "warn":
		level = LogLevelWarn
		logger = logger.Level(zerolog.WarnLevel)
	case "error":
		level = LogLevelError
		logger = logger.Level(zerolog.ErrorLevel)
	default:
		level = LogLevelInfo
		logger = logger.Level(zerolog.InfoLevel)
	}
}

// Level returns the currently configured log level.
func Level() Level { return level }

func Debugf(format string, args ...any) { logger.Debug().Msg(fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { logger.Info().Msg(fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { logger.Warn().Msg(fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { logger.Error().Msg(fmt.Sprintf(format, args...)) }

// Error logs err at error level. It is a no-op when err is nil.
func Error(err error) {
	if err == nil {
		return
	}
	logger.Error().Msg(err.Error())
}

// Debugw, Warnw, and Infow log a message with structured key/value
// pairs: Debugw("message", "key1", val1, "key2", val2).
func Debugw(msg string, kv ...any) { event(logger.Debug(), msg, kv...) }
func Warnw(msg string, kv ...any)  { event(logger.Warn(), msg, kv...) }
func Infow(msg string, kv ...any)  { event(logger.Info(), msg, kv...) }

func event(ev *zerolog.Event, msg string, kv ...any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}

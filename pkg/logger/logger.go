package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init configures the process-wide logger. Development gets a colored console
// writer at debug level, every other environment gets JSON at info level.
func Init(environment string) {
	InitWithWriter(environment, os.Stdout)
}

func InitWithWriter(environment string, out io.Writer) {
	env := strings.ToLower(strings.TrimSpace(environment))

	var zl zerolog.Logger
	level := zerolog.InfoLevel
	switch env {
	case "development", "dev", "local":
		level = zerolog.DebugLevel
		zl = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	default:
		zl = zerolog.New(out)
	}

	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		level = lvl
	}

	mu.Lock()
	log = zl.Level(level).With().Timestamp().Str("env", env).Logger()
	mu.Unlock()
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, args ...any) {
	l := current()
	emit(l.Debug(), msg, args)
}

func Info(msg string, args ...any) {
	l := current()
	emit(l.Info(), msg, args)
}

func Warn(msg string, args ...any) {
	l := current()
	emit(l.Warn(), msg, args)
}

func Error(msg string, args ...any) {
	l := current()
	emit(l.Error(), msg, args)
}

// Fatal logs and exits the process with status 1.
func Fatal(msg string, args ...any) {
	l := current()
	emit(l.WithLevel(zerolog.FatalLevel), msg, args)
	os.Exit(1)
}

// emit accepts either key/value pairs ("key", value) or bare values. A bare
// error becomes the "error" field, other bare values are collected under "args".
func emit(evt *zerolog.Event, msg string, args []any) {
	if evt == nil {
		return
	}

	var extra []any
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case string:
			if i+1 < len(args) {
				addField(evt, v, args[i+1])
				i++
				continue
			}
			extra = append(extra, v)
		case error:
			evt.Err(v)
		default:
			extra = append(extra, v)
		}
	}
	if len(extra) > 0 {
		evt.Str("args", fmt.Sprint(extra...))
	}
	evt.Msg(msg)
}

func addField(evt *zerolog.Event, key string, val any) {
	switch v := val.(type) {
	case error:
		evt.AnErr(key, v)
	case string:
		evt.Str(key, v)
	case int:
		evt.Int(key, v)
	case int64:
		evt.Int64(key, v)
	case uint:
		evt.Uint(key, v)
	case uint64:
		evt.Uint64(key, v)
	case float64:
		evt.Float64(key, v)
	case bool:
		evt.Bool(key, v)
	case time.Duration:
		evt.Dur(key, v)
	case []string:
		evt.Strs(key, v)
	default:
		evt.Interface(key, v)
	}
}

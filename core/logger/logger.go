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
	mu   sync.RWMutex
	base = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init configures the global logger. level is one of debug, info, warn, error.
// pretty switches to human readable console output.
func Init(level string, pretty bool) {
	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	SetOutput(out, level)
}

// SetOutput replaces the writer of the global logger.
func SetOutput(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	mu.Lock()
	base = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	mu.Unlock()
}

func Debug(msg string, args ...any) {
	write(zerolog.DebugLevel, msg, args)
}

func Info(msg string, args ...any) {
	write(zerolog.InfoLevel, msg, args)
}

func Warn(msg string, args ...any) {
	write(zerolog.WarnLevel, msg, args)
}

func Error(msg string, args ...any) {
	write(zerolog.ErrorLevel, msg, args)
}

// write accepts key/value pairs. A lone error or a trailing value without a key is
// still logged, so call sites like logger.Error("Repo:Create", err) keep working.
func write(level zerolog.Level, msg string, args []any) {
	mu.RLock()
	l := base
	mu.RUnlock()

	ev := l.WithLevel(level)
	if ev == nil {
		return
	}

	for i := 0; i < len(args); i++ {
		if err, ok := args[i].(error); ok {
			ev = ev.AnErr("error", err)
			continue
		}
		key, ok := args[i].(string)
		if !ok || i+1 >= len(args) {
			ev = ev.Interface(fmt.Sprintf("arg%d", i), args[i])
			continue
		}
		ev = ev.Interface(key, args[i+1])
		i++
	}

	ev.Msg(msg)
}

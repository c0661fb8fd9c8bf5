// Package log is the leveled logger used throughout octquant. Messages are
// printf-formatted and handed to a slog.Logger, which discards everything
// until a caller installs a handler with SetLogger or SetHandler.
package log

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/exp/slog"
)

const (
	LevelError int = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace

	// skip runtime.Callers, output and the exported level func
	calldepth = 3
)

// SlogLevelTrace sits below slog.LevelDebug so handlers configured for
// debug output still drop trace records.
const SlogLevelTrace = slog.Level(-8)

var (
	level  atomic.Int64
	logger atomic.Pointer[slog.Logger]
)

func init() {
	level.Store(int64(LevelTrace))
	logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// LevelError = 0
// LevelWarn = 1
// LevelInfo  = 2
// LevelDebug  = 3
// LevelTrace = 4
//
// SetLevel caps the verbosity independently of the handler's own level.
func SetLevel(l int) {
	level.Store(int64(l))
}

// SetLogger replaces the destination logger. A nil logger restores the
// discarding default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Store(l)
}

func SetHandler(h slog.Handler) {
	SetLogger(slog.New(h))
}

// SetOutput is shorthand for a text handler writing to w at the given level
func SetOutput(w io.Writer, l int) {
	SetLevel(l)
	SetHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: toSlog(l),
	}))
}

// Logger returns the current destination logger
func Logger() *slog.Logger {
	return logger.Load()
}

func toSlog(l int) slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelInfo:
		return slog.LevelInfo
	case LevelDebug:
		return slog.LevelDebug
	default:
		return SlogLevelTrace
	}
}

func output(l int, format string, args ...any) {
	if int64(l) > level.Load() {
		return
	}
	lg := logger.Load()
	sl := toSlog(l)
	ctx := context.Background()
	if !lg.Enabled(ctx, sl) {
		return
	}
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	var pcs [1]uintptr
	runtime.Callers(calldepth, pcs[:])
	r := slog.NewRecord(time.Now(), sl, message, pcs[0])
	_ = lg.Handler().Handle(ctx, r)
}

func Trace(format string, args ...any) {
	output(LevelTrace, format, args...)
}

func Debug(format string, args ...any) {
	output(LevelDebug, format, args...)
}

func Info(format string, args ...any) {
	output(LevelInfo, format, args...)
}

func Warn(format string, args ...any) {
	output(LevelWarn, format, args...)
}

func Error(format string, args ...any) {
	output(LevelError, format, args...)
}

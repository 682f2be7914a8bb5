// Package oxlog is the VM's leveled diagnostic logger. The spec's ambient
// stack calls for logging "the way the teacher does it": the teacher has
// no third-party logging dependency in its own stack (grep of
// _examples/sentra-language-sentra/go.mod turns up none), so this wraps
// the standard library's log.Logger rather than inventing a reason to
// import one — see DESIGN.md for that stdlib justification. The seven
// single-letter OX_LOG_LEVEL codes (§6) are grounded on
// original_source/src/lib/ox_log.c's level table.
package oxlog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level is one of the seven OX_LOG_LEVEL codes, ordered least to most
// severe; LevelNone suppresses every message.
type Level uint8

const (
	LevelAll Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelNone
)

var codeToLevel = map[byte]Level{
	'a': LevelAll, 'd': LevelDebug, 'i': LevelInfo,
	'w': LevelWarn, 'e': LevelError, 'f': LevelFatal, 'n': LevelNone,
}

var levelNames = [...]string{"all", "debug", "info", "warn", "error", "fatal", "none"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel parses a single OX_LOG_LEVEL character (§6: a|d|i|w|e|f|n).
func ParseLevel(s string) (Level, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("oxlog: invalid level %q, want one of a,d,i,w,e,f,n", s)
	}
	lvl, ok := codeToLevel[s[0]]
	if !ok {
		return 0, fmt.Errorf("oxlog: invalid level %q, want one of a,d,i,w,e,f,n", s)
	}
	return lvl, nil
}

// Logger gates a standard-library *log.Logger behind a minimum Level.
type Logger struct {
	min Level
	l   *log.Logger
}

// New returns a Logger writing to w, filtering below min.
func New(w io.Writer, min Level) *Logger {
	return &Logger{min: min, l: log.New(w, "", log.LstdFlags)}
}

// Default returns a Logger writing to stderr at LevelWarn, the VM's
// default when OX_LOG_LEVEL is unset (§6).
func Default() *Logger { return New(os.Stderr, LevelWarn) }

func (lg *Logger) log(lvl Level, tag, format string, args ...interface{}) {
	if lvl < lg.min {
		return
	}
	lg.l.Printf("["+tag+"] "+format, args...)
}

func (lg *Logger) Debug(format string, args ...interface{}) { lg.log(LevelDebug, "debug", format, args...) }
func (lg *Logger) Info(format string, args ...interface{})  { lg.log(LevelInfo, "info", format, args...) }
func (lg *Logger) Warn(format string, args ...interface{})  { lg.log(LevelWarn, "warn", format, args...) }
func (lg *Logger) Error(format string, args ...interface{}) { lg.log(LevelError, "error", format, args...) }

// Fatal logs at the highest severity, so only LevelNone suppresses it,
// and does NOT call os.Exit — that decision
// belongs to the embedder, not the library (§Non-goals: no CLI).
func (lg *Logger) Fatal(format string, args ...interface{}) { lg.log(LevelFatal, "fatal", format, args...) }

// SetMinLevel changes the filtering threshold, e.g. after OX_LOG_LEVEL is
// parsed by oxconfig.
func (lg *Logger) SetMinLevel(lvl Level) { lg.min = lvl }

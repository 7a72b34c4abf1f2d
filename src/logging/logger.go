// Package logging writes leveled lines tagged with the component that emitted them:
//
//	2026/10/19 12:00:00.000000 [INFO] [viewer] loaded sample "S1": 3 points, 2 sequences
//
// The level is process wide. Each component logs through its own *Logger.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Level is a message severity. Messages below the process level are dropped.
type Level int32

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel maps a config or flag value ("debug", "WARN", "warning", ...) to a Level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, true
	case "info":
		return Info, true
	case "warn", "warning":
		return Warn, true
	case "error":
		return Error, true
	}
	return Info, false
}

var (
	level atomic.Int32
	sink  = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)
)

func init() { level.Store(int32(Info)) }

// SetLogLevel sets the process level from its name. An unknown name leaves the level
// unchanged and reports false.
func SetLogLevel(s string) bool {
	l, ok := ParseLevel(s)
	if ok {
		level.Store(int32(l))
	}
	return ok
}

func currentLevel() Level { return Level(level.Load()) }

// SetOutput redirects every component's output; tests pass io.Discard or a buffer.
func SetOutput(w io.Writer) { sink.SetOutput(w) }

// Logger tags each line with a component name.
type Logger struct {
	tag string
}

// New returns a logger whose lines carry "[component]" after the level.
func New(component string) *Logger {
	return &Logger{tag: "[" + component + "]"}
}

var (
	// Viewer logs the desktop viewer and the session it drives.
	Viewer = New("viewer")
	// Reader logs the hitreader command line tool.
	Reader = New("reader")
)

func (l *Logger) logf(lv Level, format string, args []interface{}) {
	if currentLevel() > lv {
		return
	}
	msg := format
	// Hover text and sequence names may contain '%'; print them verbatim when there are no args.
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	sink.Printf("[%s] %s %s", lv, l.tag, msg)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.logf(Debug, format, args) }
func (l *Logger) Infof(format string, args ...interface{})  { l.logf(Info, format, args) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.logf(Warn, format, args) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.logf(Error, format, args) }

// Since logs at debug level how long the step named what has run since start.
func (l *Logger) Since(start time.Time, what string) {
	if currentLevel() > Debug {
		return
	}
	l.logf(Debug, "%s took %s", []interface{}{what, time.Since(start).Round(time.Microsecond)})
}

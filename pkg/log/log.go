// Package log provides leveled, named loggers backed by go-logging.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/op/go-logging"
)

// Level is a logging verbosity.
type Level int

// The levels accepted by SetLevel, most verbose first.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var (
	colorFormat = logging.MustStringFormatter(
		`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
	)
	plainFormat = logging.MustStringFormatter(
		`[%{time:15:04:05.000}] [%{module}] [%{level}] %{message}`,
	)
)

var (
	mu             sync.Mutex
	level          = Warning
	leveledBackend logging.LeveledBackend
)

// Logger is the subset of the go-logging API used across the module.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Noticef(format string, v ...any)
	Warningf(format string, v ...any)
	Errorf(format string, v ...any)
}

// New returns a named logger. The name shows up as the module column.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects all loggers to w, keeping the current level.
// The terminal backend owns stdout while running, so callers point this at a
// file or io.Discard for the duration. Only stderr and stdout get colors.
func SetSink(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	format := plainFormat
	if w == os.Stderr || w == os.Stdout {
		format = colorFormat
	}
	backend := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(formatted)
	leveledBackend.SetLevel(toLogging(level), "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets logger verbosity for every module.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()

	level = l
	leveledBackend.SetLevel(toLogging(l), "")
}

// Verbosity maps a -v flag count to a level.
func Verbosity(count int) Level {
	switch {
	case count >= 2:
		return Debug
	case count == 1:
		return Info
	default:
		return Warning
	}
}

func toLogging(l Level) logging.Level {
	switch l {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Notice:
		return logging.NOTICE
	case Error:
		return logging.ERROR
	default:
		return logging.WARNING
	}
}

func init() {
	SetSink(os.Stderr)
}

// Provide application-wide logging with pre-defined log levels.
// It is just concerned with putting strings into the designated
// buffers and thus hides stuff like Panic() or Fatal().
//
// The engine packages only log at debug level, so that a cipher
// run stays silent unless the user asked for details.
// By default logs of level WARNING and ERROR are printed to stderr.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

func init() {
	Initialize(LevelWarning, nil, nil)
}

type LogLevel int

const (
	LevelNone LogLevel = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
)

var levelNames = map[LogLevel]string{
	LevelNone:    "none",
	LevelError:   "error",
	LevelWarning: "warning",
	LevelInfo:    "info",
	LevelDebug:   "debug",
}

func (l LogLevel) String() string {
	name, ok := levelNames[l]
	if !ok {
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
	return name
}

// Parses the lowercase name of a log level, as used in parameter files.
func ParseLevel(s string) (LogLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return LevelNone, fmt.Errorf("logging: unknown log level '%s'", s)
}

type nilWriter struct{}

func (ni nilWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

var nilLogger = log.New(nilWriter{}, "", 0)

// indexed by LogLevel, LevelNone is never written to
var loggers [LevelDebug + 1]*log.Logger
var currentLevel LogLevel

// Initialize the application wide logger to a specific log level.
// This should ideally be called once at the beginning of the application.
// Custom writers can be specified as well: errWriter will be used for
// log levels ERROR and WARNING, logWriter for everything else.
// These may be set to nil, in which case they default to stdout and stderr.
func Initialize(l LogLevel, logWriter io.Writer, errWriter io.Writer) {
	if logWriter == nil {
		logWriter = os.Stdout
	}

	if errWriter == nil {
		errWriter = os.Stderr
	}

	for level := LevelError; level <= LevelDebug; level++ {
		if level > l {
			loggers[level] = nilLogger
			continue
		}

		w := logWriter
		if level <= LevelWarning {
			w = errWriter
		}
		loggers[level] = log.New(w, strings.ToUpper(level.String())+": ", log.LstdFlags)
	}

	currentLevel = l
}

// Reports whether messages of the given level are currently written anywhere.
func Enabled(l LogLevel) bool {
	return l != LevelNone && l <= currentLevel
}

func Error(s string) {
	loggers[LevelError].Print(s)
}

func Errorf(format string, v ...any) {
	loggers[LevelError].Printf(format, v...)
}

func Warning(s string) {
	loggers[LevelWarning].Print(s)
}

func Warningf(format string, v ...any) {
	loggers[LevelWarning].Printf(format, v...)
}

func Info(s string) {
	loggers[LevelInfo].Print(s)
}

func Infof(format string, v ...any) {
	loggers[LevelInfo].Printf(format, v...)
}

func Debug(s string) {
	loggers[LevelDebug].Print(s)
}

func Debugf(format string, v ...any) {
	loggers[LevelDebug].Printf(format, v...)
}

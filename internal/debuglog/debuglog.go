// Package debuglog provides threshold-gated diagnostic logging.
//
// The threshold is read once from the RESAMPLER_DEBUG environment variable
// when the process starts. It only controls what gets printed; it never
// changes what the resampler computes.
package debuglog

import (
	"io"
	"log"
	"os"
	"strconv"
	"sync/atomic"
)

// Level is a verbosity threshold. A message is printed when its level is
// less than or equal to the current threshold.
type Level int32

const (
	LevelNone Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
	LevelTrace
)

// EnvVar names the environment variable holding the numeric threshold.
const EnvVar = "RESAMPLER_DEBUG"

const defaultLevel = LevelError

var (
	threshold atomic.Int32
	logger    atomic.Pointer[log.Logger]
)

func init() {
	threshold.Store(int32(levelFromEnv(os.Getenv(EnvVar))))
	logger.Store(log.New(os.Stderr, "resampler: ", log.LstdFlags))
}

func levelFromEnv(v string) Level {
	if v == "" {
		return defaultLevel
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < int(LevelNone) {
		return defaultLevel
	}
	return Level(min(n, int(LevelTrace)))
}

// SetLevel overrides the threshold read at startup.
func SetLevel(l Level) {
	threshold.Store(int32(l))
}

// CurrentLevel returns the active threshold.
func CurrentLevel() Level {
	return Level(threshold.Load())
}

// SetOutput redirects diagnostic output.
func SetOutput(w io.Writer) {
	logger.Store(log.New(w, "resampler: ", log.LstdFlags))
}

// Enabled reports whether messages at level l are printed.
func Enabled(l Level) bool {
	return l != LevelNone && l <= CurrentLevel()
}

func logf(l Level, tag, format string, args ...any) {
	if !Enabled(l) {
		return
	}
	logger.Load().Printf(tag+format, args...)
}

// Errorf logs at LevelError.
func Errorf(format string, args ...any) { logf(LevelError, "ERROR: ", format, args...) }

// Warnf logs at LevelWarning.
func Warnf(format string, args ...any) { logf(LevelWarning, "WARN: ", format, args...) }

// Infof logs at LevelInfo.
func Infof(format string, args ...any) { logf(LevelInfo, "INFO: ", format, args...) }

// Debugf logs at LevelDebug.
func Debugf(format string, args ...any) { logf(LevelDebug, "DEBUG: ", format, args...) }

// Tracef logs at LevelTrace.
func Tracef(format string, args ...any) { logf(LevelTrace, "TRACE: ", format, args...) }

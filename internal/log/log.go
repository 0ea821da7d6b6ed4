package log

import (
	"fmt"
	stdlog "log"
	"os"
	"sync"
	"time"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	logger     *stdlog.Logger
	loggerOnce sync.Once
	minLevel   = LevelInfo

	// File sinks. Info lines are appended to the application log, error
	// records to the error log. Either may be nil (stderr only).
	fileMu  sync.Mutex
	appFile *os.File
	errFile *os.File
)

// initLogger initializes the global logger to write to stderr with timestamps.
func initLogger() {
	loggerOnce.Do(func() {
		logger = stdlog.New(os.Stderr, "", stdlog.LstdFlags|stdlog.Lmicroseconds)
		minLevel = LevelInfo
	})
}

// Init opens the application and error log files for appending. Empty
// paths disable the corresponding file sink. Open failures are reported
// to stderr and that sink stays disabled; logging must never take the
// process down.
func Init(appPath, errPath string) {
	initLogger()
	fileMu.Lock()
	defer fileMu.Unlock()

	if appPath != "" {
		f, err := os.OpenFile(appPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			logger.Println("failed to open application log file: " + err.Error())
		} else {
			appFile = f
		}
	}
	if errPath != "" {
		f, err := os.OpenFile(errPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			logger.Println("failed to open error log file: " + err.Error())
		} else {
			errFile = f
		}
	}
}

func SetLevel(l Level) {
	initLogger()
	minLevel = l
}

func Debug(msg string, kv ...any) {
	logWithLevel(LevelDebug, msg, kv...)
}

func Info(msg string, kv ...any) {
	logWithLevel(LevelInfo, msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	logWithLevel(LevelError, msg, extended...)
}

func logWithLevel(level Level, msg string, kv ...any) {
	initLogger()
	if !enabled(level) {
		return
	}

	ts := time.Now().Format(time.RFC3339Nano)

	// Basic line format:
	// 2025-01-01T00:00:00Z [LEVEL] msg key=value ...
	line := ts + " [" + string(level) + "] " + msg

	// Append structured key-value pairs.
	if len(kv) > 0 {
		line += formatKVs(kv...)
	}

	logger.Println(line)
	appendToFile(level, line)
}

// appendToFile mirrors the line into the matching log file: errors go to
// the error log, everything else to the application log. Write failures
// are ignored; the stderr copy already went out.
func appendToFile(level Level, line string) {
	fileMu.Lock()
	defer fileMu.Unlock()

	f := appFile
	if level == LevelError {
		f = errFile
	}
	if f == nil {
		return
	}
	_, _ = f.WriteString(line + "\n")
}

func enabled(level Level) bool {
	switch minLevel {
	case LevelDebug:
		return true
	case LevelInfo:
		return level == LevelInfo || level == LevelError
	case LevelError:
		return level == LevelError
	default:
		return true
	}
}

func formatKVs(kv ...any) string {
	out := ""
	// Expect kv as pairs: key, value, key, value, ...
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		val := kv[i+1]
		out += " " + key + "=" + safeSprint(val)
	}
	// If odd number of args, last one is ignored.
	return out
}

func safeSprint(v any) string {
	return fmt.Sprint(v)
}

// Package logging provides the process-wide structured logger used by the
// core packages and the CLI front ends. It wraps github.com/pod32g/simple-logger
// behind a lazily-initialized global, following the same shape as other
// Go tools in this ecosystem that centralize logging behind a package-level
// accessor instead of threading a logger through every call.
package logging

import (
	"os"
	"strings"
	"sync"

	slogger "github.com/pod32g/simple-logger"
)

var (
	initOnce sync.Once
	global   *slogger.Logger
)

// Logger returns the shared process-wide logger, initializing it on first
// use from the environment (falling back to stderr output).
func Logger() *slogger.Logger {
	initOnce.Do(func() {
		cfg := slogger.LoadConfigFromEnv()
		if _, ok := os.LookupEnv("LOG_OUTPUT"); !ok {
			cfg.Output = "stderr"
		}
		cfg.EnableCaller = false
		cfg.SyncWrites = true
		global = slogger.ApplyConfig(cfg)
	})
	return global
}

// SetLevel overrides the active log level for the shared logger.
func SetLevel(level slogger.LogLevel) {
	Logger().SetLevel(level)
}

// SetLevelByName adjusts the log level using a string such as "debug",
// "info", "warn" or "error". Returns true when the level name is
// recognized.
func SetLevelByName(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		SetLevel(LevelDebug)
	case "INFO":
		SetLevel(LevelInfo)
	case "WARN", "WARNING":
		SetLevel(LevelWarn)
	case "ERROR", "ERR":
		SetLevel(LevelError)
	default:
		return false
	}
	return true
}

// Level aliases avoid importing simple-logger directly from call sites.
const (
	LevelDebug = slogger.DEBUG
	LevelInfo  = slogger.INFO
	LevelWarn  = slogger.WARN
	LevelError = slogger.ERROR
)

// Field is the structured field type from simple-logger.
type Field = slogger.Field

// Field constructors mirror simple-logger's helpers.
var (
	String  = slogger.String
	Int     = slogger.Int
	Float64 = slogger.Float64
	Bool    = slogger.Bool
	Error   = slogger.Error
)

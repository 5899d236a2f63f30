package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
)

var _ pflag.Value = (*logLevelFlag)(nil)

// logLevelFlag is a --log-level value restricted to the slog levels.
type logLevelFlag struct {
	level slog.Level
	set   bool
}

func (f *logLevelFlag) String() string {
	if !f.set {
		return ""
	}
	return strings.ToLower(f.level.String())
}

func (f *logLevelFlag) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		f.level = slog.LevelDebug
	case "info":
		f.level = slog.LevelInfo
	case "warn", "warning":
		f.level = slog.LevelWarn
	case "error":
		f.level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
	f.set = true
	return nil
}

func (f *logLevelFlag) Type() string { return "level" }

// resolve returns the flag's level when it was given, otherwise fallback.
func (f *logLevelFlag) resolve(fallback slog.Level) slog.Level {
	if f.set {
		return f.level
	}
	return fallback
}

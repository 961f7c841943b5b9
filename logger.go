package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// logger is replaced by InitLogger once flags are parsed. Until then
// everything goes to stderr at info level.
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func ResolveLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

func InitLogger(w io.Writer, level string) error {
	logLevel, err := ResolveLogLevel(level)
	if err != nil {
		return err
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger = slog.New(handler)
	slog.SetDefault(logger)
	return nil
}

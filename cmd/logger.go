package main

import (
	"io"
	"log/slog"
	"os"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// setupLogger returns a text logger for local runs and a JSON logger
// otherwise. Production and unknown environments drop timestamps, the log
// collector adds its own.
func setupLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env)
}

func newLogger(out io.Writer, env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true}))
	case envDev:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case envProd:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelWarn, ReplaceAttr: dropTime}))
	}

	log := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelError, ReplaceAttr: dropTime}))
	log.Error(
		"The env parameter was not specified or was invalid. Logging will be minimal.",
		slog.String("env", env),
		slog.String("available_envs", "local, development, production"),
	)

	return log
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}

	return a
}

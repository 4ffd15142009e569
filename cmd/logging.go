package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var logFile *os.File

// setupLogging points the default slog logger at a file so that log lines
// never land on the terminal the TUI is drawing.
func setupLogging() error {
	path, err := resolveLogPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f

	level := parseLogLevel(os.Getenv("ELEVATE_LOG_LEVEL"))
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return nil
}

func closeLog() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// resolveLogPath returns ELEVATE_LOG_FILE, then
// $XDG_STATE_HOME/eduelevate/eduelevate.log, then the same under
// ~/.local/state.
func resolveLogPath() (string, error) {
	if p := os.Getenv("ELEVATE_LOG_FILE"); p != "" {
		return p, nil
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "eduelevate", "eduelevate.log"), nil
}

// parseLogLevel accepts debug, info, warn or error in any case. Anything
// else means info.
func parseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"metal-snake/config"
)

// setupLogger points the global logger at stderr, or away from it while the
// terminal UI owns the screen. The returned func closes any log file.
func setupLogger(cfg config.Config) (func(), error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	closeFn := func() {}

	if cfg.UI == config.UITerminal {
		out = io.Discard
		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return nil, fmt.Errorf("open log file: %w", err)
			}
			out = zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.RFC3339}
			closeFn = func() { f.Close() }
		}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closeFn, nil
}

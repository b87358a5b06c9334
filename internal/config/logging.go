package config

import (
	"github.com/phuslu/log"
)

// NewLogger builds the application logger from the logging section. Output
// always goes to the console; a file writer is added when a log file is
// configured. The returned logger is injected into every component; nothing
// in this codebase logs through a package-level singleton.
func NewLogger(cfg LoggingConfig) log.Logger {
	console := &log.ConsoleWriter{
		ColorOutput:    true,
		EndWithMessage: true,
	}

	var writer log.Writer = console
	if cfg.File != "" {
		writer = &log.MultiEntryWriter{
			console,
			&log.FileWriter{
				Filename:     cfg.File,
				EnsureFolder: true,
			},
		}
	}

	return log.Logger{
		Level:      log.ParseLevel(cfg.Level),
		TimeFormat: "2006-01-02 15:04:05",
		Writer:     writer,
	}
}

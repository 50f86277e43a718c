package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/decred/slog"

	"github.com/ha1tch/gesture-lock/pkg/lock"
)

// log is the command's own logger.
var log = slog.Disabled

// closeLogFile closes the file opened by the last setupLogging call.
var closeLogFile = func() {}

// setupLogging routes the subsystem loggers to cfg.LogFile, or to fallback
// when no file is configured. The returned function closes the file.
func setupLogging(cfg Config, fallback io.Writer) (func(), error) {
	level, ok := slog.LevelFromString(cfg.LogLevel)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	w := fallback
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		var once sync.Once
		closeFn = func() { once.Do(func() { f.Close() }) }
	}
	closeLogFile = closeFn

	backend := slog.NewBackend(w)

	lockLog := backend.Logger("LOCK")
	lockLog.SetLevel(level)
	lock.UseLogger(lockLog)

	log = backend.Logger("MAIN")
	log.SetLevel(level)

	return closeFn, nil
}

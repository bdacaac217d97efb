// The scraper worker runs one scrape job end to end. It is spawned by the
// dashboard API's lifecycle manager but can equally be run by hand.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/phuslu/log"

	"github.com/octobees/contact-harvester/internal/config"
	"github.com/octobees/contact-harvester/internal/lifecycle"
	"github.com/octobees/contact-harvester/internal/scraper"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return 1
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Error().Err(err).Msg("failed to create data directory")
		return 1
	}

	logger, closeLog, err := newRunLogger(cfg.LogPath())
	if err != nil {
		log.Error().Err(err).Msg("failed to open run log")
		return 1
	}
	defer closeLog()

	runLock, err := lifecycle.AcquireRunLock(cfg.LockPath())
	if err != nil {
		if errors.Is(err, lifecycle.ErrAlreadyRunning) {
			logger.Warn().Msg("another worker is already running")
			return 0
		}
		logger.Error().Err(err).Msg("failed to acquire run lock")
		return 1
	}
	defer runLock.Release()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := scraper.New(cfg, logger)
	if err := engine.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("scrape run failed")
		return 1
	}
	logger.Info().Msg("job completed")
	return 0
}

// newRunLogger writes to the console and to a fresh append-only run log that
// the dashboard tails.
func newRunLogger(path string) (log.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return log.Logger{}, nil, err
	}
	logger := log.Logger{
		Level: log.InfoLevel,
		Writer: &log.MultiEntryWriter{
			&log.ConsoleWriter{ColorOutput: true, Writer: os.Stderr},
			&log.IOWriter{Writer: f},
		},
	}
	return logger, func() { f.Close() }, nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yandex/profdiff/profdiff/pkg/maxprocs"
	"github.com/yandex/profdiff/profdiff/pkg/xlog"
)

////////////////////////////////////////////////////////////////////////////////

type App struct {
	config   *Config
	logger   xlog.Logger
	shutdown func()
	context  context.Context
	cancel   func()
}

func New(config *Config) (*App, error) {
	config.fillDefault()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	level, err := zapcore.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	logger, err := NewLogger(level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	undo := maxprocs.Adjust(logger)
	shutdown := func() {
		undo()
		_ = logger.Logger().Sync()
	}

	logger.Debug(ctx, "Initialized CLI",
		zap.String("log_level", config.LogLevel),
		zap.Int("jobs", config.Jobs),
	)
	return &App{config, logger, shutdown, ctx, cancel}, nil
}

////////////////////////////////////////////////////////////////////////////////

func (a *App) Shutdown() {
	a.cancel()
	a.shutdown()
}

func (a *App) Config() *Config {
	return a.config
}

func (a *App) Logger() xlog.Logger {
	return a.logger
}

func (a *App) Context() context.Context {
	return a.context
}

////////////////////////////////////////////////////////////////////////////////

package app

import (
	"io"
	"log/slog"

	"github.com/vmelnyk/planweave/internal/engine"
	"github.com/vmelnyk/planweave/internal/hclplan"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader *hclplan.Loader
	engine *engine.Engine
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and a fresh
// scheduling engine.
func NewApp(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: config,
		loader: hclplan.NewLoader(),
		engine: engine.New(config.clock()),
	}
}

// Engine returns the application's scheduling engine. This is primarily for
// testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

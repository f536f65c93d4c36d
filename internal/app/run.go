package app

import (
	"context"
	"fmt"

	"github.com/vmelnyk/planweave/internal/ctxlog"
	"github.com/vmelnyk/planweave/internal/report"
)

// Run executes the main application logic: load the plan into the engine,
// then render the resulting schedule snapshot.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	warnings, err := a.loader.Load(ctx, a.engine, a.config.PlanPath)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	a.logger.Debug("Plan loaded into engine.", "activities", len(a.engine.Schedule()))

	report.WriteWarnings(a.outW, warnings)

	rows := a.engine.Schedule()
	if len(rows) == 0 {
		a.logger.Warn("No activities found in plan, nothing to schedule.")
		return nil
	}

	if err := report.Write(a.outW, rows, a.engine.ProjectDuration(), a.engine.CriticalPath()); err != nil {
		return fmt.Errorf("failed to render schedule: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

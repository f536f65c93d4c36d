package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vmelnyk/planweave/internal/engine"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PlanPath string // hcl plan file or directory

	// ProjectStart is the default start instant assigned to activities the
	// plan does not date, in engine.StartLayout. Empty means "now".
	ProjectStart string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}

	if cfg.ProjectStart != "" {
		if _, err := time.Parse(engine.StartLayout, cfg.ProjectStart); err != nil {
			return nil, fmt.Errorf("invalid project-start %q: expected format %q", cfg.ProjectStart, engine.StartLayout)
		}
	}

	return &cfg, nil
}

// clock returns the time source used for new activities: a fixed instant when
// ProjectStart is configured, the wall clock otherwise.
func (c *Config) clock() func() time.Time {
	if c.ProjectStart == "" {
		return time.Now
	}
	start, _ := time.Parse(engine.StartLayout, c.ProjectStart) // validated by NewConfig
	return func() time.Time { return start }
}

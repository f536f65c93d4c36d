// Package activity defines the Activity entity and the Store that owns the
// authoritative activity set. The store hands out identity, holds raw fields,
// and leaves every derived field (successors, CPM offsets) to the recompute
// pipeline that runs on top of it.
package activity

import "time"

// Activity is a single schedulable unit of work.
//
// Predecessors holds the raw dependency ids as validated by the engine
// boundary; Successors is derived by the resolver and must never be edited
// directly. EarlyStart through LateFinish are day offsets from project start,
// overwritten wholesale on every successful CPM pass.
type Activity struct {
	ID           string
	Name         string
	Predecessors []string
	Successors   []string
	Duration     int // whole days, never negative
	Start        time.Time

	EarlyStart  int
	EarlyFinish int
	LateStart   int
	LateFinish  int
}

// End returns the derived finish instant: Start plus Duration days.
func (a *Activity) End() time.Time {
	return a.Start.AddDate(0, 0, a.Duration)
}

// Slack returns the scheduling slack in days. Zero slack marks the
// critical path.
func (a *Activity) Slack() int {
	return a.LateStart - a.EarlyStart
}

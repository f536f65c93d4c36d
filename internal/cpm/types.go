package cpm

import "fmt"

// Node is the calculator's snapshot of a single activity: everything the
// forward and backward passes need, detached from the live store.
type Node struct {
	ID           string
	Duration     int
	Predecessors []string
	Successors   []string
}

// Times holds the four schedule offsets for one activity, in whole days from
// project start.
type Times struct {
	EarlyStart  int
	EarlyFinish int
	LateStart   int
	LateFinish  int
}

// Slack returns the scheduling slack in days.
func (t Times) Slack() int { return t.LateStart - t.EarlyStart }

// Result is the complete outcome of one CPM pass.
type Result struct {
	// Times has an entry for every analyzed activity.
	Times map[string]Times

	// Order is the topological order the passes ran in: predecessors
	// always before their dependents.
	Order []string

	// ProjectDuration is the schedule horizon: the maximum early finish
	// across all activities, 0 for an empty set.
	ProjectDuration int

	// CriticalPath lists the zero-slack activities in topological order.
	CriticalPath []string
}

// CycleError reports that the dependency graph is not acyclic. It names one
// activity participating in the cycle.
type CycleError struct {
	ActivityID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected involving activity %q", e.ActivityID)
}

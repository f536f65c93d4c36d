package engine

import (
	"fmt"
	"time"
)

// Field names an editable activity field at the apply-edit boundary.
type Field string

const (
	FieldName         Field = "name"
	FieldPredecessors Field = "predecessors"
	FieldDuration     Field = "duration"
	FieldStart        Field = "start"
)

// WarningKind classifies a non-fatal condition raised during a recompute.
type WarningKind string

const (
	// WarnParse marks malformed duration or date text that was recovered
	// with a defined default.
	WarnParse WarningKind = "parse"

	// WarnDanglingReference marks a predecessor id that names no activity
	// currently in the store. It is informational: the reference is
	// treated as absent everywhere in the engine.
	WarnDanglingReference WarningKind = "dangling_reference"
)

// Warning is a recoverable condition surfaced to the host. Warnings never
// block a recompute.
type Warning struct {
	Kind       WarningKind
	ActivityID string
	Detail     string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: activity %s: %s", w.Kind, w.ActivityID, w.Detail)
}

// Row is one activity in a schedule snapshot, fully derived and read-only.
type Row struct {
	ID           string
	Name         string
	Start        time.Time
	End          time.Time
	Duration     int
	EarlyStart   int
	EarlyFinish  int
	LateStart    int
	LateFinish   int
	Slack        int
	Predecessors []string
	Successors   []string
}

// Critical reports whether the row sits on the critical path.
func (r Row) Critical() bool { return r.Slack == 0 }

// RecomputeResult is the outcome of a successful mutation: the complete
// post-edit schedule snapshot plus any recoverable conditions met on the way.
type RecomputeResult struct {
	Schedule        []Row
	ProjectDuration int
	CriticalPath    []string
	Warnings        []Warning
}

// Package resolver derives successor relationships from the raw predecessor
// fields of the activity set. It is the single source of truth for the
// successor relation: both the schedule propagator and the critical path
// calculator consume its output, never a private re-derivation.
package resolver

import (
	"context"

	"github.com/vmelnyk/planweave/internal/activity"
	"github.com/vmelnyk/planweave/internal/ctxlog"
)

// Dangling records a predecessor reference that names no activity currently
// in the store. Dangling references are informational, never errors.
type Dangling struct {
	ActivityID    string // the activity whose predecessor list holds the reference
	PredecessorID string // the id that resolved to nothing
}

// Result is the output of one resolution pass.
type Result struct {
	// Successors maps every activity id to the ids that name it as a
	// predecessor, in id order. Every activity in the input has an entry,
	// possibly nil.
	Successors map[string][]string

	// Dangling lists the predecessor references that were skipped because
	// their target is not in the store.
	Dangling []Dangling
}

// Resolve computes the successor set for every activity from the current
// predecessor fields. It is a pure function of its input: deterministic,
// idempotent, and tolerant of unresolved ids (no edge is produced for them).
//
// Self-references pass through unchanged. They form a cycle and belong to the
// calculator's cycle detection, not to silent filtering here.
func Resolve(ctx context.Context, acts []*activity.Activity) *Result {
	logger := ctxlog.FromContext(ctx)

	present := make(map[string]struct{}, len(acts))
	for _, a := range acts {
		present[a.ID] = struct{}{}
	}

	result := &Result{Successors: make(map[string][]string, len(acts))}
	for _, a := range acts {
		result.Successors[a.ID] = nil
	}

	for _, a := range acts {
		for _, pred := range a.Predecessors {
			if _, ok := present[pred]; !ok {
				result.Dangling = append(result.Dangling, Dangling{
					ActivityID:    a.ID,
					PredecessorID: pred,
				})
				continue
			}
			result.Successors[pred] = append(result.Successors[pred], a.ID)
		}
	}

	for id := range result.Successors {
		activity.SortIDs(result.Successors[id])
	}

	if len(result.Dangling) > 0 {
		logger.Debug("Resolver skipped dangling predecessor references.", "count", len(result.Dangling))
	}
	return result
}

// Apply writes the resolved successor sets back onto the activities. The
// write is total: every activity's Successors field is replaced, so a stale
// set can never survive a resolution pass.
func (r *Result) Apply(acts []*activity.Activity) {
	for _, a := range acts {
		a.Successors = r.Successors[a.ID]
	}
}

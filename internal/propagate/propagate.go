// Package propagate pushes minimum-start constraints forward through the
// successor graph after a date or duration change. Starts are only ever
// raised, never lowered: an activity already satisfying every predecessor
// constraint is left untouched.
package propagate

import (
	"context"
	"errors"
	"time"

	"github.com/vmelnyk/planweave/internal/activity"
	"github.com/vmelnyk/planweave/internal/ctxlog"
)

// ErrNonConvergence reports that propagation exceeded its iteration bound
// before reaching a fixed point. It is a cycle symptom: a well-formed acyclic
// graph always converges well inside the bound.
var ErrNonConvergence = errors.New("schedule propagation did not converge")

// Propagate reconciles start dates from the given seed activities to a fixed
// point. A seed is an activity whose predecessor constraints may have changed
// (after a predecessor edit, seed the activity itself; after a duration or
// start edit, seed the activity's successors).
//
// For each worklist entry, the required minimum start is the latest end among
// its predecessors present in the store; dangling references are skipped. An
// activity whose start is below that minimum is raised to it and its own
// successors are enqueued.
//
// Raised dates are staged and committed only once the fixed point is reached,
// so a non-converging run leaves every previously valid date untouched and
// returns ErrNonConvergence instead of crashing.
func Propagate(ctx context.Context, store *activity.Store, successors map[string][]string, seeds ...string) error {
	logger := ctxlog.FromContext(ctx)

	n := store.Len()
	if n == 0 || len(seeds) == 0 {
		return nil
	}
	// One relaxation per edge is enough for any DAG; the quadratic headroom
	// keeps legitimate dense graphs clear of the bound while still tripping
	// on cyclic chains that raise dates forever.
	bound := n*n + n

	staged := make(map[string]time.Time)
	startOf := func(a *activity.Activity) time.Time {
		if t, ok := staged[a.ID]; ok {
			return t
		}
		return a.Start
	}
	endOf := func(a *activity.Activity) time.Time {
		return startOf(a).AddDate(0, 0, a.Duration)
	}

	queue := make([]string, 0, len(seeds))
	queue = append(queue, seeds...)

	steps := 0
	for len(queue) > 0 {
		steps++
		if steps > bound {
			logger.Warn("Propagation exceeded its iteration bound.", "bound", bound)
			return ErrNonConvergence
		}

		id := queue[0]
		queue = queue[1:]

		a, ok := store.Get(id)
		if !ok {
			continue
		}

		var minStart time.Time
		for _, predID := range a.Predecessors {
			pred, ok := store.Get(predID)
			if !ok {
				continue // dangling reference, no constraint
			}
			if end := endOf(pred); end.After(minStart) {
				minStart = end
			}
		}

		if minStart.After(startOf(a)) {
			staged[a.ID] = minStart
			queue = append(queue, successors[a.ID]...)
		}
	}

	for id, t := range staged {
		if a, ok := store.Get(id); ok {
			a.Start = t
		}
	}
	if len(staged) > 0 {
		logger.Debug("Propagation reconciled start dates.", "raised", len(staged), "steps", steps)
	}
	return nil
}

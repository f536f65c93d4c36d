// Package engine is the scheduling engine's host-facing facade. It owns the
// activity store, performs all parsing and validation of raw edit text at its
// boundary, and runs the recompute pipeline — dependency resolution, date
// propagation, critical path analysis — synchronously on every mutation.
//
// The engine does no locking. Its host must guarantee single-writer access
// and must not re-enter the engine from within a recompute. Any read of the
// schedule observes either the pre-edit snapshot or the fully recomputed
// post-edit snapshot, never an interleaving.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmelnyk/planweave/internal/activity"
	"github.com/vmelnyk/planweave/internal/cpm"
	"github.com/vmelnyk/planweave/internal/ctxlog"
	"github.com/vmelnyk/planweave/internal/propagate"
	"github.com/vmelnyk/planweave/internal/resolver"
)

// ErrNotFound reports an operation against an id not present in the store.
var ErrNotFound = errors.New("activity not found")

// ErrUnknownField reports an ApplyEdit call with a field outside the
// editable set.
var ErrUnknownField = errors.New("unknown field")

// Engine ties the store and the recompute pipeline together.
type Engine struct {
	store *activity.Store

	// successors is the latest resolver output, threaded into both the
	// propagator and the calculator so the relation is derived exactly
	// once per recompute cycle.
	successors map[string][]string

	projectDuration int
	criticalPath    []string
}

// New creates an engine with an empty activity store. A nil clock defaults
// to time.Now.
func New(clock func() time.Time) *Engine {
	return &Engine{
		store:      activity.NewStore(clock),
		successors: make(map[string][]string),
	}
}

// AddActivity appends a new activity with lifecycle defaults and returns its
// id. Adding refreshes successors and the CPM metrics; a fresh activity has
// no dependencies, so the pass cannot fail on its account, but a pre-existing
// structural failure still surfaces.
func (e *Engine) AddActivity(ctx context.Context) (string, error) {
	a := e.store.Add()
	ctxlog.FromContext(ctx).Debug("Activity added.", "id", a.ID)

	e.resolve(ctx)
	if err := e.analyze(ctx); err != nil {
		return a.ID, err
	}
	return a.ID, nil
}

// RemoveActivity deletes the activity with the given id. References to it
// held by other activities become dangling and are ignored on the next
// recompute.
func (e *Engine) RemoveActivity(ctx context.Context, id string) error {
	if !e.store.Remove(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	ctxlog.FromContext(ctx).Debug("Activity removed.", "id", id)

	e.resolve(ctx)
	return e.analyze(ctx)
}

// ApplyEdit parses raw field text, mutates the named activity, and runs the
// minimal recompute subset for the field. On success it returns the complete
// post-edit snapshot plus any recoverable warnings; on a structural failure
// (cycle, non-convergence) it returns the error and leaves the previously
// published schedule metrics untouched.
func (e *Engine) ApplyEdit(ctx context.Context, id string, field Field, raw string) (*RecomputeResult, error) {
	a, ok := e.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Applying edit.", "id", id, "field", string(field))

	var warnings []Warning

	switch field {
	case FieldName:
		a.Name = raw
		// A label change has no scheduling consequence.
		return e.result(warnings), nil

	case FieldDuration:
		d, ok := parseDuration(raw)
		if !ok {
			warnings = append(warnings, Warning{
				Kind:       WarnParse,
				ActivityID: id,
				Detail:     fmt.Sprintf("invalid duration %q, defaulting to 0", raw),
			})
		}
		a.Duration = d
		warnings = append(warnings, e.resolve(ctx)...)

	case FieldPredecessors:
		a.Predecessors = parsePredecessors(raw)
		warnings = append(warnings, e.resolve(ctx)...)

	case FieldStart:
		t, ok := parseStart(raw)
		if !ok {
			warnings = append(warnings, Warning{
				Kind:       WarnParse,
				ActivityID: id,
				Detail:     fmt.Sprintf("invalid start %q, keeping previous value", raw),
			})
		} else {
			a.Start = t
		}
		// Start edits keep the dependency shape; the successor relation
		// from the last resolution stays valid.

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}

	// Reconcile the edited activity against its own predecessors and push
	// its (possibly changed) end through the successor graph.
	seeds := append([]string{id}, e.successors[id]...)
	propErr := propagate.Propagate(ctx, e.store, e.successors, seeds...)

	if err := e.analyze(ctx); err != nil {
		// CycleDetected is the richer diagnosis; non-convergence is its
		// symptom, so the cycle error wins when both occur.
		return nil, err
	}
	if propErr != nil {
		return nil, propErr
	}
	return e.result(warnings), nil
}

// Schedule returns the current schedule snapshot in id order.
func (e *Engine) Schedule() []Row {
	acts := e.store.All()
	rows := make([]Row, 0, len(acts))
	for _, a := range acts {
		rows = append(rows, Row{
			ID:           a.ID,
			Name:         a.Name,
			Start:        a.Start,
			End:          a.End(),
			Duration:     a.Duration,
			EarlyStart:   a.EarlyStart,
			EarlyFinish:  a.EarlyFinish,
			LateStart:    a.LateStart,
			LateFinish:   a.LateFinish,
			Slack:        a.Slack(),
			Predecessors: append([]string(nil), a.Predecessors...),
			Successors:   append([]string(nil), a.Successors...),
		})
	}
	return rows
}

// ProjectDuration returns the published schedule horizon in days.
func (e *Engine) ProjectDuration() int { return e.projectDuration }

// CriticalPath returns the published zero-slack activities in topological order.
func (e *Engine) CriticalPath() []string {
	return append([]string(nil), e.criticalPath...)
}

// resolve refreshes the successor relation from the current predecessor
// fields and writes it back onto the activities. Dangling references come
// back as warnings.
func (e *Engine) resolve(ctx context.Context) []Warning {
	acts := e.store.All()
	res := resolver.Resolve(ctx, acts)
	res.Apply(acts)
	e.successors = res.Successors

	warnings := make([]Warning, 0, len(res.Dangling))
	for _, d := range res.Dangling {
		warnings = append(warnings, Warning{
			Kind:       WarnDanglingReference,
			ActivityID: d.ActivityID,
			Detail:     fmt.Sprintf("predecessor %q does not exist, treated as absent", d.PredecessorID),
		})
	}
	return warnings
}

// analyze runs one CPM pass and publishes its result. Publication is all or
// nothing: on a CycleError no activity's ES/EF/LS/LF changes and the previous
// project duration and critical path stay in place.
func (e *Engine) analyze(ctx context.Context) error {
	acts := e.store.All()
	nodes := make([]*cpm.Node, 0, len(acts))
	for _, a := range acts {
		nodes = append(nodes, &cpm.Node{
			ID:           a.ID,
			Duration:     a.Duration,
			Predecessors: a.Predecessors,
			Successors:   a.Successors,
		})
	}

	res, err := cpm.Analyze(ctx, nodes)
	if err != nil {
		return err
	}

	for _, a := range acts {
		t := res.Times[a.ID]
		a.EarlyStart = t.EarlyStart
		a.EarlyFinish = t.EarlyFinish
		a.LateStart = t.LateStart
		a.LateFinish = t.LateFinish
	}
	e.projectDuration = res.ProjectDuration
	e.criticalPath = res.CriticalPath
	return nil
}

func (e *Engine) result(warnings []Warning) *RecomputeResult {
	return &RecomputeResult{
		Schedule:        e.Schedule(),
		ProjectDuration: e.projectDuration,
		CriticalPath:    e.CriticalPath(),
		Warnings:        warnings,
	}
}

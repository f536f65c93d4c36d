// Package cpm implements the Critical Path Method: a topological ordering
// with cycle detection followed by forward and backward passes that compute
// early/late start and finish offsets for every activity.
//
// A pass is atomic from the caller's perspective. Analyze either returns a
// complete Result for the whole activity set or a *CycleError and no result,
// so the caller can keep its previously published schedule intact.
package cpm

import (
	"context"

	"github.com/vmelnyk/planweave/internal/activity"
	"github.com/vmelnyk/planweave/internal/ctxlog"
)

// markState is the three-state coloring used by the topological sort.
type markState int

const (
	unvisited markState = iota
	visiting
	done
)

// Analyze runs one full CPM pass over the given nodes. Edges referencing ids
// outside the node set are ignored; they are dangling references, not errors.
// Identical graph shape and durations always yield an identical Result,
// independent of input order.
func Analyze(ctx context.Context, nodes []*Node) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	byID := make(map[string]*Node, len(nodes))
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
		ids = append(ids, n.ID)
	}
	activity.SortIDs(ids)

	order, err := topoSort(ids, byID)
	if err != nil {
		return nil, err
	}

	result := &Result{Times: make(map[string]Times, len(nodes)), Order: order}

	// Forward pass: ES = max EF over present predecessors, EF = ES + duration.
	for _, id := range order {
		n := byID[id]
		es := 0
		for _, predID := range n.Predecessors {
			if _, ok := byID[predID]; !ok {
				continue
			}
			if ef := result.Times[predID].EarlyFinish; ef > es {
				es = ef
			}
		}
		result.Times[id] = Times{EarlyStart: es, EarlyFinish: es + n.Duration}
	}

	for _, t := range result.Times {
		if t.EarlyFinish > result.ProjectDuration {
			result.ProjectDuration = t.EarlyFinish
		}
	}

	// Backward pass in reverse topological order: sinks close the project
	// horizon, everything else takes the minimum late start of its
	// successors. All disconnected components share the single horizon.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		n := byID[id]

		lf := result.ProjectDuration
		for _, succID := range n.Successors {
			if _, ok := byID[succID]; !ok {
				continue
			}
			if ls := result.Times[succID].LateStart; ls < lf {
				lf = ls
			}
		}

		t := result.Times[id]
		t.LateFinish = lf
		t.LateStart = lf - n.Duration
		result.Times[id] = t
	}

	for _, id := range order {
		if result.Times[id].Slack() == 0 {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	logger.Debug("CPM pass complete.",
		"activities", len(nodes),
		"project_duration", result.ProjectDuration,
		"critical", len(result.CriticalPath))
	return result, nil
}

// topoSort orders the ids by depth-first traversal over the predecessor
// relation with three-state marking. Revisiting an in-progress node means the
// graph has a cycle; the traversal returns a *CycleError naming that node
// instead of unwinding through a panic.
func topoSort(ids []string, byID map[string]*Node) ([]string, error) {
	marks := make(map[string]markState, len(ids))
	order := make([]string, 0, len(ids))

	var visit func(id string) error
	visit = func(id string) error {
		switch marks[id] {
		case done:
			return nil
		case visiting:
			return &CycleError{ActivityID: id}
		}
		marks[id] = visiting

		n := byID[id]
		for _, predID := range n.Predecessors {
			if _, ok := byID[predID]; !ok {
				continue // dangling reference contributes no edge
			}
			if err := visit(predID); err != nil {
				return err
			}
		}

		marks[id] = done
		order = append(order, id)
		return nil
	}

	for _, id := range ids {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return order, nil
}

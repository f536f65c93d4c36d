package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmelnyk/planweave/internal/cpm"
	"github.com/vmelnyk/planweave/internal/propagate"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(func() time.Time { return base })
}

// addN adds n activities and returns their ids.
func addN(t *testing.T, e *Engine, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := e.AddActivity(context.Background())
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func edit(t *testing.T, e *Engine, id string, field Field, raw string) *RecomputeResult {
	t.Helper()
	res, err := e.ApplyEdit(context.Background(), id, field, raw)
	require.NoError(t, err)
	return res
}

func row(t *testing.T, rows []Row, id string) Row {
	t.Helper()
	for _, r := range rows {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("no row with id %s", id)
	return Row{}
}

func TestAddActivityDefaults(t *testing.T) {
	e := newTestEngine(t)
	id, err := e.AddActivity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	rows := e.Schedule()
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, "Activity 1", r.Name)
	assert.Equal(t, 1, r.Duration)
	assert.Equal(t, base, r.Start)
	assert.Equal(t, base.AddDate(0, 0, 1), r.End)
	assert.Empty(t, r.Predecessors)
	assert.Empty(t, r.Successors)
	assert.Equal(t, 1, e.ProjectDuration())
}

func TestApplyEditUnknownActivity(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.ApplyEdit(context.Background(), "7", FieldName, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyEditUnknownField(t *testing.T) {
	e := newTestEngine(t)
	addN(t, e, 1)
	_, err := e.ApplyEdit(context.Background(), "1", Field("color"), "red")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestRemoveActivity(t *testing.T) {
	e := newTestEngine(t)
	ids := addN(t, e, 2)
	edit(t, e, ids[1], FieldPredecessors, ids[0])

	require.NoError(t, e.RemoveActivity(context.Background(), ids[0]))

	rows := e.Schedule()
	require.Len(t, rows, 1)
	// The survivor still names the removed id; the reference is dangling
	// and ignored, never an error.
	assert.Equal(t, []string{ids[0]}, rows[0].Predecessors)
	assert.Equal(t, 0, rows[0].EarlyStart)

	assert.ErrorIs(t, e.RemoveActivity(context.Background(), "42"), ErrNotFound)
}

func TestNameEdit(t *testing.T) {
	e := newTestEngine(t)
	ids := addN(t, e, 1)

	res := edit(t, e, ids[0], FieldName, "Pour foundation")
	assert.Equal(t, "Pour foundation", res.Schedule[0].Name)
	assert.Empty(t, res.Warnings)
}

func TestDurationParseFailure(t *testing.T) {
	e := newTestEngine(t)
	ids := addN(t, e, 1)

	t.Run("malformed text defaults to zero", func(t *testing.T) {
		res := edit(t, e, ids[0], FieldDuration, "soon")
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, WarnParse, res.Warnings[0].Kind)
		assert.Equal(t, 0, res.Schedule[0].Duration)
	})

	t.Run("negative counts as malformed", func(t *testing.T) {
		res := edit(t, e, ids[0], FieldDuration, "-4")
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, WarnParse, res.Warnings[0].Kind)
		assert.Equal(t, 0, res.Schedule[0].Duration)
	})

	t.Run("valid text sticks", func(t *testing.T) {
		res := edit(t, e, ids[0], FieldDuration, " 6 ")
		assert.Empty(t, res.Warnings)
		assert.Equal(t, 6, res.Schedule[0].Duration)
	})
}

func TestStartParseFailureKeepsPrevious(t *testing.T) {
	e := newTestEngine(t)
	ids := addN(t, e, 1)

	res := edit(t, e, ids[0], FieldStart, "next tuesday")
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarnParse, res.Warnings[0].Kind)
	assert.Equal(t, base, res.Schedule[0].Start, "start is left unchanged on parse failure")

	res = edit(t, e, ids[0], FieldStart, "2026-04-01 08:30")
	assert.Empty(t, res.Warnings)
	assert.Equal(t, time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC), res.Schedule[0].Start)
}

func TestPredecessorTokenParsing(t *testing.T) {
	e := newTestEngine(t)
	ids := addN(t, e, 2)

	res := edit(t, e, ids[1], FieldPredecessors, " 1 ; ;; ")
	assert.Equal(t, []string{"1"}, row(t, res.Schedule, ids[1]).Predecessors,
		"empty tokens are discarded")
	assert.Equal(t, []string{"2"}, row(t, res.Schedule, ids[0]).Successors)
}

// TestThreeActivitySchedule walks the canonical fork: A feeds B and C.
func TestThreeActivitySchedule(t *testing.T) {
	e := newTestEngine(t)
	ids := addN(t, e, 3)
	a, b, c := ids[0], ids[1], ids[2]

	edit(t, e, a, FieldDuration, "3")
	edit(t, e, b, FieldDuration, "2")
	edit(t, e, c, FieldDuration, "4")
	edit(t, e, b, FieldPredecessors, a)
	res := edit(t, e, c, FieldPredecessors, a)

	ra := row(t, res.Schedule, a)
	rb := row(t, res.Schedule, b)
	rc := row(t, res.Schedule, c)

	assert.Equal(t, 0, ra.EarlyStart)
	assert.Equal(t, 3, ra.EarlyFinish)
	assert.Equal(t, 3, rb.EarlyStart)
	assert.Equal(t, 5, rb.EarlyFinish)
	assert.Equal(t, 3, rc.EarlyStart)
	assert.Equal(t, 7, rc.EarlyFinish)
	assert.Equal(t, 7, res.ProjectDuration)

	assert.Equal(t, 7, rc.LateFinish)
	assert.Equal(t, 3, rc.LateStart)
	assert.Equal(t, 7, rb.LateFinish)
	assert.Equal(t, 5, rb.LateStart)
	assert.Equal(t, 3, ra.LateFinish, "A's late finish is min(5, 3)")
	assert.Equal(t, 0, ra.LateStart)

	assert.Equal(t, []string{a, c}, res.CriticalPath)
	assert.True(t, ra.Critical())
	assert.False(t, rb.Critical())

	// Dates follow the dependency: B and C cannot start before A ends.
	assert.Equal(t, base.AddDate(0, 0, 3), rb.Start)
	assert.Equal(t, base.AddDate(0, 0, 3), rc.Start)
}

// TestSelfReferenceReturnsCycleDetected covers the edit that makes an
// activity its own predecessor.
func TestSelfReferenceReturnsCycleDetected(t *testing.T) {
	e := newTestEngine(t)
	ids := addN(t, e, 2)
	edit(t, e, ids[0], FieldDuration, "3")
	before := e.Schedule()

	_, err := e.ApplyEdit(context.Background(), ids[0], FieldPredecessors, ids[0])
	var cycleErr *cpm.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, ids[0], cycleErr.ActivityID)

	// The previously published metrics survive the aborted pass.
	after := e.Schedule()
	for i := range before {
		assert.Equal(t, before[i].EarlyStart, after[i].EarlyStart)
		assert.Equal(t, before[i].EarlyFinish, after[i].EarlyFinish)
		assert.Equal(t, before[i].LateStart, after[i].LateStart)
		assert.Equal(t, before[i].LateFinish, after[i].LateFinish)
		assert.Equal(t, before[i].Start, after[i].Start)
	}
}

func TestTwoNodeCycleReturnsCycleDetected(t *testing.T) {
	e := newTestEngine(t)
	ids := addN(t, e, 2)
	edit(t, e, ids[1], FieldPredecessors, ids[0])
	before := e.ProjectDuration()

	_, err := e.ApplyEdit(context.Background(), ids[0], FieldPredecessors, ids[1])
	var cycleErr *cpm.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, before, e.ProjectDuration())
}

// TestDanglingPredecessor covers references to ids that never existed.
func TestDanglingPredecessor(t *testing.T) {
	e := newTestEngine(t)
	ids := addN(t, e, 1)

	res := edit(t, e, ids[0], FieldPredecessors, "99")
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarnDanglingReference, res.Warnings[0].Kind)
	assert.Contains(t, res.Warnings[0].Detail, `"99"`)

	r := row(t, res.Schedule, ids[0])
	assert.Equal(t, 0, r.EarlyStart, "a dangling predecessor imposes no constraint")
	assert.Equal(t, []string{"99"}, r.Predecessors, "the raw reference is kept, not erased")
}

// TestStartMovePropagates covers the transitive date push: moving P's start
// so its end passes S's start raises S and S's own successors.
func TestStartMovePropagates(t *testing.T) {
	e := newTestEngine(t)
	ids := addN(t, e, 3)
	p, s, u := ids[0], ids[1], ids[2]

	edit(t, e, p, FieldDuration, "2")
	edit(t, e, s, FieldDuration, "2")
	edit(t, e, s, FieldPredecessors, p)
	edit(t, e, u, FieldPredecessors, s)

	// Baseline: the chain is packed back to back.
	res := e.Schedule()
	assert.Equal(t, base.AddDate(0, 0, 2), row(t, res, s).Start)
	assert.Equal(t, base.AddDate(0, 0, 4), row(t, res, u).Start)

	// Move P ten days out; both dependents shift by the same delta.
	moved := base.AddDate(0, 0, 10)
	result := edit(t, e, p, FieldStart, moved.Format(StartLayout))

	rp := row(t, result.Schedule, p)
	rs := row(t, result.Schedule, s)
	ru := row(t, result.Schedule, u)
	assert.Equal(t, moved, rp.Start)
	assert.Equal(t, moved.AddDate(0, 0, 2), rs.Start, "S's start is raised to P's new end")
	assert.Equal(t, rs.End, ru.Start, "the raise cascades to S's successors")
}

func TestScheduleIdempotent(t *testing.T) {
	e := newTestEngine(t)
	ids := addN(t, e, 3)
	edit(t, e, ids[1], FieldPredecessors, ids[0])
	edit(t, e, ids[2], FieldPredecessors, ids[1])

	first := e.Schedule()
	second := e.Schedule()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("reads without edits disagreed (-first +second):\n%s", diff)
	}

	// A no-op edit recomputes everything and must land on the same values.
	res := edit(t, e, ids[1], FieldPredecessors, ids[0])
	if diff := cmp.Diff(first, res.Schedule); diff != "" {
		t.Fatalf("recompute on unchanged input differed (-before +after):\n%s", diff)
	}
}

func TestScheduleOrderedByID(t *testing.T) {
	e := newTestEngine(t)
	addN(t, e, 11)

	rows := e.Schedule()
	require.Len(t, rows, 11)
	assert.Equal(t, "2", rows[1].ID)
	assert.Equal(t, "10", rows[9].ID, "numeric id order, not lexicographic")
}

func TestStructuralFailuresAreDistinguishable(t *testing.T) {
	// When the propagator and the calculator trip on the same shape, the
	// engine reports the richer cycle diagnosis, not the symptom.
	e := newTestEngine(t)
	ids := addN(t, e, 1)

	_, err := e.ApplyEdit(context.Background(), ids[0], FieldPredecessors, ids[0])
	require.Error(t, err)

	var cycleErr *cpm.CycleError
	assert.ErrorAs(t, err, &cycleErr)
	assert.NotErrorIs(t, err, propagate.ErrNonConvergence)
}

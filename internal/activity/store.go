package activity

import (
	"sort"
	"strconv"
	"time"
)

// Store holds the authoritative set of activities and assigns their ids.
//
// Ids are monotonically increasing numeric strings and are never reused
// within a session, so a reference to a removed activity stays dangling
// instead of silently pointing at a newcomer.
//
// The store performs no locking: the engine contract is single-writer access
// enforced by the host (a UI event loop or equivalent control thread).
type Store struct {
	activities map[string]*Activity
	nextID     int
	clock      func() time.Time
}

// NewStore creates an empty store. A nil clock defaults to time.Now; tests
// inject a fixed clock to pin creation times.
func NewStore(clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		activities: make(map[string]*Activity),
		nextID:     1,
		clock:      clock,
	}
}

// Add creates a new activity with lifecycle defaults: empty predecessors,
// duration 1, start at the current clock instant.
func (s *Store) Add() *Activity {
	id := strconv.Itoa(s.nextID)
	s.nextID++

	a := &Activity{
		ID:       id,
		Name:     "Activity " + id,
		Duration: 1,
		Start:    s.clock(),
	}
	s.activities[id] = a
	return a
}

// Remove deletes the activity with the given id. It reports whether the id
// was present. References held by other activities become dangling and are
// ignored on the next recompute.
func (s *Store) Remove(id string) bool {
	if _, ok := s.activities[id]; !ok {
		return false
	}
	delete(s.activities, id)
	return true
}

// Get returns the activity with the given id.
func (s *Store) Get(id string) (*Activity, bool) {
	a, ok := s.activities[id]
	return a, ok
}

// Contains reports whether an activity with the given id is present.
func (s *Store) Contains(id string) bool {
	_, ok := s.activities[id]
	return ok
}

// Len returns the number of activities currently in the store.
func (s *Store) Len() int {
	return len(s.activities)
}

// All returns every activity ordered by id. Ids are numeric, so the order is
// creation order and stable across calls.
func (s *Store) All() []*Activity {
	out := make([]*Activity, 0, len(s.activities))
	for _, a := range s.activities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessID(out[i].ID, out[j].ID)
	})
	return out
}

// SortIDs orders a slice of activity ids in place using the same numeric
// order as All.
func SortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return lessID(ids[i], ids[j]) })
}

func lessID(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	// Non-numeric ids cannot come from this store, but keep the order total.
	return a < b
}

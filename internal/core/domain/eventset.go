package domain

import (
	"encoding/json"
	"sort"
)

// EventSet is an unordered collection of attended-event identifiers.
// The zero value is not usable; construct with NewEventSet.
type EventSet map[int]struct{}

// NewEventSet returns a set containing the given identifiers.
func NewEventSet(ids ...int) EventSet {
	s := make(EventSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set. Adding a present id is a no-op.
func (s EventSet) Add(id int) {
	s[id] = struct{}{}
}

// Remove deletes id from the set. Removing an absent id is a no-op.
func (s EventSet) Remove(id int) {
	delete(s, id)
}

// Contains reports whether id is in the set.
func (s EventSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// Values returns the identifiers in ascending order.
func (s EventSet) Values() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Clone returns an independent copy of the set.
func (s EventSet) Clone() EventSet {
	out := make(EventSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// MarshalJSON renders the set as a sorted JSON array.
func (s EventSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON accepts a JSON array of integers, dropping duplicates.
func (s *EventSet) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewEventSet(ids...)
	return nil
}

package bitmap

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/gemgo/model"
)

// IDSet is a set of gem ids backed by a 32-bit Roaring Bitmap.
// Iteration is always in ascending id order.
type IDSet struct {
	rb *roaring.Bitmap
}

// New creates a new empty set.
func New() *IDSet {
	return &IDSet{
		rb: roaring.New(),
	}
}

// Of creates a set holding the given ids.
func Of(ids ...model.GemID) *IDSet {
	s := New()
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Range creates a set holding every id in [0, n).
func Range(n int) *IDSet {
	s := New()
	if n > 0 {
		s.rb.AddRange(0, uint64(n))
	}
	return s
}

// Add adds an id to the set.
func (s *IDSet) Add(id model.GemID) {
	s.rb.Add(uint32(id))
}

// Remove removes an id from the set.
func (s *IDSet) Remove(id model.GemID) {
	s.rb.Remove(uint32(id))
}

// Contains checks if an id is in the set.
func (s *IDSet) Contains(id model.GemID) bool {
	return s.rb.Contains(uint32(id))
}

// IsEmpty returns true if the set is empty.
func (s *IDSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Cardinality returns the number of ids in the set.
func (s *IDSet) Cardinality() int {
	return int(s.rb.GetCardinality())
}

// Clone returns a deep copy of the set.
func (s *IDSet) Clone() *IDSet {
	return &IDSet{
		rb: s.rb.Clone(),
	}
}

// Iterator returns an ascending iterator over the set.
func (s *IDSet) Iterator() iter.Seq[model.GemID] {
	return func(yield func(model.GemID) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(model.GemID(it.Next())) {
				return
			}
		}
	}
}

// ToSlice returns the ids in ascending order.
func (s *IDSet) ToSlice() []model.GemID {
	raw := s.rb.ToArray()
	out := make([]model.GemID, len(raw))
	for i, v := range raw {
		out[i] = model.GemID(v)
	}
	return out
}

// Or computes the union of two sets in place.
func (s *IDSet) Or(other *IDSet) {
	s.rb.Or(other.rb)
}

// AndNot removes every id of other from s in place.
func (s *IDSet) AndNot(other *IDSet) {
	s.rb.AndNot(other.rb)
}

// Equals reports whether both sets hold the same ids.
func (s *IDSet) Equals(other *IDSet) bool {
	return s.rb.Equals(other.rb)
}

// Clear removes all ids from the set.
func (s *IDSet) Clear() {
	s.rb.Clear()
}

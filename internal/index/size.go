package index

import (
	"maps"
	"slices"

	"github.com/hupe1980/gemgo/internal/bitmap"
	"github.com/hupe1980/gemgo/model"
)

// SizeIndex partitions gem ids by their count of unknown facets.
//
// Empty buckets are dropped eagerly, so every key present maps to a
// non-empty set.
type SizeIndex struct {
	buckets map[int]*bitmap.IDSet
}

// NewSizeIndex creates an empty size index.
func NewSizeIndex() *SizeIndex {
	return &SizeIndex{
		buckets: make(map[int]*bitmap.IDSet),
	}
}

// Add files id under count, creating the bucket if absent.
func (s *SizeIndex) Add(count int, id model.GemID) {
	b, ok := s.buckets[count]
	if !ok {
		b = bitmap.New()
		s.buckets[count] = b
	}
	b.Add(id)
}

// Remove drops id from the bucket for count.
// It reports whether the id was present.
func (s *SizeIndex) Remove(count int, id model.GemID) bool {
	b, ok := s.buckets[count]
	if !ok || !b.Contains(id) {
		return false
	}
	b.Remove(id)
	if b.IsEmpty() {
		delete(s.buckets, count)
	}
	return true
}

// Move re-files id from one bucket to another.
func (s *SizeIndex) Move(from, to int, id model.GemID) bool {
	if !s.Remove(from, id) {
		return false
	}
	s.Add(to, id)
	return true
}

// Contains reports whether id is filed under count.
func (s *SizeIndex) Contains(count int, id model.GemID) bool {
	b, ok := s.buckets[count]
	return ok && b.Contains(id)
}

// Bucket returns a copy of the ids filed under count.
func (s *SizeIndex) Bucket(count int) *bitmap.IDSet {
	b, ok := s.buckets[count]
	if !ok {
		return bitmap.New()
	}
	return b.Clone()
}

// Counts returns the non-empty bucket keys in ascending order.
func (s *SizeIndex) Counts() []int {
	return slices.Sorted(maps.Keys(s.buckets))
}

// Len returns the number of ids filed under count.
func (s *SizeIndex) Len(count int) int {
	b, ok := s.buckets[count]
	if !ok {
		return 0
	}
	return b.Cardinality()
}

// SmallestPair returns the smallest and next-smallest distinct non-empty
// bucket keys that are at least floor. ok is false when fewer than two
// such buckets exist.
func (s *SizeIndex) SmallestPair(floor int) (k1, k2 int, ok bool) {
	found := 0
	for _, count := range s.Counts() {
		if count < floor {
			continue
		}
		switch found {
		case 0:
			k1 = count
		case 1:
			k2 = count
		}
		found++
		if found == 2 {
			return k1, k2, true
		}
	}
	return 0, 0, false
}

// ForEach calls fn for every bucket in ascending count order.
// The set passed to fn must not be modified.
func (s *SizeIndex) ForEach(fn func(count int, ids *bitmap.IDSet) bool) {
	for _, count := range s.Counts() {
		if !fn(count, s.buckets[count]) {
			return
		}
	}
}

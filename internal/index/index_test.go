package index

import (
	"testing"

	"github.com/hupe1980/gemgo/internal/bitmap"
	"github.com/hupe1980/gemgo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeIndex(t *testing.T) {
	t.Run("AddRemove", func(t *testing.T) {
		s := NewSizeIndex()
		s.Add(2, 0)
		s.Add(2, 1)
		s.Add(5, 2)

		assert.Equal(t, []int{2, 5}, s.Counts())
		assert.Equal(t, 2, s.Len(2))

		require.True(t, s.Remove(5, 2))
		assert.False(t, s.Remove(5, 2))
		assert.Equal(t, []int{2}, s.Counts(), "empty bucket is dropped")
	})

	t.Run("Move", func(t *testing.T) {
		s := NewSizeIndex()
		s.Add(3, 9)
		require.True(t, s.Move(3, 1, 9))
		assert.Equal(t, []model.GemID{9}, s.Bucket(1).ToSlice())
		assert.True(t, s.Bucket(3).IsEmpty())
		assert.False(t, s.Move(3, 1, 9))
	})

	t.Run("BucketIsCopy", func(t *testing.T) {
		s := NewSizeIndex()
		s.Add(1, 4)
		b := s.Bucket(1)
		b.Add(5)
		assert.Equal(t, 1, s.Len(1))
	})

	t.Run("SmallestPair", func(t *testing.T) {
		s := NewSizeIndex()
		s.Add(0, 1)
		s.Add(4, 2)
		s.Add(2, 3)
		s.Add(7, 4)

		k1, k2, ok := s.SmallestPair(1)
		require.True(t, ok)
		assert.Equal(t, 2, k1)
		assert.Equal(t, 4, k2)

		k1, k2, ok = s.SmallestPair(0)
		require.True(t, ok)
		assert.Equal(t, 0, k1)
		assert.Equal(t, 2, k2)
	})

	t.Run("SmallestPairInsufficient", func(t *testing.T) {
		s := NewSizeIndex()
		_, _, ok := s.SmallestPair(1)
		assert.False(t, ok)

		s.Add(0, 1)
		s.Add(3, 2)
		s.Add(3, 5)
		_, _, ok = s.SmallestPair(1)
		assert.False(t, ok, "bucket 0 must not count when floor is 1")
	})
}

func TestFacetIndex(t *testing.T) {
	f := NewFacetIndex()
	f.Add("x", 0)
	f.Add("x", 1)
	f.Add("y", 0)
	f.Add("y", 2)
	f.Add("z", 2)

	assert.Equal(t, []string{"x", "y", "z"}, f.Facets())
	assert.Equal(t, []model.GemID{0, 1, 2}, f.Union([]string{"x", "y"}).ToSlice())
	assert.Equal(t, []model.GemID{0, 1}, f.Union([]string{"x", "missing"}).ToSlice())

	f.RemoveAll("x", bitmap.Of(0, 1))
	assert.Equal(t, 2, f.Len(), "drained posting list is dropped")
	assert.True(t, f.Postings("x").IsEmpty())

	f.RemoveAll("y", bitmap.Of(0))
	assert.Equal(t, []model.GemID{2}, f.Postings("y").ToSlice())

	f.RemoveAll("unknown", bitmap.Of(0))
	assert.Equal(t, 2, f.Len())
}

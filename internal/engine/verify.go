package engine

import (
	"fmt"
	"slices"

	"github.com/hupe1980/gemgo/internal/bitmap"
	"github.com/hupe1980/gemgo/internal/index"
	"github.com/hupe1980/gemgo/model"
)

// Verify checks that both indices mirror gem state exactly:
//   - every id in size bucket k exists and has k unknown facets
//   - every gem with k > 0 unknown facets is filed under k
//   - every id in a facet posting list exists and lists the facet
//   - every unknown facet of every gem is indexed
//   - known facets have no remaining holders
//
// Gems with no unknown facets may live in bucket 0 or in no bucket at all.
func (c *Collection) Verify() error {
	var err error
	c.sizes.ForEach(func(count int, ids *bitmap.IDSet) bool {
		for id := range ids.Iterator() {
			if int(id) >= len(c.gems) {
				err = &index.MissingGemError{ID: id, Index: sizeIndexName(count)}
				return false
			}
			if n := len(c.gems[id].facets); n != count {
				err = fmt.Errorf("%w: gem %d has %d unknown facets but is filed under %s",
					ErrInconsistentIndex, id, n, sizeIndexName(count))
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}

	for i, g := range c.gems {
		id := model.GemID(i)
		n := len(g.facets)
		if n > 0 && !c.sizes.Contains(n, id) {
			return fmt.Errorf("%w: gem %d missing from %s", ErrInconsistentIndex, id, sizeIndexName(n))
		}
		for _, facet := range g.facets {
			if !c.facets.Contains(facet, id) {
				return fmt.Errorf("%w: gem %d missing from facet index[%q]", ErrInconsistentIndex, id, facet)
			}
		}
	}

	for _, facet := range c.facets.Facets() {
		for id := range c.facets.Postings(facet).Iterator() {
			if int(id) >= len(c.gems) {
				return &index.MissingGemError{ID: id, Index: fmt.Sprintf("facet index[%q]", facet)}
			}
			if _, ok := slices.BinarySearch(c.gems[id].facets, facet); !ok {
				return fmt.Errorf("%w: facet index[%q] lists gem %d which no longer holds it",
					ErrInconsistentIndex, facet, id)
			}
		}
		if _, ok := c.known[facet]; ok {
			return fmt.Errorf("%w: known facet %q still has holders", ErrInconsistentIndex, facet)
		}
	}
	return nil
}

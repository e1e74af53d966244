package engine

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/gemgo/internal/bitmap"
	"github.com/hupe1980/gemgo/internal/frequency"
	"github.com/hupe1980/gemgo/internal/index"
	"github.com/hupe1980/gemgo/model"
)

type gemState struct {
	sides map[int]string
	// facets is sorted and unique.
	facets []string
}

// Collection is the single owner of gems and their derived indices.
// It is not safe for concurrent use.
type Collection struct {
	gems []gemState

	known      map[string]struct{}
	knownOrder []string

	sizes    *index.SizeIndex
	facets   *index.FacetIndex
	baseline frequency.Table

	indexed   bool
	rounds    int
	completed []model.GemID
}

// Ensure Collection can feed the frequency counter and the selector.
var _ frequency.Source = (*Collection)(nil)

// New creates a collection from gems. Gem ids must equal their position.
// Facet names are deduplicated; empty names are rejected.
func New(gems []model.Gem) (*Collection, error) {
	c := &Collection{
		gems:   make([]gemState, len(gems)),
		known:  make(map[string]struct{}),
		sizes:  index.NewSizeIndex(),
		facets: index.NewFacetIndex(),
	}
	for i, g := range gems {
		if int(g.ID) != i {
			return nil, fmt.Errorf("%w: gem at position %d has id %d", ErrInvalidGem, i, g.ID)
		}
		facets := slices.Clone(g.UnknownFacets)
		slices.Sort(facets)
		facets = slices.Compact(facets)
		if len(facets) > 0 && facets[0] == "" {
			return nil, fmt.Errorf("%w: gem %d has an empty facet name", ErrInvalidGem, g.ID)
		}
		c.gems[i] = gemState{
			sides:  maps.Clone(g.Sides),
			facets: facets,
		}
	}
	return c, nil
}

// BuildIndex populates the size index, the facet index and the baseline
// frequency table from scratch. Gems with no unknown facets are not filed.
func (c *Collection) BuildIndex() error {
	if c.indexed {
		return ErrAlreadyIndexed
	}
	for i, g := range c.gems {
		id := model.GemID(i)
		if n := len(g.facets); n > 0 {
			c.sizes.Add(n, id)
		}
		for _, facet := range g.facets {
			c.facets.Add(facet, id)
		}
	}
	baseline, err := frequency.Count(c, bitmap.Range(len(c.gems)), "all")
	if err != nil {
		return err
	}
	c.baseline = baseline
	c.indexed = true
	return nil
}

// UnknownFacets implements frequency.Source.
func (c *Collection) UnknownFacets(id model.GemID) ([]string, bool) {
	if int(id) >= len(c.gems) {
		return nil, false
	}
	return c.gems[id].facets, true
}

// Len returns the number of gems.
func (c *Collection) Len() int {
	return len(c.gems)
}

// Gem returns a copy of the gem with the given id.
func (c *Collection) Gem(id model.GemID) (model.Gem, bool) {
	if int(id) >= len(c.gems) {
		return model.Gem{}, false
	}
	g := c.gems[id]
	return model.Gem{
		ID:            id,
		Sides:         maps.Clone(g.sides),
		UnknownFacets: slices.Clone(g.facets),
	}, true
}

// Gems returns copies of all gems in id order.
func (c *Collection) Gems() []model.Gem {
	out := make([]model.Gem, len(c.gems))
	for i := range c.gems {
		out[i], _ = c.Gem(model.GemID(i))
	}
	return out
}

// KnownFacets returns the facets taught so far, in teaching order.
func (c *Collection) KnownFacets() []string {
	return slices.Clone(c.knownOrder)
}

// Baseline returns a copy of the collection-wide frequency table.
func (c *Collection) Baseline() frequency.Table {
	return maps.Clone(c.baseline)
}

// Rounds returns the number of completed rounds.
func (c *Collection) Rounds() int {
	return c.rounds
}

// Stats is a point-in-time summary of a collection.
type Stats struct {
	Gems          int
	KnownFacets   int
	UnknownFacets int
	Rounds        int
	// Buckets maps unknown count to the number of gems filed under it.
	Buckets map[int]int
}

// Stats returns a summary of the current state.
func (c *Collection) Stats() Stats {
	s := Stats{
		Gems:          len(c.gems),
		KnownFacets:   len(c.knownOrder),
		UnknownFacets: c.facets.Len(),
		Rounds:        c.rounds,
		Buckets:       make(map[int]int),
	}
	c.sizes.ForEach(func(count int, ids *bitmap.IDSet) bool {
		s.Buckets[count] = ids.Cardinality()
		return true
	})
	return s
}

// Order returns the finalized study order: gems loaded without unknown
// facets, then gems in the order rounds completed them, then the rest by
// remaining unknown count and id.
func (c *Collection) Order() []model.GemID {
	order := make([]model.GemID, 0, len(c.gems))
	seen := bitmap.New()
	for _, id := range c.completed {
		seen.Add(id)
	}
	for i, g := range c.gems {
		id := model.GemID(i)
		if len(g.facets) == 0 && !seen.Contains(id) {
			order = append(order, id)
		}
	}
	order = append(order, c.completed...)

	var rest []model.GemID
	for i, g := range c.gems {
		if len(g.facets) > 0 {
			rest = append(rest, model.GemID(i))
		}
	}
	slices.SortStableFunc(rest, func(a, b model.GemID) int {
		return len(c.gems[a].facets) - len(c.gems[b].facets)
	})
	return append(order, rest...)
}

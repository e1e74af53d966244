package engine

import (
	"fmt"
	"slices"

	"github.com/hupe1980/gemgo/internal/frequency"
	"github.com/hupe1980/gemgo/internal/index"
	"github.com/hupe1980/gemgo/internal/selector"
	"github.com/hupe1980/gemgo/model"
)

// RoundResult describes one completed round.
type RoundResult struct {
	// Round is the 1-based number of this round.
	Round int
	// Target is the smallest non-empty unknown count (the group selected from).
	Target int
	// Support is the next-smallest non-empty count (the group scored against).
	Support int
	// Batch holds the nominated facets.
	Batch model.Batch
	// Source is the gem whose facet set was nominated.
	Source model.GemID
	// Weight is the winning average incidence.
	Weight float64
	// UsedBaseline is true when the collection-wide table was needed.
	UsedBaseline bool
	// Impacted lists every gem that lost facets, ascending.
	Impacted []model.GemID
	// Completed lists impacted gems left with no unknown facets, ascending.
	Completed []model.GemID
}

// Round runs one full ordering round. Either all index updates of the round
// are applied or, on error, none are.
//
// ErrEmptyCandidateGroup and ErrNoViableSelection mark the end of useful
// work. Any error wrapping ErrMissingGem or ErrInconsistentIndex is fatal.
func (c *Collection) Round(minViable int) (RoundResult, error) {
	if !c.indexed {
		return RoundResult{}, ErrNotIndexed
	}

	// Step A: the two smallest distinct non-empty classes. Bucket 0 holds
	// completed gems and never takes part.
	k1, k2, ok := c.sizes.SmallestPair(1)
	if !ok {
		return RoundResult{}, ErrEmptyCandidateGroup
	}

	// Step B: reference frequency from the supporting class.
	table, err := frequency.Count(c, c.sizes.Bucket(k2), sizeIndexName(k2))
	if err != nil {
		return RoundResult{}, err
	}

	// Step C: nominate a facet set from the target class.
	sel, err := selector.Select(c, c.sizes.Bucket(k1), table, c.baseline, minViable)
	if err != nil {
		return RoundResult{}, err
	}

	// Step D: every gem holding any nominated facet.
	impacted := c.facets.Union(sel.Batch)
	ids := impacted.ToSlice()
	if err := c.checkImpacted(ids); err != nil {
		return RoundResult{}, err
	}

	// Step E: strip the batch and re-file each gem under its new count.
	res := RoundResult{
		Round:        c.rounds + 1,
		Target:       k1,
		Support:      k2,
		Batch:        sel.Batch,
		Source:       sel.Gem,
		Weight:       sel.Weight,
		UsedBaseline: sel.UsedBaseline,
		Impacted:     ids,
	}
	for _, id := range ids {
		before := len(c.gems[id].facets)
		remaining := slices.DeleteFunc(slices.Clone(c.gems[id].facets), sel.Batch.Contains)
		c.gems[id].facets = remaining
		c.sizes.Move(before, len(remaining), id)
		if len(remaining) == 0 {
			res.Completed = append(res.Completed, id)
		}
	}
	for _, facet := range sel.Batch {
		c.facets.RemoveAll(facet, impacted)
		if _, ok := c.known[facet]; !ok {
			c.known[facet] = struct{}{}
			c.knownOrder = append(c.knownOrder, facet)
		}
	}

	c.completed = append(c.completed, res.Completed...)
	c.rounds++
	return res, nil
}

// checkImpacted verifies every impacted id before any mutation so a broken
// invariant aborts the round without a partial update.
func (c *Collection) checkImpacted(ids []model.GemID) error {
	for _, id := range ids {
		if int(id) >= len(c.gems) {
			return &index.MissingGemError{ID: id, Index: "facet index"}
		}
		n := len(c.gems[id].facets)
		if n == 0 || !c.sizes.Contains(n, id) {
			return fmt.Errorf("%w: gem %d not filed under %s", ErrInconsistentIndex, id, sizeIndexName(n))
		}
	}
	return nil
}

func sizeIndexName(count int) string {
	return fmt.Sprintf("size index[%d]", count)
}

// Package selector nominates the facet batch taught in one round.
package selector

import (
	"errors"
	"slices"

	"github.com/hupe1980/gemgo/internal/bitmap"
	"github.com/hupe1980/gemgo/internal/frequency"
	"github.com/hupe1980/gemgo/internal/index"
	"github.com/hupe1980/gemgo/model"
)

// ErrNoViableSelection is returned when neither the given table nor the
// baseline table gives any candidate a positive weight.
var ErrNoViableSelection = errors.New("selector: no viable facet selection")

// Selection is the outcome of one selector call.
type Selection struct {
	// Gem is the candidate whose facets were nominated.
	Gem model.GemID
	// Batch is the full unknown-facet set of Gem.
	Batch model.Batch
	// Weight is the average incidence of Batch in the table that won.
	Weight float64
	// UsedBaseline is true when the fallback table produced the result.
	UsedBaseline bool
}

// Select picks the candidate gem whose unknown facets have the highest
// average score in table and returns that gem's whole facet set.
//
// Candidates are visited in ascending id order; a later gem must score
// strictly higher to replace the current best. If no candidate scores
// positively, the search is repeated once against baseline.
//
// minViable is accepted for future thresholding and currently has no effect.
func Select(src frequency.Source, candidates *bitmap.IDSet, table, baseline frequency.Table, minViable int) (Selection, error) {
	_ = minViable

	sel, ok, err := best(src, candidates, table)
	if err != nil {
		return Selection{}, err
	}
	if ok {
		return sel, nil
	}

	sel, ok, err = best(src, candidates, baseline)
	if err != nil {
		return Selection{}, err
	}
	if !ok {
		return Selection{}, ErrNoViableSelection
	}
	sel.UsedBaseline = true
	return sel, nil
}

// Weight returns the average score of facets in table.
// Gems without unknown facets weigh zero.
func Weight(facets []string, table frequency.Table) float64 {
	if len(facets) == 0 {
		return 0
	}
	sum := 0
	for _, facet := range facets {
		sum += table.Score(facet)
	}
	return float64(sum) / float64(len(facets))
}

func best(src frequency.Source, candidates *bitmap.IDSet, table frequency.Table) (Selection, bool, error) {
	var (
		sel   Selection
		found bool
	)
	if len(table) == 0 {
		return sel, false, nil
	}
	for id := range candidates.Iterator() {
		facets, ok := src.UnknownFacets(id)
		if !ok {
			return Selection{}, false, &index.MissingGemError{ID: id, Index: "candidates"}
		}
		if len(facets) == 0 {
			continue
		}
		w := Weight(facets, table)
		if w > sel.Weight {
			sel = Selection{Gem: id, Batch: slices.Clone(facets), Weight: w}
			found = true
		}
	}
	return sel, found, nil
}

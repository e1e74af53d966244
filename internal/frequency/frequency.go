// Package frequency tallies how many gems reference each facet.
package frequency

import (
	"maps"
	"slices"

	"github.com/hupe1980/gemgo/internal/bitmap"
	"github.com/hupe1980/gemgo/internal/index"
	"github.com/hupe1980/gemgo/model"
)

// Source gives read-only access to the unknown facets of a gem.
// The returned slice must not be modified by the caller.
type Source interface {
	UnknownFacets(id model.GemID) ([]string, bool)
}

// Table maps a facet name to the number of gems referencing it.
type Table map[string]int

// Score returns the count for facet, zero if absent.
func (t Table) Score(facet string) int {
	return t[facet]
}

// Facets returns the facet names in ascending order.
func (t Table) Facets() []string {
	return slices.Sorted(maps.Keys(t))
}

// Top returns up to n facets with the highest counts, ties by name.
func (t Table) Top(n int) []string {
	names := t.Facets()
	slices.SortStableFunc(names, func(a, b string) int {
		return t[b] - t[a]
	})
	if n >= 0 && n < len(names) {
		names = names[:n]
	}
	return names
}

// Count tallies, over the gems in ids, how many of them list each facet as
// unknown. Each gem contributes at most once per facet.
//
// source names the index ids was taken from and is only used for errors.
func Count(src Source, ids *bitmap.IDSet, source string) (Table, error) {
	table := make(Table)
	for id := range ids.Iterator() {
		facets, ok := src.UnknownFacets(id)
		if !ok {
			return nil, &index.MissingGemError{ID: id, Index: source}
		}
		for i, facet := range facets {
			// Facet lists are sorted, so a repeat is adjacent.
			if i > 0 && facets[i-1] == facet {
				continue
			}
			table[facet]++
		}
	}
	return table, nil
}

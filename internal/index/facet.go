package index

import (
	"maps"
	"slices"

	"github.com/hupe1980/gemgo/internal/bitmap"
	"github.com/hupe1980/gemgo/model"
)

// FacetIndex maps a facet name to the ids of gems that still list it as
// unknown. It is the inverse of the gem to facets relation.
type FacetIndex struct {
	postings map[string]*bitmap.IDSet
}

// NewFacetIndex creates an empty facet index.
func NewFacetIndex() *FacetIndex {
	return &FacetIndex{
		postings: make(map[string]*bitmap.IDSet),
	}
}

// Add records that gem id holds facet as unknown.
func (f *FacetIndex) Add(facet string, id model.GemID) {
	p, ok := f.postings[facet]
	if !ok {
		p = bitmap.New()
		f.postings[facet] = p
	}
	p.Add(id)
}

// RemoveAll drops every id in ids from the posting list of facet.
func (f *FacetIndex) RemoveAll(facet string, ids *bitmap.IDSet) {
	p, ok := f.postings[facet]
	if !ok {
		return
	}
	p.AndNot(ids)
	if p.IsEmpty() {
		delete(f.postings, facet)
	}
}

// Union returns the ids holding any of the given facets.
func (f *FacetIndex) Union(facets []string) *bitmap.IDSet {
	out := bitmap.New()
	for _, facet := range facets {
		if p, ok := f.postings[facet]; ok {
			out.Or(p)
		}
	}
	return out
}

// Contains reports whether id holds facet.
func (f *FacetIndex) Contains(facet string, id model.GemID) bool {
	p, ok := f.postings[facet]
	return ok && p.Contains(id)
}

// Postings returns a copy of the ids holding facet.
func (f *FacetIndex) Postings(facet string) *bitmap.IDSet {
	p, ok := f.postings[facet]
	if !ok {
		return bitmap.New()
	}
	return p.Clone()
}

// Facets returns the indexed facet names in ascending order.
func (f *FacetIndex) Facets() []string {
	return slices.Sorted(maps.Keys(f.postings))
}

// Len returns the number of distinct facets with at least one holder.
func (f *FacetIndex) Len() int {
	return len(f.postings)
}

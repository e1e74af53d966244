// Package index holds the two derived indices over a gem collection.
//
//   - SizeIndex: unknown-facet count -> gem ids
//   - FacetIndex: facet name -> gem ids still holding it unknown
//
// Neither index is safe for concurrent use. Both are owned by a single
// engine.Collection and only mutated from inside a round.
package index

// Package engine implements the difficulty-ordering core.
//
// A Collection owns:
//   - the gem arena (slice indexed by GemID)
//   - the append-only set of known facets
//   - the size index (unknown count -> ids)
//   - the facet index (facet -> ids)
//   - the baseline frequency table computed at index build
//
// All derived state is private and only mutated by Round, which runs the
// five steps (class selection, reference frequency, selection, impact set,
// mutation) to completion before returning. Gems are addressed by id; the
// engine never keeps a pointer into the arena while walking an index.
package engine

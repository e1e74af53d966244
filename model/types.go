package model

import (
	"fmt"
	"maps"
	"slices"
)

// GemID is the stable identifier of a gem within one run.
// Ids are dense and assigned sequentially at load time.
type GemID uint32

// String returns a string representation of the GemID.
func (id GemID) String() string {
	return fmt.Sprintf("Gem(%d)", uint32(id))
}

// Gem is a flashcard record: display sides plus the facets the learner
// does not know yet.
type Gem struct {
	ID GemID
	// Sides maps side position to display text. Never touched by the engine.
	Sides map[int]string
	// UnknownFacets holds unique facet names.
	UnknownFacets []string
}

// NewGem creates a gem with the given sides and facets.
func NewGem(id GemID, sides map[int]string, facets ...string) Gem {
	return Gem{
		ID:            id,
		Sides:         sides,
		UnknownFacets: facets,
	}
}

// Clone returns a deep copy of the gem.
func (g Gem) Clone() Gem {
	return Gem{
		ID:            g.ID,
		Sides:         maps.Clone(g.Sides),
		UnknownFacets: slices.Clone(g.UnknownFacets),
	}
}

// Known reports whether the gem has no unknown facets left.
func (g Gem) Known() bool {
	return len(g.UnknownFacets) == 0
}

// Batch is a set of facet names taught together in one round, sorted.
type Batch []string

// Contains reports whether name is part of the batch.
func (b Batch) Contains(name string) bool {
	_, ok := slices.BinarySearch(b, name)
	return ok
}

package gemstore

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hupe1980/gemgo/codec"
	"github.com/hupe1980/gemgo/model"
)

// ErrInvalidDeck is returned when a deck file cannot be decoded into gems.
var ErrInvalidDeck = errors.New("gemstore: invalid deck")

// record is the on-disk form of one gem.
type record struct {
	Sides         map[string]string `json:"sides"`
	UnknownFacets []string          `json:"unknown_facets"`
}

// decodeDeck decodes a deck and numbers the gems starting at first.
// Repeated facet names within a record collapse to one.
func decodeDeck(c codec.Codec, data []byte, first model.GemID) ([]model.Gem, error) {
	var recs []record
	if err := c.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}

	gems := make([]model.Gem, len(recs))
	for i, rec := range recs {
		sides := make(map[int]string, len(rec.Sides))
		for k, v := range rec.Sides {
			pos, err := strconv.Atoi(k)
			if err != nil || pos < 0 {
				return nil, fmt.Errorf("%w: record %d: side key %q is not a non-negative integer", ErrInvalidDeck, i, k)
			}
			sides[pos] = v
		}

		facets := make([]string, 0, len(rec.UnknownFacets))
		seen := make(map[string]struct{}, len(rec.UnknownFacets))
		for _, f := range rec.UnknownFacets {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			facets = append(facets, f)
		}

		gems[i] = model.NewGem(first+model.GemID(i), sides, facets...)
	}
	return gems, nil
}

func encodeDeck(c codec.Codec, gems []model.Gem) ([]byte, error) {
	recs := make([]record, len(gems))
	for i, g := range gems {
		sides := make(map[string]string, len(g.Sides))
		for pos, text := range g.Sides {
			sides[strconv.Itoa(pos)] = text
		}
		facets := g.UnknownFacets
		if facets == nil {
			facets = []string{}
		}
		recs[i] = record{Sides: sides, UnknownFacets: facets}
	}
	return c.Marshal(recs)
}

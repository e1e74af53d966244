package engine

import (
	"errors"

	"github.com/hupe1980/gemgo/internal/index"
	"github.com/hupe1980/gemgo/internal/selector"
)

var (
	// ErrInvalidGem is returned when input gems are malformed (non-dense ids, empty facet names).
	ErrInvalidGem = errors.New("invalid gem")

	// ErrAlreadyIndexed is returned when BuildIndex runs on an indexed collection.
	ErrAlreadyIndexed = errors.New("collection already indexed")

	// ErrNotIndexed is returned when a round is attempted before BuildIndex.
	ErrNotIndexed = errors.New("collection not indexed")

	// ErrEmptyCandidateGroup is returned when fewer than two distinct non-empty
	// size buckets remain. It marks a finished ordering, not a failure.
	ErrEmptyCandidateGroup = errors.New("fewer than two non-empty size buckets")

	// ErrInconsistentIndex is returned when a derived index disagrees with gem state.
	ErrInconsistentIndex = errors.New("index inconsistent with gem state")

	// ErrNoViableSelection is returned when no candidate scores in either table.
	ErrNoViableSelection = selector.ErrNoViableSelection

	// ErrMissingGem is returned when an index references an unknown gem id.
	ErrMissingGem = index.ErrMissingGem
)

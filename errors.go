package gemgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gemgo/internal/engine"
	"github.com/hupe1980/gemgo/internal/index"
	"github.com/hupe1980/gemgo/model"
)

var (
	// ErrInvalidGem is returned when input gems are malformed.
	ErrInvalidGem = errors.New("invalid gem")

	// ErrInvalidRounds is returned when the round budget is not positive.
	ErrInvalidRounds = errors.New("round budget must be positive")

	// ErrEmptyCandidateGroup is returned by Round when fewer than two distinct
	// non-empty size classes remain. Run reports it as StopExhausted.
	ErrEmptyCandidateGroup = errors.New("ordering complete: fewer than two size classes remain")

	// ErrNoViableSelection is returned by Round when neither the round's
	// frequency table nor the baseline gives any candidate a positive weight.
	// Run reports it as StopNoViableSelection.
	ErrNoViableSelection = errors.New("no viable facet selection")

	// ErrMissingGem is returned when an index references an unknown gem id.
	// It signals a broken invariant and is always fatal.
	ErrMissingGem = errors.New("index references missing gem")

	// ErrInconsistentIndex is returned when a derived index disagrees with gem state.
	ErrInconsistentIndex = errors.New("index inconsistent with gem state")
)

// MissingGemError identifies the dangling id behind ErrMissingGem.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type MissingGemError struct {
	ID    model.GemID
	Index string
	cause error
}

func (e *MissingGemError) Error() string {
	return fmt.Sprintf("%s: %s references gem %d", ErrMissingGem, e.Index, e.ID)
}

// Is reports ErrMissingGem so callers can match with errors.Is.
func (e *MissingGemError) Is(target error) bool { return target == ErrMissingGem }

func (e *MissingGemError) Unwrap() error { return e.cause }

// IsTerminal reports whether err is an expected end state of an ordering run
// rather than a failure.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrEmptyCandidateGroup) || errors.Is(err, ErrNoViableSelection)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var mge *index.MissingGemError
	if errors.As(err, &mge) {
		return &MissingGemError{ID: mge.ID, Index: mge.Index, cause: err}
	}

	switch {
	case errors.Is(err, engine.ErrEmptyCandidateGroup):
		return fmt.Errorf("%w: %w", ErrEmptyCandidateGroup, err)
	case errors.Is(err, engine.ErrNoViableSelection):
		return fmt.Errorf("%w: %w", ErrNoViableSelection, err)
	case errors.Is(err, engine.ErrInvalidGem):
		return fmt.Errorf("%w: %w", ErrInvalidGem, err)
	case errors.Is(err, engine.ErrInconsistentIndex):
		return fmt.Errorf("%w: %w", ErrInconsistentIndex, err)
	}

	return err
}

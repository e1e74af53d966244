package index

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gemgo/model"
)

// ErrMissingGem is the sentinel wrapped by MissingGemError.
var ErrMissingGem = errors.New("index references missing gem")

// MissingGemError indicates that an index references an id absent from the
// gem arena. It is a broken invariant and always fatal.
type MissingGemError struct {
	ID model.GemID
	// Index names the structure holding the dangling id.
	Index string
}

func (e *MissingGemError) Error() string {
	return fmt.Sprintf("%s references missing gem %d", e.Index, e.ID)
}

func (e *MissingGemError) Unwrap() error { return ErrMissingGem }

package sparse

import (
	"errors"
	"fmt"
)

var (
	// ErrNotMonotone is returned when COO entries of a row are not strictly
	// increasing in column order after sorting (duplicate coordinates).
	ErrNotMonotone = errors.New("sparse: row is not monotone")

	// ErrOutOfRange is returned when a coordinate lies outside the matrix shape.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrMalformed is returned by Validate for structurally broken matrices.
	ErrMalformed = errors.New("sparse: malformed matrix")
)

// MismatchError describes the first difference found by Compare.
type MismatchError struct {
	Field string // "shape", "rowOffsets", "colIndices" or "values"
	Pos   int    // position in Field, -1 for shape
	Want  string
	Got   string
}

func (e *MismatchError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("sparse: %s differs: want %s, got %s", e.Field, e.Want, e.Got)
	}
	return fmt.Sprintf("sparse: %s[%d] differs: want %s, got %s", e.Field, e.Pos, e.Want, e.Got)
}

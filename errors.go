package spgemm

import (
	"errors"
	"fmt"
)

var (
	// ErrNilMatrix is returned when an operand is nil.
	ErrNilMatrix = errors.New("spgemm: nil matrix")
)

// ErrDimensionMismatch indicates that A's column count differs from B's row
// count.
type ErrDimensionMismatch struct {
	Expected int // A columns
	Actual   int // B rows
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: A has %d columns, B has %d rows", e.Expected, e.Actual)
}

// ErrUnknownEngine indicates an engine name or value that is not supported.
type ErrUnknownEngine struct {
	Name string
}

func (e *ErrUnknownEngine) Error() string {
	return fmt.Sprintf("unknown engine: %q", e.Name)
}

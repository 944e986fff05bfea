package cell

import "errors"

var (
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrOutOfBounds       = errors.New("out of bounds")
	ErrNegativeValue     = errors.New("negative value")
	ErrFrozen            = errors.New("bit buffer is frozen")
	ErrTooManyReferences = errors.New("too many references")
	ErrAlreadyAttached   = errors.New("cell is already attached to a parent")
	ErrCycle             = errors.New("cell reference cycle")
	ErrDepthExceeded     = errors.New("cell depth exceeded")
	ErrTooManyCells      = errors.New("too many cells")
)

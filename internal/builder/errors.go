package builder

import "errors"

var (
	// ErrNegativeValue is returned when a terminal value is negative.
	ErrNegativeValue = errors.New("builder: negative value")
	// ErrUnsorted is returned when keys are not in ascending byte order.
	ErrUnsorted = errors.New("builder: keys are not sorted")
	// ErrOffsetOverflow is returned when an offset does not fit a unit.
	ErrOffsetOverflow = errors.New("builder: offset overflow")
	// ErrTooManyUnits is returned when the unit budget is exhausted.
	ErrTooManyUnits = errors.New("builder: unit limit exceeded")
)

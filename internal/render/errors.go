package render

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every error caused by an invalid value
	// given at construction or mutation time.
	ErrValidation = errors.New("render: invalid argument")

	// ErrUnsupported is wrapped by every error caused by an operation a
	// renderer kind forbids, such as forcing renderOnce on a GIF.
	ErrUnsupported = errors.New("render: unsupported operation")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func unsupportedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}

func checkStartingPoint(x, y int) error {
	if x < 0 || x >= MapWidth {
		return invalidf("starting point x=%d out of bounds [0,%d)", x, MapWidth)
	}
	if y < 0 || y >= MapHeight {
		return invalidf("starting point y=%d out of bounds [0,%d)", y, MapHeight)
	}
	return nil
}

func checkBounds(name string, n, startInclusive, endExclusive int) error {
	if n < startInclusive || n >= endExclusive {
		return invalidf("%s %d out of bounds [%d,%d)", name, n, startInclusive, endExclusive)
	}
	return nil
}

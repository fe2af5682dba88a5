package packing

import (
	"errors"
	"fmt"
)

var (
	// ErrItemTooLarge matches every ItemTooLargeError via errors.Is.
	ErrItemTooLarge = errors.New("item does not fit in an empty container")
	// ErrInvalidDimensions is returned when an item has a non-positive or non-finite dimension.
	ErrInvalidDimensions = errors.New("item dimensions must be positive numbers")
	// ErrInvalidContainer is returned when the container has a non-positive dimension.
	ErrInvalidContainer = errors.New("container dimensions must be positive numbers")
	// ErrInvalidFillFactor is returned when the fill factor is outside (0, 1).
	ErrInvalidFillFactor = errors.New("fill factor must be greater than 0 and less than 1")
	// ErrTooManyItems is returned when a selection expands to more than MaxInstances units.
	ErrTooManyItems = errors.New("selection has too many items")
	// ErrDuplicateKey is returned when two units of a selection would share a key.
	ErrDuplicateKey = errors.New("selection contains duplicate item keys")
)

// ItemTooLargeError identifies an instance that exceeds the container on at least one axis.
type ItemTooLargeError struct {
	Item      FlatItem
	Container Container
}

func (e *ItemTooLargeError) Error() string {
	return fmt.Sprintf("%s (%gx%gx%g in) exceeds container %gx%gx%g in: %v",
		e.Item.Key, e.Item.Width, e.Item.Depth, e.Item.Height,
		e.Container.Width, e.Container.Depth, e.Container.Height, ErrItemTooLarge)
}

// Is reports whether target is ErrItemTooLarge.
func (e *ItemTooLargeError) Is(target error) bool {
	return target == ErrItemTooLarge
}

// OversizedItems collects every ItemTooLargeError held by err, in input order.
func OversizedItems(err error) []FlatItem {
	if err == nil {
		return nil
	}

	var out []FlatItem
	var walk func(error)
	walk = func(e error) {
		switch v := e.(type) {
		case *ItemTooLargeError:
			out = append(out, v.Item)
		case interface{ Unwrap() []error }:
			for _, inner := range v.Unwrap() {
				walk(inner)
			}
		default:
			if next := errors.Unwrap(e); next != nil {
				walk(next)
			}
		}
	}
	walk(err)
	return out
}

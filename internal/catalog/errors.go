package catalog

import "errors"

var (
	// ErrInvalidItem is returned when an item is missing an ID or has a non-positive dimension.
	ErrInvalidItem = errors.New("catalog items need an ID and positive width, depth and height")
	// ErrDuplicateItem is returned when two items share an ID.
	ErrDuplicateItem = errors.New("catalog item IDs must be unique")
	// ErrEmptyCatalog is returned when a source yields no items.
	ErrEmptyCatalog = errors.New("catalog must contain at least one item")
)

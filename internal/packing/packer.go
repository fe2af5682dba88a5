package packing

import (
	"errors"
	"fmt"
	"math"
)

// shelfPacker fills one container at a time with rows along x, rows stacked
// along y into a layer, and layers stacked along z.
type shelfPacker struct {
	container Container

	index       int
	x, y, z     float64
	rowDepth    float64
	layerHeight float64
}

func newShelfPacker(container Container) *shelfPacker {
	return &shelfPacker{container: container}
}

// place assigns item a container and origin. The caller guarantees the item
// fits an empty container.
func (p *shelfPacker) place(item FlatItem) PackedItem {
	if !p.insert(item) {
		p.index++
		p.x, p.y, p.z = 0, 0, 0
		p.rowDepth, p.layerHeight = 0, 0
		p.insert(item)
	}

	packed := PackedItem{
		FlatItem:       item,
		ContainerIndex: p.index,
		X:              p.x,
		Y:              p.y,
		Z:              p.z,
	}
	p.x += item.Width
	p.rowDepth = math.Max(p.rowDepth, item.Depth)
	p.layerHeight = math.Max(p.layerHeight, item.Height)
	return packed
}

// insert moves the cursor to the first position in the current container
// where item fits: the cursor itself, the start of the next row, or the start
// of the next layer. It reports false when none of them fits.
func (p *shelfPacker) insert(item FlatItem) bool {
	c := p.container

	if p.x+item.Width <= c.Width && p.y+item.Depth <= c.Depth && p.z+item.Height <= c.Height {
		return true
	}

	nextRow := p.y + p.rowDepth
	if nextRow+item.Depth <= c.Depth && p.z+item.Height <= c.Height {
		p.x, p.y = 0, nextRow
		p.rowDepth = 0
		return true
	}

	nextLayer := p.z + p.layerHeight
	if nextLayer+item.Height <= c.Height {
		p.x, p.y, p.z = 0, 0, nextLayer
		p.rowDepth, p.layerHeight = 0, 0
		return true
	}

	return false
}

// Pack places items, in order, into as many identical containers as needed.
//
// Every item is validated first. More than MaxInstances items return
// ErrTooManyItems. Items with bad dimensions return ErrInvalidDimensions; items
// larger than the container on any axis return an *ItemTooLargeError each,
// joined together. Nothing is placed in any of these cases.
func Pack(items []FlatItem, container Container) (PackingResult, error) {
	if err := validateContainer(container); err != nil {
		return PackingResult{}, err
	}
	if len(items) > MaxInstances {
		return PackingResult{}, fmt.Errorf("%w: %d units, limit is %d", ErrTooManyItems, len(items), MaxInstances)
	}
	if err := validateItems(items, container); err != nil {
		return PackingResult{}, err
	}

	packer := newShelfPacker(container)
	packed := make([]PackedItem, 0, len(items))
	for _, item := range items {
		packed = append(packed, packer.place(item))
	}

	return PackingResult{
		PackedItems: packed,
		FillMetrics: ComputeFillMetrics(packed, container),
	}, nil
}

func validateContainer(c Container) error {
	for _, v := range []float64{c.Width, c.Depth, c.Height} {
		if !positiveFinite(v) {
			return fmt.Errorf("%w: %gx%gx%g", ErrInvalidContainer, c.Width, c.Depth, c.Height)
		}
	}
	return nil
}

func validateItems(items []FlatItem, c Container) error {
	var tooLarge []error
	for _, item := range items {
		if !positiveFinite(item.Width) || !positiveFinite(item.Depth) || !positiveFinite(item.Height) {
			return fmt.Errorf("%w: %s", ErrInvalidDimensions, item.Key)
		}
		if item.Width > c.Width || item.Depth > c.Depth || item.Height > c.Height {
			tooLarge = append(tooLarge, &ItemTooLargeError{Item: item, Container: c})
		}
	}

	switch len(tooLarge) {
	case 0:
		return nil
	case 1:
		return tooLarge[0]
	default:
		return errors.Join(tooLarge...)
	}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

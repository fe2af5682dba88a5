package packing

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hemingto/boombox-11.0-sub001/internal/catalog"
)

// Flatten expands a selection into one FlatItem per physical unit.
//
// Catalog units come first, largest volume first, ties broken by item ID and
// then instance index. Custom items follow in the order they were added. The
// packer relies on this order for reproducible placements.
//
// Selections over MaxInstances units return ErrTooManyItems before anything is
// allocated. A custom item whose key repeats another unit's key returns
// ErrDuplicateKey.
func Flatten(sel Selection, lookup catalog.Lookup) ([]FlatItem, []Warning, error) {
	if err := sel.checkUnits(); err != nil {
		return nil, nil, err
	}

	var (
		out      []FlatItem
		warnings []Warning
	)

	for _, entry := range sel.entries() {
		item, ok := lookup.Lookup(entry.ItemID)
		if !ok {
			warnings = append(warnings, unknownItemWarning(entry.ItemID))
			continue
		}
		for i := 0; i < entry.Quantity; i++ {
			out = append(out, FlatItem{
				Key:      fmt.Sprintf("%s#%d", item.ID, i),
				ItemID:   item.ID,
				Instance: i,
				Name:     item.Name,
				Category: item.Category,
				Width:    item.Width,
				Depth:    item.Depth,
				Height:   item.Height,
				Color:    item.Color,
			})
		}
	}

	slices.SortFunc(out, compareCatalogUnits)

	seen := make(map[string]struct{}, len(out)+len(sel.Custom))
	for _, item := range out {
		seen[item.Key] = struct{}{}
	}

	for i, c := range sel.Custom {
		key := customKey(c, i)
		if _, dup := seen[key]; dup {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		seen[key] = struct{}{}

		out = append(out, FlatItem{
			Key:      key,
			Instance: 0,
			Name:     c.Name,
			Custom:   true,
			Width:    c.Width,
			Depth:    c.Depth,
			Height:   c.Height,
			Color:    c.Color,
		})
	}

	return out, warnings, nil
}

func compareCatalogUnits(a, b FlatItem) int {
	va := a.Width * a.Depth * a.Height
	vb := b.Width * b.Depth * b.Height
	if c := cmp.Compare(vb, va); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ItemID, b.ItemID); c != 0 {
		return c
	}
	return cmp.Compare(a.Instance, b.Instance)
}

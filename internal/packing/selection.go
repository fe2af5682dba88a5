package packing

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// WithQuantity returns a copy of s with itemID set to qty. A quantity of zero or less removes the entry.
func (s Selection) WithQuantity(itemID string, qty int) Selection {
	out := s.clone()
	idx := slices.IndexFunc(out.Items, func(e SelectionEntry) bool { return e.ItemID == itemID })
	switch {
	case qty <= 0 && idx >= 0:
		out.Items = slices.Delete(out.Items, idx, idx+1)
	case qty <= 0:
	case idx >= 0:
		out.Items[idx].Quantity = qty
	default:
		out.Items = append(out.Items, SelectionEntry{ItemID: itemID, Quantity: qty})
	}
	return out
}

// Add returns a copy of s with delta more units of itemID.
func (s Selection) Add(itemID string, delta int) Selection {
	qty := s.Quantity(itemID)
	if delta > 0 {
		return s.WithQuantity(itemID, addQuantity(qty, delta))
	}
	return s.WithQuantity(itemID, qty+delta)
}

// WithCustom returns a copy of s with item appended to the custom list.
func (s Selection) WithCustom(item CustomItem) Selection {
	out := s.clone()
	out.Custom = append(out.Custom, item)
	return out
}

// WithoutCustom returns a copy of s without custom items whose ID is id.
// Flatten rejects duplicate IDs, so a packable selection holds at most one.
func (s Selection) WithoutCustom(id string) Selection {
	out := s.clone()
	out.Custom = slices.DeleteFunc(out.Custom, func(c CustomItem) bool { return c.ID == id })
	return out
}

// Quantity returns the total positive quantity selected for itemID.
func (s Selection) Quantity(itemID string) int {
	total := 0
	for _, e := range s.Items {
		if e.ItemID == itemID && e.Quantity > 0 {
			total = addQuantity(total, e.Quantity)
		}
	}
	return total
}

// Units returns how many physical units s expands to, unknown catalog IDs
// included. The count saturates at math.MaxInt.
func (s Selection) Units() int {
	total := len(s.Custom)
	for _, e := range s.entries() {
		total = addQuantity(total, e.Quantity)
	}
	return total
}

// checkUnits rejects selections that expand past MaxInstances.
func (s Selection) checkUnits() error {
	if n := s.Units(); n > MaxInstances {
		return fmt.Errorf("%w: %d units, limit is %d", ErrTooManyItems, n, MaxInstances)
	}
	return nil
}

// IsEmpty reports whether nothing would be packed.
func (s Selection) IsEmpty() bool {
	return len(s.entries()) == 0 && len(s.Custom) == 0
}

func (s Selection) clone() Selection {
	return Selection{
		Items:  slices.Clone(s.Items),
		Custom: slices.Clone(s.Custom),
	}
}

// entries merges duplicate IDs and drops non-positive quantities, keeping first-seen order.
func (s Selection) entries() []SelectionEntry {
	out := make([]SelectionEntry, 0, len(s.Items))
	pos := make(map[string]int, len(s.Items))
	for _, e := range s.Items {
		id := strings.TrimSpace(e.ItemID)
		if e.Quantity <= 0 || id == "" {
			continue
		}
		if i, ok := pos[id]; ok {
			out[i].Quantity = addQuantity(out[i].Quantity, e.Quantity)
			continue
		}
		pos[id] = len(out)
		out = append(out, SelectionEntry{ItemID: id, Quantity: e.Quantity})
	}
	return out
}

// customKey is the stable identity of the custom item at position i.
func customKey(c CustomItem, i int) string {
	if id := strings.TrimSpace(c.ID); id != "" {
		return id
	}
	return fmt.Sprintf("custom-%d", i)
}

// addQuantity adds two non-negative quantities without wrapping.
func addQuantity(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

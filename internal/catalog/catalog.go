package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// MemoryCatalog keeps a catalog snapshot in-memory and guards access with a RWMutex.
type MemoryCatalog struct {
	mu    sync.RWMutex
	items map[string]Item
}

// New validates items and returns a catalog holding a copy of them.
func New(items []Item) (*MemoryCatalog, error) {
	indexed, err := index(items)
	if err != nil {
		return nil, err
	}
	return &MemoryCatalog{items: indexed}, nil
}

// NewDefault returns a catalog seeded with DefaultItems.
func NewDefault() *MemoryCatalog {
	c, err := New(DefaultItems())
	if err != nil {
		panic(fmt.Sprintf("default catalog is invalid: %v", err))
	}
	return c
}

// Lookup returns the item registered under id.
func (c *MemoryCatalog) Lookup(id string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	return item, ok
}

// Items returns a copy of every item sorted by ID.
func (c *MemoryCatalog) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len reports the number of items.
func (c *MemoryCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Replace validates and swaps in a new snapshot. On error the old snapshot is kept.
func (c *MemoryCatalog) Replace(items []Item) error {
	indexed, err := index(items)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.items = indexed
	c.mu.Unlock()

	return nil
}

func index(items []Item) (map[string]Item, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	out := make(map[string]Item, len(items))
	for _, item := range items {
		item.ID = strings.TrimSpace(item.ID)
		if err := validate(item); err != nil {
			return nil, err
		}
		if _, exists := out[item.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateItem, item.ID)
		}
		out[item.ID] = item
	}
	return out, nil
}

func validate(item Item) error {
	if item.ID == "" {
		return ErrInvalidItem
	}
	for _, v := range []float64{item.Width, item.Depth, item.Height} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %q", ErrInvalidItem, item.ID)
		}
	}
	return nil
}

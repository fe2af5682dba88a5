package packing

import "github.com/hemingto/boombox-11.0-sub001/internal/catalog"

const (
	// DefaultFillFactor is the share of a unit's volume people fill in practice.
	DefaultFillFactor = 0.85

	// MaxInstances bounds how many physical units one selection may expand to,
	// catalog quantities and custom items combined. A full household move is a
	// few hundred units.
	MaxInstances = 2000
)

// Container is the fixed-size storage unit being filled. Dimensions are inches.
type Container struct {
	Width  float64 `json:"width" yaml:"width"`
	Depth  float64 `json:"depth" yaml:"depth"`
	Height float64 `json:"height" yaml:"height"`
}

// DefaultContainer is an 8x6x8 ft unit (384 ft³).
func DefaultContainer() Container {
	return Container{Width: 96, Depth: 72, Height: 96}
}

// CubicFeet returns the unit capacity.
func (c Container) CubicFeet() float64 {
	return c.Width * c.Depth * c.Height / catalog.CubicInchesPerFoot
}

// SelectionEntry is a catalog item and how many units of it the user picked.
type SelectionEntry struct {
	ItemID   string `json:"itemId" yaml:"itemId"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// CustomItem is a user-described item that is not in the catalog. It always counts once.
type CustomItem struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Width  float64 `json:"width" yaml:"width"`
	Depth  float64 `json:"depth" yaml:"depth"`
	Height float64 `json:"height" yaml:"height"`
	Color  string  `json:"color,omitempty" yaml:"color"`
}

// CubicFeet returns the item volume.
func (c CustomItem) CubicFeet() float64 {
	return c.Width * c.Depth * c.Height / catalog.CubicInchesPerFoot
}

// Selection is the caller-owned selection state. The engine only ever reads it.
type Selection struct {
	Items  []SelectionEntry `json:"items" yaml:"items"`
	Custom []CustomItem     `json:"customItems" yaml:"customItems"`
}

// FlatItem is one physical unit to place.
type FlatItem struct {
	Key      string  `json:"key"`
	ItemID   string  `json:"itemId,omitempty"`
	Instance int     `json:"instance"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Custom   bool    `json:"custom"`
	Width    float64 `json:"width"`
	Depth    float64 `json:"depth"`
	Height   float64 `json:"height"`
	Color    string  `json:"color,omitempty"`
}

// CubicFeet returns the bounding-box volume.
func (f FlatItem) CubicFeet() float64 {
	return f.Width * f.Depth * f.Height / catalog.CubicInchesPerFoot
}

// PackedItem is a FlatItem with its container and origin corner.
type PackedItem struct {
	FlatItem
	ContainerIndex int     `json:"containerIndex"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Z              float64 `json:"z"`
}

// FillMetrics summarises how the placement used its containers.
type FillMetrics struct {
	ContainerCount           int     `json:"containerCount"`
	LastContainerFillPercent float64 `json:"lastContainerFillPercent"`
}

// PackingResult is the placement engine output.
type PackingResult struct {
	PackedItems []PackedItem `json:"packedItems"`
	FillMetrics
}

// WarningCode classifies recoverable problems found in a selection.
type WarningCode string

// WarningUnknownItem flags a selection entry whose ID is not in the catalog.
const WarningUnknownItem WarningCode = "unknown_item"

// Warning describes a selection entry that was skipped.
type Warning struct {
	Code    WarningCode `json:"code"`
	ItemID  string      `json:"itemId"`
	Message string      `json:"message"`
}

// Estimate is the full pipeline output for one selection.
type Estimate struct {
	TotalCubicFeet   float64   `json:"totalCubicFeet"`
	UnitsRecommended int       `json:"unitsRecommended"`
	FillFactor       float64   `json:"fillFactor"`
	Container        Container `json:"container"`
	PackingResult
	Warnings []Warning `json:"warnings"`
}

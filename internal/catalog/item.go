package catalog

// CubicInchesPerFoot converts cubic inches to cubic feet.
const CubicInchesPerFoot = 1728.0

// Item is a catalog entry. Dimensions are inches.
type Item struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category" yaml:"category"`
	Width    float64 `json:"width" yaml:"width"`
	Depth    float64 `json:"depth" yaml:"depth"`
	Height   float64 `json:"height" yaml:"height"`
	Color    string  `json:"color" yaml:"color"`
}

// CubicFeet returns the bounding-box volume of a single unit.
func (i Item) CubicFeet() float64 {
	return i.Width * i.Depth * i.Height / CubicInchesPerFoot
}

// Lookup resolves catalog identifiers to items.
type Lookup interface {
	Lookup(id string) (Item, bool)
}

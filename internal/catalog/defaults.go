package catalog

var defaultItems = []Item{
	{ID: "armchair", Name: "Armchair", Category: "living-room", Width: 36, Depth: 36, Height: 40, Color: "#8d6e63"},
	{ID: "bed-queen", Name: "Queen Bed Frame", Category: "bedroom", Width: 84, Depth: 64, Height: 14, Color: "#a1887f"},
	{ID: "bike", Name: "Bicycle", Category: "outdoor", Width: 68, Depth: 24, Height: 42, Color: "#546e7a"},
	{ID: "bookcase", Name: "Bookcase", Category: "office", Width: 36, Depth: 12, Height: 72, Color: "#795548"},
	{ID: "box-large", Name: "Large Box", Category: "boxes", Width: 24, Depth: 18, Height: 18, Color: "#d7a86e"},
	{ID: "box-medium", Name: "Medium Box", Category: "boxes", Width: 18, Depth: 18, Height: 16, Color: "#e0b77c"},
	{ID: "box-small", Name: "Small Box", Category: "boxes", Width: 16, Depth: 12, Height: 12, Color: "#ebc895"},
	{ID: "coffee-table", Name: "Coffee Table", Category: "living-room", Width: 48, Depth: 24, Height: 18, Color: "#6d4c41"},
	{ID: "desk", Name: "Desk", Category: "office", Width: 60, Depth: 30, Height: 30, Color: "#5d4037"},
	{ID: "dining-chair", Name: "Dining Chair", Category: "dining", Width: 18, Depth: 20, Height: 36, Color: "#a1887f"},
	{ID: "dining-table", Name: "Dining Table", Category: "dining", Width: 72, Depth: 36, Height: 30, Color: "#4e342e"},
	{ID: "dresser", Name: "Dresser", Category: "bedroom", Width: 60, Depth: 20, Height: 34, Color: "#6d4c41"},
	{ID: "mattress-queen", Name: "Queen Mattress", Category: "bedroom", Width: 80, Depth: 60, Height: 12, Color: "#eceff1"},
	{ID: "nightstand", Name: "Nightstand", Category: "bedroom", Width: 22, Depth: 18, Height: 26, Color: "#8d6e63"},
	{ID: "refrigerator", Name: "Refrigerator", Category: "appliances", Width: 36, Depth: 32, Height: 70, Color: "#b0bec5"},
	{ID: "sofa", Name: "Sofa", Category: "living-room", Width: 84, Depth: 38, Height: 34, Color: "#607d8b"},
	{ID: "tv", Name: "Television", Category: "electronics", Width: 57, Depth: 6, Height: 34, Color: "#263238"},
	{ID: "washer", Name: "Washing Machine", Category: "appliances", Width: 27, Depth: 30, Height: 38, Color: "#cfd8dc"},
}

// DefaultItems returns a copy of the built-in household catalog.
func DefaultItems() []Item {
	out := make([]Item, len(defaultItems))
	copy(out, defaultItems)
	return out
}

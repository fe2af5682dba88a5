package packing

import (
	"fmt"

	"github.com/hemingto/boombox-11.0-sub001/internal/catalog"
)

// EstimateVolume returns the total cubic feet of a selection. Unknown catalog IDs
// are skipped and reported as warnings.
func EstimateVolume(sel Selection, lookup catalog.Lookup) (float64, []Warning) {
	var (
		total    float64
		warnings []Warning
	)

	for _, entry := range sel.entries() {
		item, ok := lookup.Lookup(entry.ItemID)
		if !ok {
			warnings = append(warnings, unknownItemWarning(entry.ItemID))
			continue
		}
		total += item.CubicFeet() * float64(entry.Quantity)
	}

	for _, c := range sel.Custom {
		total += c.CubicFeet()
	}

	return total, warnings
}

func unknownItemWarning(id string) Warning {
	return Warning{
		Code:    WarningUnknownItem,
		ItemID:  id,
		Message: fmt.Sprintf("item %q is not in the catalog and was skipped", id),
	}
}

package packing

import "math"

// ratioTolerance keeps float noise from pushing an exact fit up a whole unit.
const ratioTolerance = 1e-9

// RecommendUnits returns how many units a user should rent for totalCubicFeet,
// assuming they only manage to fill fillFactor of each unit. This is
// intentionally more conservative than the packer's container count.
func RecommendUnits(totalCubicFeet float64, container Container, fillFactor float64) int {
	if totalCubicFeet <= 0 || math.IsNaN(totalCubicFeet) {
		return 0
	}
	usable := container.CubicFeet() * fillFactor
	if usable <= 0 {
		return 0
	}
	// Anything to store needs at least one unit, however small.
	return max(1, int(math.Ceil(totalCubicFeet/usable-ratioTolerance)))
}

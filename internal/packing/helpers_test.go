package packing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hemingto/boombox-11.0-sub001/internal/catalog"
)

func testCatalog(t testing.TB) *catalog.MemoryCatalog {
	t.Helper()

	c, err := catalog.New([]catalog.Item{
		{ID: "cube-2ft", Name: "Cube", Category: "boxes", Width: 24, Depth: 24, Height: 24, Color: "#aaa"},
		{ID: "crate", Name: "Crate", Category: "boxes", Width: 24, Depth: 24, Height: 12, Color: "#bbb"},
		{ID: "crate-b", Name: "Crate B", Category: "boxes", Width: 24, Depth: 24, Height: 12, Color: "#ccc"},
		{ID: "sofa", Name: "Sofa", Category: "living-room", Width: 84, Depth: 38, Height: 34, Color: "#607d8b"},
		{ID: "lamp", Name: "Lamp", Category: "living-room", Width: 12, Depth: 12, Height: 60, Color: "#fff"},
	})
	require.NoError(t, err)
	return c
}

func mustFlatten(t testing.TB, sel Selection, lookup catalog.Lookup) []FlatItem {
	t.Helper()

	items, _, err := Flatten(sel, lookup)
	require.NoError(t, err)
	return items
}

// assertLayoutInvariants checks containment, pairwise non-overlap and the container count.
func assertLayoutInvariants(t *testing.T, result PackingResult, c Container) {
	t.Helper()

	maxIndex := -1
	for i, a := range result.PackedItems {
		require.GreaterOrEqual(t, a.X, 0.0, a.Key)
		require.GreaterOrEqual(t, a.Y, 0.0, a.Key)
		require.GreaterOrEqual(t, a.Z, 0.0, a.Key)
		require.LessOrEqual(t, a.X+a.Width, c.Width, a.Key)
		require.LessOrEqual(t, a.Y+a.Depth, c.Depth, a.Key)
		require.LessOrEqual(t, a.Z+a.Height, c.Height, a.Key)
		if a.ContainerIndex > maxIndex {
			maxIndex = a.ContainerIndex
		}

		for _, b := range result.PackedItems[i+1:] {
			if a.ContainerIndex != b.ContainerIndex {
				continue
			}
			require.False(t, boxesOverlap(a, b), "%s overlaps %s", a.Key, b.Key)
		}
	}
	require.Equal(t, maxIndex+1, result.ContainerCount)
}

func boxesOverlap(a, b PackedItem) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Depth && b.Y < a.Y+a.Depth &&
		a.Z < b.Z+b.Height && b.Z < a.Z+a.Height
}

func packedVolume(items []PackedItem) float64 {
	var total float64
	for _, p := range items {
		total += p.CubicFeet()
	}
	return total
}

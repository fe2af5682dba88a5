package packing

// ComputeFillMetrics derives the container count and how full the last container is.
// Earlier containers are not reported; the packer only opens a new container once
// the previous one has no room left for the next item.
func ComputeFillMetrics(packed []PackedItem, container Container) FillMetrics {
	if len(packed) == 0 {
		return FillMetrics{}
	}

	last := 0
	for _, p := range packed {
		if p.ContainerIndex > last {
			last = p.ContainerIndex
		}
	}

	var used float64
	for _, p := range packed {
		if p.ContainerIndex == last {
			used += p.CubicFeet()
		}
	}

	metrics := FillMetrics{ContainerCount: last + 1}
	if capacity := container.CubicFeet(); capacity > 0 {
		metrics.LastContainerFillPercent = used / capacity * 100
	}
	return metrics
}
